package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// BookingRepo owns the bookings table and is the only writer of seat
// status. The whole book operation runs as one transaction so a crash
// or failure at any step leaves the store in its pre-call state.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// placeholders returns a "?,?,?" string for n parameters.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// Book atomically books the given seats for a user. Within a single
// transaction it:
//
//  1. verifies every requested seat id belongs to the showtime;
//  2. issues one conditional UPDATE flipping status to booked only
//     for rows still available;
//  3. compares the affected-row count against the request — a short
//     count means another buyer already holds at least one seat, so
//     everything is rolled back and a SeatConflictError names the
//     seats that are gone;
//  4. inserts one bookings row per seat with payment status completed.
//
// There is deliberately no application-side read-then-write of seat
// status: mutual exclusion between concurrent buyers comes entirely
// from the atomicity of the conditional update at the database.
func (r *BookingRepo) Book(ctx context.Context, userID, showtimeID uint64, seatIDs []string) ([]uint64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, showtimeID)
	for _, id := range seatIDs {
		args = append(args, id)
	}

	// Membership check. Seats are never deleted while a showtime
	// exists, so this read cannot go stale against the update below.
	memberQ := `SELECT id FROM seats WHERE showtime_id = ? AND id IN (` + placeholders(len(seatIDs)) + `)`
	rows, err := tx.QueryContext(ctx, memberQ, args...)
	if err != nil {
		return nil, err
	}
	known := make(map[string]struct{}, len(seatIDs))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		known[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	// Only a complete, error-free scan may conclude a seat is foreign;
	// a partial result means a store failure, not a bad request.
	if len(known) != len(seatIDs) {
		return nil, ErrSeatNotInShowtime
	}

	// The compare-and-set: one atomic statement, affected-row count
	// tells us whether every requested seat was still available.
	updQ := `UPDATE seats SET status = 'booked'
	         WHERE showtime_id = ? AND id IN (` + placeholders(len(seatIDs)) + `) AND status = 'available'`
	res, err := tx.ExecContext(ctx, updQ, args...)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n != int64(len(seatIDs)) {
		// Lost the race on at least one seat. Roll back the partial
		// update, then read the post-rollback statuses to name the
		// seats that are truly gone.
		if err := tx.Rollback(); err != nil {
			return nil, err
		}
		conflicting, err := r.bookedAmong(ctx, seatIDs)
		if err != nil {
			return nil, err
		}
		return nil, &SeatConflictError{SeatIDs: conflicting}
	}

	now := time.Now().UTC()
	bookingIDs := make([]uint64, 0, len(seatIDs))
	const insQ = `INSERT INTO bookings (user_id, seat_id, booking_time, payment_status) VALUES (?, ?, ?, ?)`
	for _, seatID := range seatIDs {
		res, err := tx.ExecContext(ctx, insQ, userID, seatID, now.Format("2006-01-02 15:04:05"), model.PaymentCompleted)
		if err != nil {
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		bookingIDs = append(bookingIDs, uint64(id))
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return bookingIDs, nil
}

// bookedAmong returns which of the given seat ids currently have
// status booked. Used to populate SeatConflictError after a rollback.
func (r *BookingRepo) bookedAmong(ctx context.Context, seatIDs []string) ([]string, error) {
	q := `SELECT id FROM seats WHERE id IN (` + placeholders(len(seatIDs)) + `) AND status = 'booked'
	      ORDER BY row_label, seat_number`
	args := make([]interface{}, 0, len(seatIDs))
	for _, id := range seatIDs {
		args = append(args, id)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var booked []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		booked = append(booked, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return booked, nil
}

// BookingDetail is one seat-level history record joined back to the
// showtime's movie and theater for display and ticket export.
type BookingDetail struct {
	ID            uint64    `json:"id"`
	SeatID        string    `json:"seat_id"`
	Row           string    `json:"row"`
	Number        uint32    `json:"number"`
	BookingTime   time.Time `json:"booking_time"`
	PaymentStatus string    `json:"payment_status"`
	ShowtimeID    uint64    `json:"showtime_id"`
	ShowTime      time.Time `json:"show_time"`
	MovieTitle    string    `json:"movie_title"`
	MovieGenre    string    `json:"movie_genre"`
	MovieDuration string    `json:"movie_duration"`
	MovieImage    string    `json:"movie_image"`
	TheaterName   string    `json:"theater_name"`
	TheaterPlace  string    `json:"theater_location"`
}

// ListByUser returns all bookings for the given user joined to seat,
// showtime, movie and theater facts, newest first. A user with no
// bookings gets an empty slice, not an error.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	const q = `SELECT b.id, b.seat_id, se.row_label, se.seat_number, b.booking_time, b.payment_status,
	                  st.id, st.show_time, m.title, m.genre, m.duration, m.image, t.name, t.location
	           FROM bookings b
	           JOIN seats se ON se.id = b.seat_id
	           JOIN showtimes st ON st.id = se.showtime_id
	           JOIN movies m ON m.id = st.movie_id
	           JOIN theaters t ON t.id = st.theater_id
	           WHERE b.user_id = ?
	           ORDER BY b.booking_time DESC, b.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]BookingDetail, 0)
	for rows.Next() {
		var d BookingDetail
		if err := rows.Scan(
			&d.ID, &d.SeatID, &d.Row, &d.Number, &d.BookingTime, &d.PaymentStatus,
			&d.ShowtimeID, &d.ShowTime, &d.MovieTitle, &d.MovieGenre, &d.MovieDuration,
			&d.MovieImage, &d.TheaterName, &d.TheaterPlace,
		); err != nil {
			return nil, err
		}
		d.BookingTime = d.BookingTime.UTC()
		d.ShowTime = d.ShowTime.UTC()
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}
