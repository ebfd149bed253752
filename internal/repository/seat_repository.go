package repository // repository defines data access for seat inventory

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// Fixed seating layout: every showtime gets the same 8x12 grid.
var seatRows = []string{"A", "B", "C", "D", "E", "F", "G", "H"}

const seatsPerRow = 12

// SeatRepo provides methods to work with seat inventory. Seat status
// is never written here; only the booking transaction in BookingRepo
// mutates it.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// GenerateSeatGrid builds the fixed 8x12 seat grid for a showtime,
// all seats available. Seat ids follow the "<showtimeID>-<row><number>"
// convention so they stay unique across showtimes.
func GenerateSeatGrid(showtimeID uint64) []model.Seat {
	seats := make([]model.Seat, 0, len(seatRows)*seatsPerRow)
	for _, row := range seatRows {
		for n := 1; n <= seatsPerRow; n++ {
			seats = append(seats, model.Seat{
				ID:         fmt.Sprintf("%d-%s%d", showtimeID, row, n),
				ShowtimeID: showtimeID,
				Row:        row,
				Number:     uint32(n),
				Status:     model.SeatAvailable,
			})
		}
	}
	return seats
}

// Provision generates the seat grid for a showtime in a single bulk
// insert. The seats primary key doubles as the idempotency guard: a
// second call for the same showtime hits a duplicate key error and is
// reported as ErrSeatsExist without inserting anything.
func (r *SeatRepo) Provision(ctx context.Context, showtimeID uint64) error {
	seats := GenerateSeatGrid(showtimeID)
	query := `INSERT INTO seats (id, showtime_id, row_label, seat_number, status) VALUES `
	args := make([]interface{}, 0, len(seats)*5)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, s.ID, s.ShowtimeID, s.Row, s.Number, s.Status)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrSeatsExist
		}
		return err
	}
	return nil
}

// ListByShowtime retrieves all seats of a showtime ordered by row
// then number. It returns ErrNoSeats when the showtime has no
// provisioned grid.
func (r *SeatRepo) ListByShowtime(ctx context.Context, showtimeID uint64) ([]model.Seat, error) {
	const q = `SELECT id, showtime_id, row_label, seat_number, status
	           FROM seats
	           WHERE showtime_id = ?
	           ORDER BY row_label, seat_number`
	rows, err := r.db.QueryContext(ctx, q, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Seat
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.ShowtimeID, &s.Row, &s.Number, &s.Status); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, ErrNoSeats
	}
	return result, nil
}
