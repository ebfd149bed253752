package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// ShowtimeRepo provides data access for showtimes. A showtime links a
// movie to a theater at a start time and is immutable once created.
type ShowtimeRepo struct {
	db *sql.DB
}

// NewShowtimeRepo constructs a ShowtimeRepo with the given DB handle.
func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo {
	return &ShowtimeRepo{db: db}
}

// Create inserts a showtime record. On success the showtime's ID is
// populated. It validates that the referenced movie and theater exist
// by relying on foreign key constraints.
func (r *ShowtimeRepo) Create(ctx context.Context, st *model.Showtime) error {
	const q = `INSERT INTO showtimes (movie_id, theater_id, show_time) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, st.MovieID, st.TheaterID, st.ShowTime.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	st.ID = uint64(id)
	return nil
}

// GetByID retrieves a showtime by its id.
func (r *ShowtimeRepo) GetByID(ctx context.Context, id uint64) (*model.Showtime, error) {
	const q = `SELECT id, movie_id, theater_id, show_time FROM showtimes WHERE id = ?`
	var st model.Showtime
	err := r.db.QueryRowContext(ctx, q, id).Scan(&st.ID, &st.MovieID, &st.TheaterID, &st.ShowTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowtimeNotFound
		}
		return nil, err
	}
	st.ShowTime = st.ShowTime.UTC()
	return &st, nil
}

// ListByMovie returns upcoming showtimes for a movie ordered by start
// time. Past showtimes are filtered out relative to the supplied now.
func (r *ShowtimeRepo) ListByMovie(ctx context.Context, movieID uint64, now time.Time) ([]model.Showtime, error) {
	const q = `SELECT id, movie_id, theater_id, show_time
	           FROM showtimes
	           WHERE movie_id = ? AND show_time >= ?
	           ORDER BY show_time`
	rows, err := r.db.QueryContext(ctx, q, movieID, now.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Showtime
	for rows.Next() {
		var st model.Showtime
		if err := rows.Scan(&st.ID, &st.MovieID, &st.TheaterID, &st.ShowTime); err != nil {
			return nil, err
		}
		st.ShowTime = st.ShowTime.UTC()
		result = append(result, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
