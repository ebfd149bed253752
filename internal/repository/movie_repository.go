package repository // repository defines data access for the movie catalog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// MovieRepo provides methods to work with movies in the database.
// Movies are written by admin endpoints and read everywhere else.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// Create inserts a movie record. On success the movie's ID is populated.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	// The column is cast_list because CAST is reserved in MySQL.
	const q = `INSERT INTO movies (title, genre, duration, rating, image, description, director, cast_list)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, m.Title, m.Genre, m.Duration, m.Rating, m.Image, m.Description, m.Director, m.Cast)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// ListAll returns every movie ordered by title.
func (r *MovieRepo) ListAll(ctx context.Context) ([]model.Movie, error) {
	const q = `SELECT id, title, genre, duration, rating, image, description, director, cast_list
	           FROM movies
	           ORDER BY title`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Movie
	for rows.Next() {
		var m model.Movie
		if err := rows.Scan(
			&m.ID, &m.Title, &m.Genre, &m.Duration, &m.Rating,
			&m.Image, &m.Description, &m.Director, &m.Cast,
		); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID retrieves a movie by its id.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	const q = `SELECT id, title, genre, duration, rating, image, description, director, cast_list
	           FROM movies WHERE id = ?`
	var m model.Movie
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&m.ID, &m.Title, &m.Genre, &m.Duration, &m.Rating, &m.Image, &m.Description, &m.Director, &m.Cast)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &m, nil
}
