package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// TheaterRepo provides methods to work with theaters in the database.
type TheaterRepo struct {
	db *sql.DB
}

// NewTheaterRepo constructs a TheaterRepo with the given DB handle.
func NewTheaterRepo(db *sql.DB) *TheaterRepo {
	return &TheaterRepo{db: db}
}

// Create inserts a theater record. On success the theater's ID is populated.
func (r *TheaterRepo) Create(ctx context.Context, t *model.Theater) error {
	const q = `INSERT INTO theaters (name, location) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.Name, t.Location)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// ListAll returns every theater ordered by name.
func (r *TheaterRepo) ListAll(ctx context.Context) ([]model.Theater, error) {
	const q = `SELECT id, name, location FROM theaters ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Theater
	for rows.Next() {
		var t model.Theater
		if err := rows.Scan(&t.ID, &t.Name, &t.Location); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID retrieves a theater by its id.
func (r *TheaterRepo) GetByID(ctx context.Context, id uint64) (*model.Theater, error) {
	const q = `SELECT id, name, location FROM theaters WHERE id = ?`
	var t model.Theater
	err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.Name, &t.Location)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTheaterNotFound
		}
		return nil, err
	}
	return &t, nil
}
