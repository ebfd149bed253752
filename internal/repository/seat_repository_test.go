package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

func TestGenerateSeatGridShape(t *testing.T) {
	seats := GenerateSeatGrid(42)
	require.Len(t, seats, 96, "8 rows of 12 seats")

	seen := make(map[string]struct{}, len(seats))
	for _, s := range seats {
		assert.Equal(t, uint64(42), s.ShowtimeID)
		assert.Equal(t, model.SeatAvailable, s.Status)
		assert.Equal(t, fmt.Sprintf("42-%s%d", s.Row, s.Number), s.ID)
		_, dup := seen[s.ID]
		assert.False(t, dup, "duplicate seat id %s", s.ID)
		seen[s.ID] = struct{}{}
	}
}

func TestGenerateSeatGridOrdering(t *testing.T) {
	seats := GenerateSeatGrid(7)
	assert.Equal(t, "7-A1", seats[0].ID)
	assert.Equal(t, "7-A12", seats[11].ID)
	assert.Equal(t, "7-B1", seats[12].ID)
	assert.Equal(t, "7-H12", seats[95].ID)

	// Row-major: row never decreases, number resets per row.
	for i := 1; i < len(seats); i++ {
		prev, cur := seats[i-1], seats[i]
		if prev.Row == cur.Row {
			assert.Equal(t, prev.Number+1, cur.Number)
		} else {
			assert.Less(t, prev.Row, cur.Row)
			assert.Equal(t, uint32(1), cur.Number)
		}
	}
}

func TestGenerateSeatGridDistinctShowtimes(t *testing.T) {
	a := GenerateSeatGrid(1)
	b := GenerateSeatGrid(2)
	ids := make(map[string]struct{}, len(a)+len(b))
	for _, s := range append(a, b...) {
		_, dup := ids[s.ID]
		assert.False(t, dup, "seat id %s collides across showtimes", s.ID)
		ids[s.ID] = struct{}{}
	}
}

func newSeatMock(t *testing.T) (*SeatRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSeatRepo(db), mock
}

func TestProvisionInsertsFullGrid(t *testing.T) {
	repo, mock := newSeatMock(t)
	mock.ExpectExec("INSERT INTO seats").
		WillReturnResult(sqlmock.NewResult(0, 96))

	require.NoError(t, repo.Provision(context.Background(), 42))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProvisionSecondCallConflicts(t *testing.T) {
	repo, mock := newSeatMock(t)
	mock.ExpectExec("INSERT INTO seats").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '42-A1' for key 'seats.PRIMARY'"))

	err := repo.Provision(context.Background(), 42)
	assert.ErrorIs(t, err, ErrSeatsExist)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProvisionOtherErrorsPassThrough(t *testing.T) {
	repo, mock := newSeatMock(t)
	mock.ExpectExec("INSERT INTO seats").
		WillReturnError(errors.New("Error 2006: MySQL server has gone away"))

	err := repo.Provision(context.Background(), 42)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSeatsExist)
}

func TestSeatConflictError(t *testing.T) {
	base := &SeatConflictError{SeatIDs: []string{"42-A1", "42-B3"}}
	assert.Contains(t, base.Error(), "42-A1")

	sc, ok := IsSeatConflict(fmt.Errorf("booking failed: %w", base))
	require.True(t, ok, "IsSeatConflict must unwrap")
	assert.Equal(t, []string{"42-A1", "42-B3"}, sc.SeatIDs)

	_, ok = IsSeatConflict(errors.New("something else"))
	assert.False(t, ok)

	_, ok = IsSeatConflict(nil)
	assert.False(t, ok)
}
