package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/queue"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// ----- mocks -----

type bookingStoreMock struct {
	bookFn func(ctx context.Context, userID, showtimeID uint64, seatIDs []string) ([]uint64, error)
	listFn func(ctx context.Context, userID uint64) ([]repository.BookingDetail, error)
}

func (m *bookingStoreMock) Book(ctx context.Context, userID, showtimeID uint64, seatIDs []string) ([]uint64, error) {
	return m.bookFn(ctx, userID, showtimeID, seatIDs)
}

func (m *bookingStoreMock) ListByUser(ctx context.Context, userID uint64) ([]repository.BookingDetail, error) {
	return m.listFn(ctx, userID)
}

type showtimeStoreMock struct {
	getFn func(ctx context.Context, id uint64) (*model.Showtime, error)
}

func (m *showtimeStoreMock) GetByID(ctx context.Context, id uint64) (*model.Showtime, error) {
	return m.getFn(ctx, id)
}

type movieStoreMock struct {
	getFn func(ctx context.Context, id uint64) (*model.Movie, error)
}

func (m *movieStoreMock) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	return m.getFn(ctx, id)
}

type theaterStoreMock struct {
	getFn func(ctx context.Context, id uint64) (*model.Theater, error)
}

func (m *theaterStoreMock) GetByID(ctx context.Context, id uint64) (*model.Theater, error) {
	return m.getFn(ctx, id)
}

func fixedShowtime() *showtimeStoreMock {
	return &showtimeStoreMock{getFn: func(_ context.Context, id uint64) (*model.Showtime, error) {
		return &model.Showtime{ID: id, MovieID: 7, TheaterID: 3, ShowTime: time.Now().UTC().Add(24 * time.Hour)}, nil
	}}
}

// memBookingStore is an in-memory BookingStore honoring the same
// contract as the SQL implementation: the availability check and
// status flip happen under one lock, all seats or none.
type memBookingStore struct {
	mu     sync.Mutex
	status map[string]string
	nextID uint64
	owners map[string]uint64 // seat id -> user who booked it
}

func newMemBookingStore(seatIDs ...string) *memBookingStore {
	st := &memBookingStore{status: make(map[string]string), owners: make(map[string]uint64)}
	for _, id := range seatIDs {
		st.status[id] = model.SeatAvailable
	}
	return st
}

func (m *memBookingStore) Book(_ context.Context, userID, _ uint64, seatIDs []string) ([]uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range seatIDs {
		if _, ok := m.status[id]; !ok {
			return nil, repository.ErrSeatNotInShowtime
		}
	}
	var gone []string
	for _, id := range seatIDs {
		if m.status[id] != model.SeatAvailable {
			gone = append(gone, id)
		}
	}
	if len(gone) > 0 {
		return nil, &repository.SeatConflictError{SeatIDs: gone}
	}
	ids := make([]uint64, 0, len(seatIDs))
	for _, id := range seatIDs {
		m.status[id] = model.SeatBooked
		m.owners[id] = userID
		m.nextID++
		ids = append(ids, m.nextID)
	}
	return ids, nil
}

func (m *memBookingStore) ListByUser(_ context.Context, userID uint64) ([]repository.BookingDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]repository.BookingDetail, 0)
	for id, owner := range m.owners {
		if owner == userID {
			out = append(out, repository.BookingDetail{SeatID: id, PaymentStatus: model.PaymentCompleted})
		}
	}
	return out, nil
}

// ----- precondition tests -----

func TestBookSeatsUnauthenticated(t *testing.T) {
	store := &bookingStoreMock{bookFn: func(context.Context, uint64, uint64, []string) ([]uint64, error) {
		t.Fatal("store must not be touched for unauthenticated calls")
		return nil, nil
	}}
	shows := &showtimeStoreMock{getFn: func(context.Context, uint64) (*model.Showtime, error) {
		t.Fatal("showtime lookup must not happen for unauthenticated calls")
		return nil, nil
	}}
	svc := NewBookingService(store, shows, nil, nil, nil, 1500)

	res, err := svc.BookSeats(context.Background(), 0, 42, []string{"42-A1"})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestBookSeatsEmptySelection(t *testing.T) {
	store := &bookingStoreMock{bookFn: func(context.Context, uint64, uint64, []string) ([]uint64, error) {
		t.Fatal("store must not be touched for empty selections")
		return nil, nil
	}}
	svc := NewBookingService(store, fixedShowtime(), nil, nil, nil, 1500)

	for _, seats := range [][]string{nil, {}, {"", ""}} {
		res, err := svc.BookSeats(context.Background(), 9, 42, seats)
		assert.Nil(t, res)
		assert.ErrorIs(t, err, ErrEmptySeatSelection)
	}
}

func TestBookSeatsShowtimeNotFound(t *testing.T) {
	store := &bookingStoreMock{bookFn: func(context.Context, uint64, uint64, []string) ([]uint64, error) {
		t.Fatal("store must not be touched for unknown showtimes")
		return nil, nil
	}}
	shows := &showtimeStoreMock{getFn: func(context.Context, uint64) (*model.Showtime, error) {
		return nil, repository.ErrShowtimeNotFound
	}}
	svc := NewBookingService(store, shows, nil, nil, nil, 1500)

	_, err := svc.BookSeats(context.Background(), 9, 42, []string{"42-A1"})
	assert.ErrorIs(t, err, repository.ErrShowtimeNotFound)
}

func TestBookSeatsDedupesSelection(t *testing.T) {
	var got []string
	store := &bookingStoreMock{bookFn: func(_ context.Context, _, _ uint64, seatIDs []string) ([]uint64, error) {
		got = seatIDs
		return []uint64{1, 2}, nil
	}}
	svc := NewBookingService(store, fixedShowtime(), nil, nil, nil, 1500)

	res, err := svc.BookSeats(context.Background(), 9, 42, []string{"42-A1", "42-A2", "42-A1", ""})
	require.NoError(t, err)
	assert.Equal(t, []string{"42-A1", "42-A2"}, got)
	assert.Equal(t, uint32(3000), res.TotalCents)
}

// ----- outcome tests -----

func TestBookSeatsSuccess(t *testing.T) {
	store := newMemBookingStore("42-A1", "42-A2", "42-A3")
	var published []queue.BookingConfirmedEvent
	publish := func(_ context.Context, ev queue.BookingConfirmedEvent) error {
		published = append(published, ev)
		return nil
	}
	movies := &movieStoreMock{getFn: func(context.Context, uint64) (*model.Movie, error) {
		return &model.Movie{ID: 7, Title: "Arrival"}, nil
	}}
	theaters := &theaterStoreMock{getFn: func(context.Context, uint64) (*model.Theater, error) {
		return &model.Theater{ID: 3, Name: "Grand Hall"}, nil
	}}
	svc := NewBookingService(store, fixedShowtime(), movies, theaters, publish, 1500)

	res, err := svc.BookSeats(context.Background(), 9, 42, []string{"42-A1", "42-A2"})
	require.NoError(t, err)
	assert.Len(t, res.BookingIDs, 2)
	assert.Equal(t, []string{"42-A1", "42-A2"}, res.SeatIDs)
	assert.Equal(t, uint32(3000), res.TotalCents)

	require.Len(t, published, 1)
	assert.Equal(t, uint64(9), published[0].UserID)
	assert.Equal(t, "Arrival", published[0].MovieTitle)
	assert.Equal(t, "Grand Hall", published[0].TheaterName)
	assert.Equal(t, []string{"42-A1", "42-A2"}, published[0].SeatIDs)
}

func TestBookSeatsConflictNamesLostSeats(t *testing.T) {
	store := newMemBookingStore("42-A1", "42-A2", "42-A3")
	_, err := store.Book(context.Background(), 1, 42, []string{"42-A2"})
	require.NoError(t, err)

	published := 0
	publish := func(context.Context, queue.BookingConfirmedEvent) error {
		published++
		return nil
	}
	svc := NewBookingService(store, fixedShowtime(), nil, nil, publish, 1500)

	res, err := svc.BookSeats(context.Background(), 9, 42, []string{"42-A1", "42-A2", "42-A3"})
	assert.Nil(t, res)
	sc, ok := repository.IsSeatConflict(err)
	require.True(t, ok, "expected SeatConflictError, got %v", err)
	assert.Equal(t, []string{"42-A2"}, sc.SeatIDs)
	assert.Zero(t, published, "no event for a failed booking")

	// The losing request must not have booked its other seats.
	assert.Equal(t, model.SeatAvailable, store.status["42-A1"])
	assert.Equal(t, model.SeatAvailable, store.status["42-A3"])
}

func TestBookSeatsPublishFailureDoesNotFailBooking(t *testing.T) {
	store := newMemBookingStore("42-A1")
	publish := func(context.Context, queue.BookingConfirmedEvent) error {
		return errors.New("broker down")
	}
	svc := NewBookingService(store, fixedShowtime(), nil, nil, publish, 1500)

	res, err := svc.BookSeats(context.Background(), 9, 42, []string{"42-A1"})
	require.NoError(t, err)
	assert.Len(t, res.BookingIDs, 1)
}

func TestBookSeatsStoreErrorNoEvent(t *testing.T) {
	store := &bookingStoreMock{bookFn: func(context.Context, uint64, uint64, []string) ([]uint64, error) {
		return nil, errors.New("insert failed, transaction rolled back")
	}}
	published := 0
	publish := func(context.Context, queue.BookingConfirmedEvent) error {
		published++
		return nil
	}
	svc := NewBookingService(store, fixedShowtime(), nil, nil, publish, 1500)

	res, err := svc.BookSeats(context.Background(), 9, 42, []string{"42-A1"})
	assert.Nil(t, res)
	assert.Error(t, err)
	assert.Zero(t, published, "no event when the transaction fails")
}

// ----- concurrency -----

func TestConcurrentBookingSingleWinner(t *testing.T) {
	const buyers = 32
	store := newMemBookingStore("42-A1", "42-A2")
	svc := NewBookingService(store, fixedShowtime(), nil, nil, nil, 1500)

	var wg sync.WaitGroup
	results := make([]error, buyers)
	start := make(chan struct{})
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, err := svc.BookSeats(context.Background(), uint64(i+1), 42, []string{"42-A1", "42-A2"})
			results[i] = err
		}(i)
	}
	close(start)
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
			continue
		}
		_, ok := repository.IsSeatConflict(err)
		assert.True(t, ok, "losers must see a seat conflict, got %v", err)
	}
	assert.Equal(t, 1, winners, "exactly one buyer may win the seats")
	assert.Equal(t, model.SeatBooked, store.status["42-A1"])
	assert.Equal(t, model.SeatBooked, store.status["42-A2"])
}

func TestConcurrentDisjointSeatsAllSucceed(t *testing.T) {
	store := newMemBookingStore("42-A1", "42-A2", "42-A3", "42-A4")
	svc := NewBookingService(store, fixedShowtime(), nil, nil, nil, 1500)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			seat := []string{store.seatID(i)}
			_, errs[i] = svc.BookSeats(context.Background(), uint64(i+1), 42, seat)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "buyer %d with a disjoint seat must succeed", i+1)
	}
}

func (m *memBookingStore) seatID(i int) string {
	return []string{"42-A1", "42-A2", "42-A3", "42-A4"}[i]
}

// ----- history -----

func TestListBookingsRequiresIdentity(t *testing.T) {
	svc := NewBookingService(newMemBookingStore(), fixedShowtime(), nil, nil, nil, 1500)
	_, err := svc.ListBookings(context.Background(), 0)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestListBookingsEmptyHistory(t *testing.T) {
	svc := NewBookingService(newMemBookingStore("42-A1"), fixedShowtime(), nil, nil, nil, 1500)
	items, err := svc.ListBookings(context.Background(), 9)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}
