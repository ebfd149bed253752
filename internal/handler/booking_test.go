package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
	"github.com/iliyamo/movie-ticket-booking/internal/service"
)

type fakeBookingStore struct {
	bookFn func(ctx context.Context, userID, showtimeID uint64, seatIDs []string) ([]uint64, error)
	listFn func(ctx context.Context, userID uint64) ([]repository.BookingDetail, error)
}

func (f *fakeBookingStore) Book(ctx context.Context, userID, showtimeID uint64, seatIDs []string) ([]uint64, error) {
	return f.bookFn(ctx, userID, showtimeID, seatIDs)
}

func (f *fakeBookingStore) ListByUser(ctx context.Context, userID uint64) ([]repository.BookingDetail, error) {
	return f.listFn(ctx, userID)
}

type fakeShowtimeStore struct {
	getFn func(ctx context.Context, id uint64) (*model.Showtime, error)
}

func (f *fakeShowtimeStore) GetByID(ctx context.Context, id uint64) (*model.Showtime, error) {
	return f.getFn(ctx, id)
}

func knownShowtime() *fakeShowtimeStore {
	return &fakeShowtimeStore{getFn: func(_ context.Context, id uint64) (*model.Showtime, error) {
		return &model.Showtime{ID: id, MovieID: 1, TheaterID: 1, ShowTime: time.Now().UTC()}, nil
	}}
}

func newBookingHandler(store *fakeBookingStore, shows *fakeShowtimeStore) *BookingHandler {
	svc := service.NewBookingService(store, shows, nil, nil, nil, 1500)
	return NewBookingHandler(svc)
}

// bookRequest builds an echo context for POST /v1/showtimes/:id/book
// with the JWT identity already resolved into the context.
func bookRequest(t *testing.T, showtimeID, body string, userID interface{}) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/showtimes/"+showtimeID+"/book", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/showtimes/:id/book")
	c.SetParamNames("id")
	c.SetParamValues(showtimeID)
	if userID != nil {
		c.Set("user_id", userID)
	}
	return c, rec
}

func TestBookSeatsCreated(t *testing.T) {
	store := &fakeBookingStore{bookFn: func(_ context.Context, userID, showtimeID uint64, seatIDs []string) ([]uint64, error) {
		assert.Equal(t, uint64(9), userID)
		assert.Equal(t, uint64(42), showtimeID)
		assert.Equal(t, []string{"42-A1", "42-A2"}, seatIDs)
		return []uint64{101, 102}, nil
	}}
	h := newBookingHandler(store, knownShowtime())

	c, rec := bookRequest(t, "42", `{"seat_ids":["42-A1","42-A2"]}`, float64(9))
	require.NoError(t, h.BookSeats(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"booking_ids":[101,102]`)
	assert.Contains(t, rec.Body.String(), `"total_cents":3000`)
}

func TestBookSeatsConflict(t *testing.T) {
	store := &fakeBookingStore{bookFn: func(context.Context, uint64, uint64, []string) ([]uint64, error) {
		return nil, &repository.SeatConflictError{SeatIDs: []string{"42-A2"}}
	}}
	h := newBookingHandler(store, knownShowtime())

	c, rec := bookRequest(t, "42", `{"seat_ids":["42-A1","42-A2"]}`, float64(9))
	require.NoError(t, h.BookSeats(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"unavailable":["42-A2"]`)
}

func TestBookSeatsNoIdentity(t *testing.T) {
	h := newBookingHandler(&fakeBookingStore{}, knownShowtime())
	c, rec := bookRequest(t, "42", `{"seat_ids":["42-A1"]}`, nil)
	require.NoError(t, h.BookSeats(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBookSeatsBadShowtimeParam(t *testing.T) {
	h := newBookingHandler(&fakeBookingStore{}, knownShowtime())
	c, rec := bookRequest(t, "abc", `{"seat_ids":["42-A1"]}`, float64(9))
	require.NoError(t, h.BookSeats(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookSeatsEmptySelection(t *testing.T) {
	h := newBookingHandler(&fakeBookingStore{}, knownShowtime())
	c, rec := bookRequest(t, "42", `{"seat_ids":[]}`, float64(9))
	require.NoError(t, h.BookSeats(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "seat_ids is required")
}

func TestBookSeatsUnknownShowtime(t *testing.T) {
	shows := &fakeShowtimeStore{getFn: func(context.Context, uint64) (*model.Showtime, error) {
		return nil, repository.ErrShowtimeNotFound
	}}
	h := newBookingHandler(&fakeBookingStore{}, shows)
	c, rec := bookRequest(t, "42", `{"seat_ids":["42-A1"]}`, float64(9))
	require.NoError(t, h.BookSeats(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookSeatsForeignSeat(t *testing.T) {
	store := &fakeBookingStore{bookFn: func(context.Context, uint64, uint64, []string) ([]uint64, error) {
		return nil, repository.ErrSeatNotInShowtime
	}}
	h := newBookingHandler(store, knownShowtime())
	c, rec := bookRequest(t, "42", `{"seat_ids":["41-A1"]}`, float64(9))
	require.NoError(t, h.BookSeats(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookSeatsStoreFailure(t *testing.T) {
	store := &fakeBookingStore{bookFn: func(context.Context, uint64, uint64, []string) ([]uint64, error) {
		return nil, errors.New("connection reset")
	}}
	h := newBookingHandler(store, knownShowtime())
	c, rec := bookRequest(t, "42", `{"seat_ids":["42-A1"]}`, float64(9))
	require.NoError(t, h.BookSeats(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMyBookingsEmpty(t *testing.T) {
	store := &fakeBookingStore{listFn: func(context.Context, uint64) ([]repository.BookingDetail, error) {
		return make([]repository.BookingDetail, 0), nil
	}}
	h := newBookingHandler(store, knownShowtime())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/my-bookings", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", float64(9))

	require.NoError(t, h.MyBookings(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"items":[]`)
}
