// Package service contains the booking transaction engine. It sits
// between the HTTP handlers and the repositories: handlers resolve
// the caller's identity and pass it in explicitly, the engine checks
// preconditions, and the store performs the atomic seat flip plus
// booking insert. The engine holds no locks of its own — multiple
// server instances may run this code concurrently and correctness
// rests entirely on the storage-level compare-and-set.
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/queue"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// ErrUnauthenticated is returned when BookSeats is invoked without a
// resolved user identity. No store access happens in that case.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrEmptySeatSelection is returned when the request contains no
// usable seat ids after deduplication.
var ErrEmptySeatSelection = errors.New("no seats selected")

// BookingStore is the transactional write and history read side of
// the bookings table. The production implementation is
// repository.BookingRepo; tests substitute in-memory fakes that
// honor the same atomicity contract.
type BookingStore interface {
	Book(ctx context.Context, userID, showtimeID uint64, seatIDs []string) ([]uint64, error)
	ListByUser(ctx context.Context, userID uint64) ([]repository.BookingDetail, error)
}

// ShowtimeStore resolves showtime ids against the catalog.
type ShowtimeStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Showtime, error)
}

// MovieStore and TheaterStore provide display facts for the confirmed
// booking event. They are optional; a nil store just leaves the event
// fields empty.
type MovieStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Movie, error)
}

type TheaterStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Theater, error)
}

// EventPublisher delivers a confirmed-booking event to the broker.
type EventPublisher func(ctx context.Context, ev queue.BookingConfirmedEvent) error

// BookingService implements the seat booking flow and history view.
type BookingService struct {
	bookings  BookingStore
	showtimes ShowtimeStore
	movies    MovieStore
	theaters  TheaterStore
	publish   EventPublisher
	unitPrice uint32 // flat price per seat in cents
}

// NewBookingService wires the engine. bookings and showtimes must be
// non-nil; movies, theaters and publish may be nil.
func NewBookingService(bookings BookingStore, showtimes ShowtimeStore, movies MovieStore, theaters TheaterStore, publish EventPublisher, unitPriceCents uint32) *BookingService {
	if bookings == nil || showtimes == nil {
		panic("nil store passed to NewBookingService")
	}
	return &BookingService{
		bookings:  bookings,
		showtimes: showtimes,
		movies:    movies,
		theaters:  theaters,
		publish:   publish,
		unitPrice: unitPriceCents,
	}
}

// dedupe drops empty and repeated seat ids while preserving order.
func dedupe(seatIDs []string) []string {
	unique := make([]string, 0, len(seatIDs))
	seen := make(map[string]struct{}, len(seatIDs))
	for _, id := range seatIDs {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			unique = append(unique, id)
		}
	}
	return unique
}

// BookSeats books the requested seats for the user, all or nothing.
//
// Preconditions are checked before any mutation: the caller must be
// authenticated and the seat set non-empty and belonging to an
// existing showtime. The mutation itself is delegated to the store's
// single atomic transaction; when that transaction reports a short
// affected-row count the whole call fails with a SeatConflictError
// naming the seats another buyer got first.
//
// Errors surfaced to callers: ErrUnauthenticated,
// ErrEmptySeatSelection, repository.ErrShowtimeNotFound,
// repository.ErrSeatNotInShowtime, *repository.SeatConflictError, or
// a store error (transient, safe to retry the whole call).
func (s *BookingService) BookSeats(ctx context.Context, userID, showtimeID uint64, seatIDs []string) (*model.BookingResult, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	unique := dedupe(seatIDs)
	if len(unique) == 0 {
		return nil, ErrEmptySeatSelection
	}
	st, err := s.showtimes.GetByID(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	bookingIDs, err := s.bookings.Book(ctx, userID, showtimeID, unique)
	if err != nil {
		return nil, err
	}

	result := &model.BookingResult{
		BookingIDs: bookingIDs,
		SeatIDs:    unique,
		TotalCents: uint32(len(unique)) * s.unitPrice,
	}
	s.publishConfirmed(ctx, userID, st, result)
	return result, nil
}

// ListBookings returns the caller's seat-level booking history,
// newest first. A user with no bookings gets an empty slice.
func (s *BookingService) ListBookings(ctx context.Context, userID uint64) ([]repository.BookingDetail, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	return s.bookings.ListByUser(ctx, userID)
}

// publishConfirmed emits the booking.confirmed event. Publishing is
// best effort: the booking already committed, so broker or catalog
// failures are logged and swallowed.
func (s *BookingService) publishConfirmed(ctx context.Context, userID uint64, st *model.Showtime, res *model.BookingResult) {
	if s.publish == nil {
		return
	}
	ev := queue.BookingConfirmedEvent{
		BookingIDs:  res.BookingIDs,
		UserID:      userID,
		ShowtimeID:  st.ID,
		ShowTime:    st.ShowTime.UTC().Format(time.RFC3339),
		SeatIDs:     res.SeatIDs,
		TotalCents:  res.TotalCents,
		ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if s.movies != nil {
		if m, err := s.movies.GetByID(ctx, st.MovieID); err == nil {
			ev.MovieTitle = m.Title
		}
	}
	if s.theaters != nil {
		if t, err := s.theaters.GetByID(ctx, st.TheaterID); err == nil {
			ev.TheaterName = t.Name
		}
	}
	if err := s.publish(ctx, ev); err != nil {
		log.Printf("booking: publish confirmed event failed: %v", err)
	}
}
