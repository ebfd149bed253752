// Package repository defines error values that are reused across
// multiple repositories. These sentinels allow higher layers such as
// handlers to distinguish between different failure scenarios, for
// example a missing showtime versus a seat that lost the booking
// race.
package repository

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMovieNotFound is returned when a movie lookup yields no rows.
var ErrMovieNotFound = errors.New("movie not found")

// ErrTheaterNotFound is returned when a theater lookup yields no rows.
var ErrTheaterNotFound = errors.New("theater not found")

// ErrShowtimeNotFound is returned when a showtime lookup yields no rows.
var ErrShowtimeNotFound = errors.New("showtime not found")

// ErrNoSeats is returned when a showtime has no provisioned seats.
// Handlers should translate this into an HTTP 404 response.
var ErrNoSeats = errors.New("no seats for showtime")

// ErrSeatsExist is returned when seat provisioning is attempted for a
// showtime that already has a seat grid. Handlers should translate
// this into an HTTP 409 response.
var ErrSeatsExist = errors.New("seats already provisioned")

// ErrSeatNotInShowtime is returned when a booking request names a
// seat id that does not belong to the requested showtime.
var ErrSeatNotInShowtime = errors.New("seat does not belong to showtime")

// SeatConflictError is returned when at least one requested seat was
// already booked by the time the conditional update ran. It carries
// the losing seat ids so the client can re-render seat selection and
// highlight exactly the seats that are gone.
type SeatConflictError struct {
	SeatIDs []string
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seats no longer available: %s", strings.Join(e.SeatIDs, ", "))
}

// IsSeatConflict reports whether err is a SeatConflictError and, if
// so, returns it for access to the conflicting seat ids.
func IsSeatConflict(err error) (*SeatConflictError, bool) {
	var sc *SeatConflictError
	if errors.As(err, &sc) {
		return sc, true
	}
	return nil, false
}
