package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/repository"
	"github.com/iliyamo/movie-ticket-booking/internal/service"
)

// BookingHandler exposes the seat booking flow and booking history.
// JWT authentication runs before these handlers; identity is resolved
// per request and passed to the engine explicitly.
type BookingHandler struct {
	Svc *service.BookingService
}

func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	if svc == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{Svc: svc}
}

// BookSeats handles POST /v1/showtimes/:id/book. The body carries a
// "seat_ids" array. The response is all-or-nothing: either every
// requested seat was booked (201 with booking ids and total price) or
// none were. A lost race returns 409 naming the conflicting seats so
// the client can re-render its seat map.
func (h *BookingHandler) BookSeats(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showtimeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || showtimeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	var body struct {
		SeatIDs []string `json:"seat_ids"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	result, err := h.Svc.BookSeats(c.Request().Context(), userID, showtimeID, body.SeatIDs)
	if err != nil {
		if sc, ok := repository.IsSeatConflict(err); ok {
			return c.JSON(http.StatusConflict, echo.Map{
				"error":       "some seats are no longer available",
				"unavailable": sc.SeatIDs,
			})
		}
		switch {
		case errors.Is(err, service.ErrUnauthenticated):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		case errors.Is(err, service.ErrEmptySeatSelection):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_ids is required"})
		case errors.Is(err, repository.ErrSeatNotInShowtime):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat does not belong to showtime"})
		case errors.Is(err, repository.ErrShowtimeNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		}
		// Anything else is a store failure; the transaction rolled
		// back, so the caller may safely retry the whole request.
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "store unavailable, retry"})
	}

	return c.JSON(http.StatusCreated, result)
}

// MyBookings handles GET /v1/my-bookings and returns the caller's
// seat-level booking history, newest first. An empty history is a 200
// with an empty items array.
func (h *BookingHandler) MyBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.Svc.ListBookings(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": details})
}
