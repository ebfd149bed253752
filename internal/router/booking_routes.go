package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/handler"
	"github.com/iliyamo/movie-ticket-booking/internal/middleware"
)

// RegisterBooking registers the seat booking flow under /v1. All
// routes require a valid JWT; both roles may book. The token-bucket
// limiter wraps only the booking POST, where on-sale bursts land.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "CUSTOMER"),
	)
	g.POST("/showtimes/:id/book", h.BookSeats, limiter)
	g.GET("/my-bookings", h.MyBookings)
}
