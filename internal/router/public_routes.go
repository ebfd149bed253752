package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/handler"
)

// RegisterPublic registers the unauthenticated browse endpoints:
// movies, theaters, showtimes and seat availability. Guests use these
// to pick seats before logging in to book. The cache middleware is
// passed in so all catalog reads share one Redis response cache.
func RegisterPublic(e *echo.Echo, h *handler.CatalogHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1", cache)
	g.GET("/movies", h.GetMovies)
	g.GET("/movies/:id", h.GetMovie)
	g.GET("/movies/:id/showtimes", h.GetMovieShowtimes)
	g.GET("/theaters", h.GetTheaters)
	g.GET("/showtimes/:id", h.GetShowtime)
	// Seat status drives the booking page; clients re-fetch it after
	// a 409 to see which seats were lost.
	g.GET("/showtimes/:id/seats", h.GetShowtimeSeats)
}
