package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/handler"
	"github.com/iliyamo/movie-ticket-booking/internal/middleware"
)

// RegisterAdmin registers catalog management under /v1/admin. Routes
// require a JWT with the ADMIN role.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)
	g.POST("/movies", h.CreateMovie)
	g.POST("/theaters", h.CreateTheater)
	g.POST("/showtimes", h.CreateShowtime)
	g.POST("/showtimes/:id/seats", h.ProvisionSeats)
}
