// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/handler"
	"github.com/iliyamo/movie-ticket-booking/internal/middleware"
)

// RegisterRoutes registers routes that need no authentication or
// caching. Currently only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the session endpoints under /v1/auth plus
// the authenticated /v1/me route.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout needs only the refresh token in the body, not a JWT, so
	// a client with an expired access token can still end its session.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}
