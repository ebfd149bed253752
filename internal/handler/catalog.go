package handler

// This file defines handlers for the public browsing API. These
// routes let unauthenticated users browse movies, theaters, showtimes
// and seat availability before logging in to book.

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// CatalogHandler aggregates repositories needed for unauthenticated browsing.
type CatalogHandler struct {
	Movies    *repository.MovieRepo
	Theaters  *repository.TheaterRepo
	Showtimes *repository.ShowtimeRepo
	Seats     *repository.SeatRepo
}

func NewCatalogHandler(movies *repository.MovieRepo, theaters *repository.TheaterRepo, showtimes *repository.ShowtimeRepo, seats *repository.SeatRepo) *CatalogHandler {
	if movies == nil || theaters == nil || showtimes == nil || seats == nil {
		panic("nil repository passed to NewCatalogHandler")
	}
	return &CatalogHandler{Movies: movies, Theaters: theaters, Showtimes: showtimes, Seats: seats}
}

// movieResp is the public movie representation.
type movieResp struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Genre       string `json:"genre"`
	Duration    string `json:"duration"`
	Rating      string `json:"rating"`
	Image       string `json:"image"`
	Description string `json:"description"`
	Director    string `json:"director"`
	Cast        string `json:"cast"`
}

// showtimeResp is the public showtime representation.
type showtimeResp struct {
	ID        uint64    `json:"id"`
	MovieID   uint64    `json:"movie_id"`
	TheaterID uint64    `json:"theater_id"`
	ShowTime  time.Time `json:"show_time"`
}

// GetMovies handles GET /v1/movies and returns the whole catalog.
func (h *CatalogHandler) GetMovies(c echo.Context) error {
	movies, err := h.Movies.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]movieResp, 0, len(movies))
	for _, m := range movies {
		out = append(out, movieResp{
			ID: m.ID, Title: m.Title, Genre: m.Genre, Duration: m.Duration, Rating: m.Rating,
			Image: m.Image, Description: m.Description, Director: m.Director, Cast: m.Cast,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetMovie handles GET /v1/movies/:id.
func (h *CatalogHandler) GetMovie(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	m, err := h.Movies.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": movieResp{
		ID: m.ID, Title: m.Title, Genre: m.Genre, Duration: m.Duration, Rating: m.Rating,
		Image: m.Image, Description: m.Description, Director: m.Director, Cast: m.Cast,
	}})
}

// GetMovieShowtimes handles GET /v1/movies/:id/showtimes and lists
// upcoming showtimes for a movie.
func (h *CatalogHandler) GetMovieShowtimes(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Movies.GetByID(ctx, id); err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	showtimes, err := h.Showtimes.ListByMovie(ctx, id, time.Now().UTC())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]showtimeResp, 0, len(showtimes))
	for _, st := range showtimes {
		out = append(out, showtimeResp{ID: st.ID, MovieID: st.MovieID, TheaterID: st.TheaterID, ShowTime: st.ShowTime})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetTheaters handles GET /v1/theaters.
func (h *CatalogHandler) GetTheaters(c echo.Context) error {
	theaters, err := h.Theaters.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": theaters})
}

// GetShowtime handles GET /v1/showtimes/:id and returns the showtime
// with its movie and theater facts for the booking page header.
func (h *CatalogHandler) GetShowtime(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	ctx := c.Request().Context()
	st, err := h.Showtimes.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrShowtimeNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	resp := echo.Map{"item": showtimeResp{ID: st.ID, MovieID: st.MovieID, TheaterID: st.TheaterID, ShowTime: st.ShowTime}}
	if m, err := h.Movies.GetByID(ctx, st.MovieID); err == nil {
		resp["movie"] = movieResp{ID: m.ID, Title: m.Title, Genre: m.Genre, Duration: m.Duration, Rating: m.Rating, Image: m.Image}
	}
	if t, err := h.Theaters.GetByID(ctx, st.TheaterID); err == nil {
		resp["theater"] = t
	}
	return c.JSON(http.StatusOK, resp)
}

// GetShowtimeSeats handles GET /v1/showtimes/:id/seats and returns the
// seat grid ordered by row then number. Clients re-fetch this after a
// seat conflict to highlight newly unavailable seats.
func (h *CatalogHandler) GetShowtimeSeats(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	seats, err := h.Seats.ListByShowtime(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrNoSeats {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no seats for this showtime"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": seats})
}
