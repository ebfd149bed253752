package handler

// Admin endpoints for managing the catalog. All routes in this file
// sit behind JWT auth plus the ADMIN role guard.

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// AdminHandler bundles repositories for catalog management.
type AdminHandler struct {
	Movies    *repository.MovieRepo
	Theaters  *repository.TheaterRepo
	Showtimes *repository.ShowtimeRepo
	Seats     *repository.SeatRepo
}

func NewAdminHandler(movies *repository.MovieRepo, theaters *repository.TheaterRepo, showtimes *repository.ShowtimeRepo, seats *repository.SeatRepo) *AdminHandler {
	if movies == nil || theaters == nil || showtimes == nil || seats == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{Movies: movies, Theaters: theaters, Showtimes: showtimes, Seats: seats}
}

// CreateMovie handles POST /v1/admin/movies.
func (h *AdminHandler) CreateMovie(c echo.Context) error {
	var body struct {
		Title       string `json:"title"`
		Genre       string `json:"genre"`
		Duration    string `json:"duration"`
		Rating      string `json:"rating"`
		Image       string `json:"image"`
		Description string `json:"description"`
		Director    string `json:"director"`
		Cast        string `json:"cast"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.Title) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	m := model.Movie{
		Title: strings.TrimSpace(body.Title), Genre: body.Genre, Duration: body.Duration,
		Rating: body.Rating, Image: body.Image, Description: body.Description,
		Director: body.Director, Cast: body.Cast,
	}
	if err := h.Movies.Create(c.Request().Context(), &m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create movie failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": m.ID})
}

// CreateTheater handles POST /v1/admin/theaters.
func (h *AdminHandler) CreateTheater(c echo.Context) error {
	var body struct {
		Name     string `json:"name"`
		Location string `json:"location"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	t := model.Theater{Name: strings.TrimSpace(body.Name), Location: body.Location}
	if err := h.Theaters.Create(c.Request().Context(), &t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create theater failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": t.ID})
}

// CreateShowtime handles POST /v1/admin/showtimes. After the showtime
// row is created its fixed seat grid is provisioned immediately, so a
// freshly created showtime is bookable right away.
func (h *AdminHandler) CreateShowtime(c echo.Context) error {
	var body struct {
		MovieID   uint64 `json:"movie_id"`
		TheaterID uint64 `json:"theater_id"`
		ShowTime  string `json:"show_time"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.MovieID == 0 || body.TheaterID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_id and theater_id are required"})
	}
	showAt, err := time.Parse(time.RFC3339, strings.TrimSpace(body.ShowTime))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show_time format"})
	}

	ctx := c.Request().Context()
	if _, err := h.Movies.GetByID(ctx, body.MovieID); err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if _, err := h.Theaters.GetByID(ctx, body.TheaterID); err != nil {
		if err == repository.ErrTheaterNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "theater not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	st := model.Showtime{MovieID: body.MovieID, TheaterID: body.TheaterID, ShowTime: showAt.UTC()}
	if err := h.Showtimes.Create(ctx, &st); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create showtime failed"})
	}
	if err := h.Seats.Provision(ctx, st.ID); err != nil && err != repository.ErrSeatsExist {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "seat provisioning failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": st.ID, "seats": len(repository.GenerateSeatGrid(st.ID))})
}

// ProvisionSeats handles POST /v1/admin/showtimes/:id/seats. It exists
// for showtimes imported without a grid; a second call for an already
// provisioned showtime is rejected with 409 and inserts nothing.
func (h *AdminHandler) ProvisionSeats(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid showtime id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Showtimes.GetByID(ctx, id); err != nil {
		if err == repository.ErrShowtimeNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := h.Seats.Provision(ctx, id); err != nil {
		if err == repository.ErrSeatsExist {
			return c.JSON(http.StatusConflict, echo.Map{"error": "seats already provisioned"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "seat provisioning failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"seats": len(repository.GenerateSeatGrid(id))})
}
