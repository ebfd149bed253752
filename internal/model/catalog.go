package model

import "time"

// Movie represents a row in the `movies` table.  Catalog records are
// created by administrators and treated as read-only facts by the
// booking flow.
//
// Fields:
//
//	ID          – primary key identifier.
//	Title       – display title of the movie.
//	Genre       – genre label (e.g. "Action").
//	Duration    – human readable runtime (e.g. "2h 15m").
//	Rating      – certification rating (e.g. "PG-13").
//	Image       – URL of the poster image.
//	Description – synopsis shown on the detail page.
//	Director    – director name.
//	Cast        – comma separated list of lead actors.
type Movie struct {
	ID          uint64 // movies.id
	Title       string // movies.title
	Genre       string // movies.genre
	Duration    string // movies.duration
	Rating      string // movies.rating
	Image       string // movies.image
	Description string // movies.description
	Director    string // movies.director
	Cast        string // movies.cast_list
}

// Theater represents a row in the `theaters` table.  Theaters are
// small enough to be serialized directly, so the struct carries JSON
// tags unlike Movie and Showtime which go through response types.
//
// Fields:
//
//	ID       – primary key identifier.
//	Name     – theater name.
//	Location – street address or city.
type Theater struct {
	ID       uint64 `json:"id"`       // theaters.id
	Name     string `json:"name"`     // theaters.name
	Location string `json:"location"` // theaters.location
}

// Showtime identifies a (movie, theater, start time) triple.  A
// showtime is immutable once created and is referenced by its
// generated seat grid.
//
// Fields:
//
//	ID        – primary key identifier.
//	MovieID   – movie being screened.
//	TheaterID – theater hosting the screening.
//	ShowTime  – start time of the screening (UTC).
type Showtime struct {
	ID        uint64    // showtimes.id
	MovieID   uint64    // showtimes.movie_id
	TheaterID uint64    // showtimes.theater_id
	ShowTime  time.Time // showtimes.show_time
}
