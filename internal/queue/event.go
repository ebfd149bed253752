// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published after a booking transaction
// commits. It carries enough information for downstream consumers to
// log, notify, or feed analytics without querying the primary database.
type BookingConfirmedEvent struct {
	BookingIDs  []uint64 `json:"booking_ids"`
	UserID      uint64   `json:"user_id"`
	ShowtimeID  uint64   `json:"showtime_id"`
	MovieTitle  string   `json:"movie_title"`
	TheaterName string   `json:"theater_name"`
	ShowTime    string   `json:"show_time"`
	SeatIDs     []string `json:"seats"`
	TotalCents  uint32   `json:"total_cents"`
	ConfirmedAt string   `json:"confirmed_at"`
}
