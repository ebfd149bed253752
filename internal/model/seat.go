package model

// Seat status values.  A seat only ever moves from available to
// booked; there is no cancellation flow, so booked is terminal.
const (
	SeatAvailable = "available"
	SeatBooked    = "booked"
)

// Seat describes one bookable unit of a showtime's fixed seating
// grid.  Seats are identified by a string key of the form
// "<showtimeID>-<row><number>" (e.g. "42-A7") and are created in
// bulk when the showtime is created.  Seat status is mutated only
// by the booking transaction, never by application-side
// read-modify-write.
//
// Fields:
//
//	ID         – primary key ("<showtimeID>-<row><number>").
//	ShowtimeID – showtime this seat belongs to.
//	Row        – row letter (A–H).
//	Number     – seat number within the row (1-based).
//	Status     – "available" or "booked".
type Seat struct {
	ID         string `json:"id"`          // seats.id
	ShowtimeID uint64 `json:"showtime_id"` // seats.showtime_id
	Row        string `json:"row"`         // seats.row_label
	Number     uint32 `json:"number"`      // seats.seat_number
	Status     string `json:"status"`      // seats.status
}
