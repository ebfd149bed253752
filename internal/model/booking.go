package model

import "time"

// Payment status labels stored on bookings.  No payment gateway is
// integrated; the booking transaction records completed directly.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// Booking records that a specific seat was purchased by a specific
// user.  A multi-seat purchase produces one row per seat, all
// inserted in the same transaction that flips the seat statuses.
//
// Fields:
//
//	ID            – primary key identifier.
//	UserID        – owner of the booking.
//	SeatID        – the single seat purchased.
//	BookingTime   – when the booking was committed (UTC).
//	PaymentStatus – "pending", "completed" or "failed".
type Booking struct {
	ID            uint64    // bookings.id
	UserID        uint64    // bookings.user_id
	SeatID        string    // bookings.seat_id
	BookingTime   time.Time // bookings.booking_time
	PaymentStatus string    // bookings.payment_status
}

// BookingResult is returned to the client after a successful booking.
// Either every requested seat was booked or none were; partial
// results are never produced.
type BookingResult struct {
	BookingIDs []uint64 `json:"booking_ids"`
	SeatIDs    []string `json:"seat_ids"`
	TotalCents uint32   `json:"total_cents"`
}
