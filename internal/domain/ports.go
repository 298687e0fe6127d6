package domain

import (
	"context"
	"time"
)

type HotelRepository interface {
	ListHotels(ctx context.Context, q HotelsQuery) ([]Hotel, error)
	GetHotel(ctx context.Context, id string) (Hotel, error)
	UpsertHotel(ctx context.Context, h Hotel) error
	// DeleteHotel cascades: every booking referencing the hotel goes too.
	DeleteHotel(ctx context.Context, id string) error
}

type BookingRepository interface {
	GetBooking(ctx context.Context, id string) (Booking, error)
	ListBookings(ctx context.Context) ([]Booking, error)
	ListBookingsForHotel(ctx context.Context, hotelID string) ([]Booking, error)
	ListBookingsForOwner(ctx context.Context, ownerEmail string) ([]Booking, error)
	ListBookingsForGuest(ctx context.Context, guestEmail string) ([]Booking, error)
	// CreateBooking re-checks availability of room against the hotel's
	// ledger and inserts atomically, so a racing booking cannot
	// invalidate the count between check and write. Re-submitting an
	// existing booking ID returns the stored row unchanged.
	CreateBooking(ctx context.Context, b Booking, room RoomType) (Booking, error)
	// UpdateBookingStatus persists a transition out of pending. The
	// pending precondition is enforced in the write itself; a lost race
	// surfaces as ErrBookingClosed.
	UpdateBookingStatus(ctx context.Context, id string, status BookingStatus) error
	DeleteBooking(ctx context.Context, id string) error
}

type UserRepository interface {
	ListUsers(ctx context.Context) ([]StoredUser, error)
	GetUserByEmail(ctx context.Context, email string) (StoredUser, error)
	RegisterUser(ctx context.Context, u StoredUser) error
	DeleteUser(ctx context.Context, email string) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// SessionStore keeps signed-in sessions keyed by opaque token.
type SessionStore interface {
	Put(ctx context.Context, token string, u CurrentUser, ttlSec int) error
	Get(ctx context.Context, token string) (CurrentUser, bool, error)
	Del(ctx context.Context, token string) error
}

type ChargeRequest struct {
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Method    string  `json:"method"`
	Reference string  `json:"reference"`
}

type Receipt struct {
	ID        string    `json:"id"`
	Amount    float64   `json:"amount"`
	ChargedAt time.Time `json:"chargedAt"`
}

// PaymentGateway fronts the external payment processor. A booking must
// not be confirmed unless the charge succeeds.
type PaymentGateway interface {
	Charge(ctx context.Context, req ChargeRequest) (Receipt, error)
}
