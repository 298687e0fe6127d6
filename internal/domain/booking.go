package domain

import (
	"strings"
	"time"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// Valid reports whether s is one of the three known states.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// ConsumesInventory reports whether a booking in this state holds a
// physical room unit. Cancelled bookings release their unit.
func (s BookingStatus) ConsumesInventory() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Booking records a guest's stay request. HotelName, HotelOwnerEmail and
// RoomName are snapshots taken at booking time; later edits to the hotel
// must not rewrite them.
type Booking struct {
	ID              string        `json:"id"`
	HotelID         string        `json:"hotelId"`
	HotelName       string        `json:"hotelName"`
	HotelOwnerEmail string        `json:"hotelOwnerEmail"`
	RoomID          string        `json:"roomId"`
	RoomName        string        `json:"roomName"`
	CheckIn         time.Time     `json:"checkIn"`
	CheckOut        time.Time     `json:"checkOut"`
	Guests          int           `json:"guests"`
	TotalPrice      float64       `json:"totalPrice"`
	GuestName       string        `json:"bookedByGuestName"`
	GuestEmail      string        `json:"bookedByGuestEmail"`
	GuestPhone      string        `json:"guestPhoneNumber"`
	BookingDate     time.Time     `json:"bookingDate"`
	Status          BookingStatus `json:"status"`
}

// CanTransition reports whether actor may move the booking to the target
// state. Only the hotel's owner or an admin may decide, only out of
// pending, and only into confirmed or cancelled. Confirmed and cancelled
// are terminal for everyone.
func (b *Booking) CanTransition(actor CurrentUser, to BookingStatus) error {
	if actor.Email == "" {
		return ErrAuthenticationRequired
	}
	if actor.Role != RoleAdmin && !strings.EqualFold(actor.Email, b.HotelOwnerEmail) {
		return ErrAuthorizationDenied
	}
	if b.Status != StatusPending {
		return ErrBookingClosed
	}
	if to != StatusConfirmed && to != StatusCancelled {
		return ErrInvalidStatus
	}
	return nil
}

// Transition applies the state change after CanTransition approves it.
func (b *Booking) Transition(actor CurrentUser, to BookingStatus) error {
	if err := b.CanTransition(actor, to); err != nil {
		return err
	}
	b.Status = to
	return nil
}

// ConfirmedRevenue sums total prices of confirmed bookings only; pending
// and cancelled contribute nothing.
func ConfirmedRevenue(bookings []Booking) float64 {
	var sum float64
	for _, b := range bookings {
		if b.Status == StatusConfirmed {
			sum += b.TotalPrice
		}
	}
	return sum
}
