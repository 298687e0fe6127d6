package domain

import "time"

// Nights counts the calendar nights in [checkIn, checkOut), never less
// than one. Used for price previews where a degenerate range still shows
// a one-night estimate.
func Nights(checkIn, checkOut time.Time) int {
	n := int(day(checkOut).Sub(day(checkIn)).Hours() / 24)
	if n < 1 {
		return 1
	}
	return n
}

// QuotePrice is the preview total: nights times the per-night rate.
// Guest count does not multiply the price; the rate covers the room up
// to its MaxGuests.
func QuotePrice(room RoomType, checkIn, checkOut time.Time) float64 {
	return float64(Nights(checkIn, checkOut)) * room.Price
}

// TotalPrice computes the binding price for a booking. Unlike the
// preview, a range that is empty or inverted is rejected rather than
// silently charged as one night.
func TotalPrice(room RoomType, checkIn, checkOut time.Time) (float64, error) {
	if !day(checkOut).After(day(checkIn)) {
		return 0, ErrInvalidDateRange
	}
	return QuotePrice(room, checkIn, checkOut), nil
}
