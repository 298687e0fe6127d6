package domain

import "time"

// day strips the clock, keeping the calendar date in UTC. All interval
// arithmetic below is done on whole days.
func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// stayDays enumerates every calendar day in [checkIn, checkOut). An empty
// or inverted range degrades to a single night starting at checkIn.
func stayDays(checkIn, checkOut time.Time) []time.Time {
	start := day(checkIn)
	end := day(checkOut)
	if !end.After(start) {
		end = start.AddDate(0, 0, 1)
	}
	var days []time.Time
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// occupiesDay reports whether the booking's half-open [checkIn, checkOut)
// interval contains d. A booking ending on d does not occupy d, so
// back-to-back checkout/check-in on the same date never conflicts.
func (b *Booking) occupiesDay(d time.Time) bool {
	return !d.Before(day(b.CheckIn)) && d.Before(day(b.CheckOut))
}

// PeakUsage returns the maximum number of simultaneously held units of
// room roomID on any single day of [checkIn, checkOut). Only bookings
// that still consume inventory count.
func PeakUsage(roomID string, checkIn, checkOut time.Time, bookings []Booking) int {
	peak := 0
	for _, d := range stayDays(checkIn, checkOut) {
		n := 0
		for i := range bookings {
			b := &bookings[i]
			if b.RoomID != roomID || !b.Status.ConsumesInventory() {
				continue
			}
			if b.occupiesDay(d) {
				n++
			}
		}
		if n > peak {
			peak = n
		}
	}
	return peak
}

// AvailableCount computes how many units of room remain bookable across
// the whole of [checkIn, checkOut). A guest needs the same physical unit
// for every night, so the peak daily usage is subtracted, not the sum of
// overlapping bookings. Zero means the room type must be excluded.
func AvailableCount(room RoomType, checkIn, checkOut time.Time, bookings []Booking) int {
	if room.Quantity <= 0 {
		return 0
	}
	if avail := room.Quantity - PeakUsage(room.ID, checkIn, checkOut, bookings); avail > 0 {
		return avail
	}
	return 0
}

// AvailabilityByRoom evaluates AvailableCount for every room type of a
// hotel against the hotel's booking ledger.
func AvailabilityByRoom(h Hotel, checkIn, checkOut time.Time, bookings []Booking) map[string]int {
	out := make(map[string]int, len(h.RoomTypes))
	for _, r := range h.RoomTypes {
		out[r.ID] = AvailableCount(r, checkIn, checkOut, bookings)
	}
	return out
}
