package app_test

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/Bekimoon0043/Hotel-connecter/internal/domain"
)

// ---- fakes ----

type fakeHotels struct {
	mu     sync.Mutex
	hotels map[string]domain.Hotel
}

func newFakeHotels(hs ...domain.Hotel) *fakeHotels {
	f := &fakeHotels{hotels: map[string]domain.Hotel{}}
	for _, h := range hs {
		f.hotels[h.ID] = h
	}
	return f
}

func (f *fakeHotels) ListHotels(ctx context.Context, q domain.HotelsQuery) ([]domain.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Hotel
	for _, h := range f.hotels {
		out = append(out, h)
	}
	return out, nil
}

func (f *fakeHotels) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.hotels[id]
	if !ok {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return h, nil
}

func (f *fakeHotels) UpsertHotel(ctx context.Context, h domain.Hotel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hotels[h.ID] = h
	return nil
}

func (f *fakeHotels) DeleteHotel(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.hotels[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.hotels, id)
	return nil
}

// fakeBookings mirrors the MySQL repo's semantics: the availability
// re-check happens inside CreateBooking, duplicate IDs return the stored
// row, and status updates only move pending bookings.
type fakeBookings struct {
	mu       sync.Mutex
	bookings []domain.Booking
}

func (f *fakeBookings) byID(id string) (int, bool) {
	for i := range f.bookings {
		if f.bookings[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

func (f *fakeBookings) GetBooking(ctx context.Context, id string) (domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i, ok := f.byID(id); ok {
		return f.bookings[i], nil
	}
	return domain.Booking{}, domain.ErrNotFound
}

func (f *fakeBookings) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Booking(nil), f.bookings...), nil
}

func (f *fakeBookings) ListBookingsForHotel(ctx context.Context, hotelID string) ([]domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Booking
	for _, b := range f.bookings {
		if b.HotelID == hotelID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookings) ListBookingsForOwner(ctx context.Context, ownerEmail string) ([]domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Booking
	for _, b := range f.bookings {
		if strings.EqualFold(b.HotelOwnerEmail, ownerEmail) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookings) ListBookingsForGuest(ctx context.Context, guestEmail string) ([]domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Booking
	for _, b := range f.bookings {
		if strings.EqualFold(b.GuestEmail, guestEmail) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookings) CreateBooking(ctx context.Context, b domain.Booking, room domain.RoomType) (domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i, ok := f.byID(b.ID); ok {
		return f.bookings[i], nil
	}
	var ledger []domain.Booking
	for _, eb := range f.bookings {
		if eb.HotelID == b.HotelID {
			ledger = append(ledger, eb)
		}
	}
	if domain.AvailableCount(room, b.CheckIn, b.CheckOut, ledger) == 0 {
		return domain.Booking{}, domain.ErrRoomUnavailable
	}
	f.bookings = append(f.bookings, b)
	return b, nil
}

func (f *fakeBookings) UpdateBookingStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i, ok := f.byID(id)
	if !ok {
		return domain.ErrNotFound
	}
	if f.bookings[i].Status != domain.StatusPending {
		return domain.ErrBookingClosed
	}
	f.bookings[i].Status = status
	return nil
}

func (f *fakeBookings) DeleteBooking(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i, ok := f.byID(id)
	if !ok {
		return domain.ErrNotFound
	}
	f.bookings = append(f.bookings[:i], f.bookings[i+1:]...)
	return nil
}

type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
	gets  int
	hits  int
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.store == nil {
		return false, nil
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(v, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

type fakeSessions struct {
	mu    sync.Mutex
	store map[string]domain.CurrentUser
}

func (s *fakeSessions) Put(ctx context.Context, token string, u domain.CurrentUser, ttlSec int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		s.store = map[string]domain.CurrentUser{}
	}
	s.store[token] = u
	return nil
}

func (s *fakeSessions) Get(ctx context.Context, token string) (domain.CurrentUser, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.store[token]
	return u, ok, nil
}

func (s *fakeSessions) Del(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.store, token)
	return nil
}

type fakeUsers struct {
	mu    sync.Mutex
	users map[string]domain.StoredUser
}

func (f *fakeUsers) ListUsers(ctx context.Context) ([]domain.StoredUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.StoredUser
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUsers) GetUserByEmail(ctx context.Context, email string) (domain.StoredUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[strings.ToLower(email)]
	if !ok {
		return domain.StoredUser{}, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) RegisterUser(ctx context.Context, u domain.StoredUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.users == nil {
		f.users = map[string]domain.StoredUser{}
	}
	key := strings.ToLower(u.Email)
	if _, ok := f.users[key]; ok {
		return domain.ErrDuplicateEmail
	}
	f.users[key] = u
	return nil
}

func (f *fakeUsers) DeleteUser(ctx context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := strings.ToLower(email)
	if _, ok := f.users[key]; !ok {
		return domain.ErrNotFound
	}
	delete(f.users, key)
	return nil
}

type fakeGateway struct {
	mu      sync.Mutex
	charges []domain.ChargeRequest
	fail    error
}

func (g *fakeGateway) Charge(ctx context.Context, req domain.ChargeRequest) (domain.Receipt, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail != nil {
		return domain.Receipt{}, g.fail
	}
	g.charges = append(g.charges, req)
	return domain.Receipt{ID: "rcpt-" + req.Reference, Amount: req.Amount, ChargedAt: time.Now().UTC()}, nil
}

// ---- small helpers ----

func ptr[T any](v T) *T { return &v }
