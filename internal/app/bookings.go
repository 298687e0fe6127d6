package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Bekimoon0043/Hotel-connecter/internal/adapters/observability"
	"github.com/Bekimoon0043/Hotel-connecter/internal/domain"
)

// BookingService runs the reservation flow: quotes, creation with the
// atomic availability check, owner/admin status transitions and the
// dashboard aggregates.
type BookingService struct {
	hotels   domain.HotelRepository
	bookings domain.BookingRepository
	payments domain.PaymentGateway // nil disables the payment step
	now      func() time.Time
}

func NewBookingService(h domain.HotelRepository, b domain.BookingRepository, p domain.PaymentGateway) *BookingService {
	return &BookingService{hotels: h, bookings: b, payments: p, now: time.Now}
}

// WithClock overrides the creation timestamp source. Test hook.
func (s *BookingService) WithClock(now func() time.Time) *BookingService {
	s.now = now
	return s
}

type BookingRequest struct {
	ID         string    `json:"id,omitempty"` // optional client token for idempotent retries
	HotelID    string    `json:"hotelId"`
	RoomID     string    `json:"roomId"`
	CheckIn    time.Time `json:"checkIn"`
	CheckOut   time.Time `json:"checkOut"`
	Guests     int       `json:"guests"`
	GuestName  string    `json:"bookedByGuestName"`
	GuestPhone string    `json:"guestPhoneNumber"`
}

type RoomQuote struct {
	RoomID     string  `json:"roomId"`
	RoomName   string  `json:"roomName"`
	Nights     int     `json:"nights"`
	TotalPrice float64 `json:"totalPrice"`
	Available  int     `json:"available"`
}

// Quote prices every room type of a hotel for a candidate stay and
// reports how many units remain. Degenerate ranges price as one night;
// only the booking action itself rejects them.
func (s *BookingService) Quote(ctx context.Context, hotelID string, checkIn, checkOut time.Time) ([]RoomQuote, error) {
	h, err := s.hotels.GetHotel(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	ledger, err := s.bookings.ListBookingsForHotel(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	avail := domain.AvailabilityByRoom(h, checkIn, checkOut, ledger)
	quotes := make([]RoomQuote, 0, len(h.RoomTypes))
	for _, r := range h.RoomTypes {
		quotes = append(quotes, RoomQuote{
			RoomID:     r.ID,
			RoomName:   r.Name,
			Nights:     domain.Nights(checkIn, checkOut),
			TotalPrice: domain.QuotePrice(r, checkIn, checkOut),
			Available:  avail[r.ID],
		})
	}
	return quotes, nil
}

// CreateBooking validates the request, prices the stay and inserts the
// booking through the repository's check-then-act transaction. The
// booking always starts pending; payment happens at confirmation.
func (s *BookingService) CreateBooking(ctx context.Context, actor domain.CurrentUser, req BookingRequest) (domain.Booking, error) {
	if !actor.Authenticated() {
		return domain.Booking{}, domain.ErrAuthenticationRequired
	}
	// Owners and admins moderate bookings; they do not place them.
	if actor.Role != domain.RoleBooker {
		observability.ObserveBookingRejected("role")
		return domain.Booking{}, domain.ErrAuthorizationDenied
	}

	h, err := s.hotels.GetHotel(ctx, req.HotelID)
	if err != nil {
		return domain.Booking{}, err
	}
	room, ok := h.RoomByID(req.RoomID)
	if !ok {
		return domain.Booking{}, fmt.Errorf("room %s: %w", req.RoomID, domain.ErrNotFound)
	}

	total, err := domain.TotalPrice(room, req.CheckIn, req.CheckOut)
	if err != nil {
		observability.ObserveBookingRejected("date_range")
		return domain.Booking{}, err
	}
	if req.Guests < 1 || req.Guests > room.MaxGuests {
		observability.ObserveBookingRejected("guest_count")
		return domain.Booking{}, domain.ErrGuestCountExceeded
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	b := domain.Booking{
		ID:              id,
		HotelID:         h.ID,
		HotelName:       h.Name,
		HotelOwnerEmail: h.OwnerEmail,
		RoomID:          room.ID,
		RoomName:        room.Name,
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		Guests:          req.Guests,
		TotalPrice:      total,
		GuestName:       req.GuestName,
		GuestEmail:      actor.Email,
		GuestPhone:      req.GuestPhone,
		BookingDate:     s.now().UTC(),
		Status:          domain.StatusPending,
	}

	created, err := s.bookings.CreateBooking(ctx, b, room)
	if err != nil {
		if err == domain.ErrRoomUnavailable {
			observability.ObserveBookingRejected("unavailable")
		}
		return domain.Booking{}, err
	}
	observability.ObserveBookingCreated()
	log.Info().Str("booking", created.ID).Str("hotel", h.ID).Str("room", room.ID).Msg("booking created")
	return created, nil
}

// UpdateStatus moves a pending booking to confirmed or cancelled on
// behalf of the hotel's owner or an admin. Confirmation charges the
// guest first when a payment gateway is wired; a declined charge leaves
// the booking pending.
func (s *BookingService) UpdateStatus(ctx context.Context, actor domain.CurrentUser, bookingID string, to domain.BookingStatus, method string) (domain.Booking, error) {
	b, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	if err := b.CanTransition(actor, to); err != nil {
		return domain.Booking{}, err
	}

	if to == domain.StatusConfirmed && s.payments != nil {
		receipt, err := s.payments.Charge(ctx, domain.ChargeRequest{
			Amount:    b.TotalPrice,
			Currency:  "USD",
			Method:    method,
			Reference: b.ID,
		})
		if err != nil {
			log.Warn().Str("booking", b.ID).Err(err).Msg("charge failed; booking stays pending")
			return domain.Booking{}, fmt.Errorf("%w: %v", domain.ErrPaymentDeclined, err)
		}
		log.Info().Str("booking", b.ID).Str("receipt", receipt.ID).Float64("amount", receipt.Amount).Msg("charge ok")
	}

	if err := s.bookings.UpdateBookingStatus(ctx, b.ID, to); err != nil {
		return domain.Booking{}, err
	}
	b.Status = to
	return b, nil
}

// BookingsForHotel is restricted to the hotel's owner and admins.
func (s *BookingService) BookingsForHotel(ctx context.Context, actor domain.CurrentUser, hotelID string) ([]domain.Booking, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrAuthenticationRequired
	}
	h, err := s.hotels.GetHotel(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleAdmin && !strings.EqualFold(h.OwnerEmail, actor.Email) {
		return nil, domain.ErrAuthorizationDenied
	}
	return s.bookings.ListBookingsForHotel(ctx, hotelID)
}

// BookingsForGuest returns the actor's own bookings, newest first.
func (s *BookingService) BookingsForGuest(ctx context.Context, actor domain.CurrentUser) ([]domain.Booking, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrAuthenticationRequired
	}
	out, err := s.bookings.ListBookingsForGuest(ctx, actor.Email)
	if err != nil {
		return nil, err
	}
	sortByBookingDateDesc(out)
	return out, nil
}

// AllBookings is the admin moderation view.
func (s *BookingService) AllBookings(ctx context.Context, actor domain.CurrentUser) ([]domain.Booking, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrAuthenticationRequired
	}
	if actor.Role != domain.RoleAdmin {
		return nil, domain.ErrAuthorizationDenied
	}
	return s.bookings.ListBookings(ctx)
}

// DeleteBooking is an explicit admin action; guests never delete.
func (s *BookingService) DeleteBooking(ctx context.Context, actor domain.CurrentUser, id string) error {
	if !actor.Authenticated() {
		return domain.ErrAuthenticationRequired
	}
	if actor.Role != domain.RoleAdmin {
		return domain.ErrAuthorizationDenied
	}
	return s.bookings.DeleteBooking(ctx, id)
}

// OwnerDashboard summarises an owner's bookings and realized revenue.
// Only confirmed bookings count toward revenue.
type OwnerDashboard struct {
	Bookings         []domain.Booking `json:"bookings"`
	TotalBookings    int              `json:"totalBookings"`
	ConfirmedRevenue float64          `json:"confirmedRevenue"`
}

func (s *BookingService) Dashboard(ctx context.Context, actor domain.CurrentUser) (OwnerDashboard, error) {
	if !actor.Authenticated() {
		return OwnerDashboard{}, domain.ErrAuthenticationRequired
	}
	if actor.Role != domain.RoleOwner && actor.Role != domain.RoleAdmin {
		return OwnerDashboard{}, domain.ErrAuthorizationDenied
	}
	bs, err := s.bookings.ListBookingsForOwner(ctx, actor.Email)
	if err != nil {
		return OwnerDashboard{}, err
	}
	sortByBookingDateDesc(bs)
	return OwnerDashboard{
		Bookings:         bs,
		TotalBookings:    len(bs),
		ConfirmedRevenue: domain.ConfirmedRevenue(bs),
	}, nil
}

func sortByBookingDateDesc(bs []domain.Booking) {
	sort.Slice(bs, func(i, j int) bool { return bs[i].BookingDate.After(bs[j].BookingDate) })
}
