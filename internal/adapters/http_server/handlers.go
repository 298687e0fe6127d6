package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/Bekimoon0043/Hotel-connecter/internal/app"
	"github.com/Bekimoon0043/Hotel-connecter/internal/domain"
)

type Handlers struct {
	Catalog  *app.CatalogService
	Bookings *app.BookingService
	Accounts *app.AccountService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Use(Session(h.Accounts))

	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Post("/v1/auth/register", h.register)
	s.mux.Post("/v1/auth/signin", h.signin)
	s.mux.Post("/v1/auth/signout", h.signout)

	s.mux.Get("/v1/hotels", h.listHotels)
	s.mux.Post("/v1/hotels", h.upsertHotel)
	s.mux.Get("/v1/hotels/{id}", h.getHotel)
	s.mux.Put("/v1/hotels/{id}", h.upsertHotel)
	s.mux.Delete("/v1/hotels/{id}", h.deleteHotel)
	s.mux.Get("/v1/hotels/{id}/quote", h.quote)
	s.mux.Get("/v1/hotels/{id}/bookings", h.hotelBookings)

	s.mux.Post("/v1/bookings", h.createBooking)
	s.mux.Get("/v1/bookings", h.myBookings)
	s.mux.Patch("/v1/bookings/{id}/status", h.updateBookingStatus)
	s.mux.Delete("/v1/bookings/{id}", h.deleteBooking)

	s.mux.Get("/v1/owner/dashboard", h.dashboard)
	s.mux.Get("/v1/admin/bookings", h.allBookings)
	s.mux.Get("/v1/admin/users", h.listUsers)
	s.mux.Delete("/v1/admin/users/{email}", h.deleteUser)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeErr maps the domain error taxonomy onto HTTP statuses.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrAuthenticationRequired):
		writeProblem(w, http.StatusUnauthorized, "Authentication Required", err.Error())
	case errors.Is(err, domain.ErrAuthorizationDenied):
		writeProblem(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrDuplicateEmail):
		writeProblem(w, http.StatusConflict, "Duplicate Email", err.Error())
	case errors.Is(err, domain.ErrRoomUnavailable), errors.Is(err, domain.ErrBookingClosed):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, domain.ErrInvalidDateRange), errors.Is(err, domain.ErrGuestCountExceeded), errors.Is(err, domain.ErrInvalidStatus):
		writeProblem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
	case errors.Is(err, domain.ErrPaymentDeclined):
		writeProblem(w, http.StatusPaymentRequired, "Payment Declined", err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "the operation could not be completed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// parseDate accepts plain calendar dates and full timestamps.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// ---- auth ----

type registerRequest struct {
	FullName string      `json:"fullName"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	u, err := h.Accounts.Register(r.Context(), req.FullName, req.Email, req.Password, req.Role)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signinResponse struct {
	Token string             `json:"token"`
	User  domain.CurrentUser `json:"user"`
}

func (h *Handlers) signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	cu, token, err := h.Accounts.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		// Do not leak whether the address exists.
		writeProblem(w, http.StatusUnauthorized, "Sign-in Failed", "invalid email or password")
		return
	}
	writeJSON(w, http.StatusOK, signinResponse{Token: token, User: cu})
}

func (h *Handlers) signout(w http.ResponseWriter, r *http.Request) {
	if err := h.Accounts.SignOut(r.Context(), bearerToken(r)); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- hotels ----

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	q := domain.HotelsQuery{}
	qs := r.URL.Query()
	if v := qs.Get("q"); v != "" {
		q.Q = &v
	}
	if v := qs.Get("city"); v != "" {
		q.City = &v
	}
	if v := qs.Get("country"); v != "" {
		q.Country = &v
	}
	if v := qs.Get("amenity"); v != "" {
		q.Amenity = &v
	}
	if v := qs.Get("maxPrice"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil || p < 0 {
			writeProblem(w, http.StatusBadRequest, "Invalid maxPrice", "maxPrice must be a non-negative number")
			return
		}
		q.MaxPrice = &p
	}
	if v := qs.Get("minRating"); v != "" {
		rt, err := strconv.ParseFloat(v, 64)
		if err != nil || rt < 0 || rt > 5 {
			writeProblem(w, http.StatusBadRequest, "Invalid minRating", "minRating must be between 0 and 5")
			return
		}
		q.MinRating = &rt
	}
	if v := qs.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 200 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 200")
			return
		}
		q.Limit = n
	}

	hotels, err := h.Catalog.ListHotels(r.Context(), q)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hotels)
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	hotel, err := h.Catalog.GetHotel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}

	etag, body := calcETagAndBody(hotel)
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write getHotel body")
	}
}

func (h *Handlers) upsertHotel(w http.ResponseWriter, r *http.Request) {
	var hotel domain.Hotel
	if err := json.NewDecoder(r.Body).Decode(&hotel); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	if id := chi.URLParam(r, "id"); id != "" {
		hotel.ID = id
	}
	saved, err := h.Catalog.UpsertHotel(r.Context(), CurrentUser(r), hotel)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *Handlers) deleteHotel(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.DeleteHotel(r.Context(), CurrentUser(r), chi.URLParam(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) quote(w http.ResponseWriter, r *http.Request) {
	in, err := parseDate(r.URL.Query().Get("checkIn"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid checkIn", "checkIn must be YYYY-MM-DD or RFC3339")
		return
	}
	out, err := parseDate(r.URL.Query().Get("checkOut"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid checkOut", "checkOut must be YYYY-MM-DD or RFC3339")
		return
	}
	quotes, err := h.Bookings.Quote(r.Context(), chi.URLParam(r, "id"), in, out)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quotes)
}

func (h *Handlers) hotelBookings(w http.ResponseWriter, r *http.Request) {
	bs, err := h.Bookings.BookingsForHotel(r.Context(), CurrentUser(r), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bs)
}

// ---- bookings ----

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	var req app.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	b, err := h.Bookings.CreateBooking(r.Context(), CurrentUser(r), req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *Handlers) myBookings(w http.ResponseWriter, r *http.Request) {
	bs, err := h.Bookings.BookingsForGuest(r.Context(), CurrentUser(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bs)
}

type statusRequest struct {
	Status        domain.BookingStatus `json:"status"`
	PaymentMethod string               `json:"paymentMethod,omitempty"`
}

func (h *Handlers) updateBookingStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	b, err := h.Bookings.UpdateStatus(r.Context(), CurrentUser(r), chi.URLParam(r, "id"), req.Status, req.PaymentMethod)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handlers) deleteBooking(w http.ResponseWriter, r *http.Request) {
	if err := h.Bookings.DeleteBooking(r.Context(), CurrentUser(r), chi.URLParam(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.Bookings.Dashboard(r.Context(), CurrentUser(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *Handlers) allBookings(w http.ResponseWriter, r *http.Request) {
	bs, err := h.Bookings.AllBookings(r.Context(), CurrentUser(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bs)
}

// ---- users ----

func (h *Handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	us, err := h.Accounts.ListUsers(r.Context(), CurrentUser(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, us)
}

func (h *Handlers) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.Accounts.DeleteUser(r.Context(), CurrentUser(r), chi.URLParam(r, "email")); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
