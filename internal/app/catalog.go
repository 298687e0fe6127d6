package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Bekimoon0043/Hotel-connecter/internal/domain"
)

// CatalogService serves the hotel marketplace: browsing for guests,
// listing management for owners, moderation for admins.
type CatalogService struct {
	hotels   domain.HotelRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewCatalogService(r domain.HotelRepository, c domain.Cache, ttl time.Duration) *CatalogService {
	return &CatalogService{hotels: r, cache: c, cacheTTL: ttl}
}

func hotelKey(id string) string { return "hotel:" + id }

func (s *CatalogService) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	key := hotelKey(id)
	var h domain.Hotel
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &h); ok {
			return h, nil
		}
	}
	h, err := s.hotels.GetHotel(ctx, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, h, int(s.cacheTTL.Seconds()))
	}
	return h, nil
}

func (s *CatalogService) ListHotels(ctx context.Context, q domain.HotelsQuery) ([]domain.Hotel, error) {
	if q.Limit <= 0 || q.Limit > 200 {
		q.Limit = 50
	}
	return s.hotels.ListHotels(ctx, q)
}

// UpsertHotel creates or edits a listing. Owners may only touch their own
// hotels; admins may touch anything. New hotels and new room types get
// generated IDs.
func (s *CatalogService) UpsertHotel(ctx context.Context, actor domain.CurrentUser, h domain.Hotel) (domain.Hotel, error) {
	if !actor.Authenticated() {
		return domain.Hotel{}, domain.ErrAuthenticationRequired
	}
	if actor.Role != domain.RoleOwner && actor.Role != domain.RoleAdmin {
		return domain.Hotel{}, domain.ErrAuthorizationDenied
	}

	if h.ID == "" {
		h.ID = uuid.NewString()
		if h.OwnerEmail == "" {
			h.OwnerEmail = actor.Email
		}
	} else {
		existing, err := s.hotels.GetHotel(ctx, h.ID)
		switch err {
		case nil:
			if actor.Role != domain.RoleAdmin && !strings.EqualFold(existing.OwnerEmail, actor.Email) {
				return domain.Hotel{}, domain.ErrAuthorizationDenied
			}
			// Ownership is not transferable through an edit.
			h.OwnerEmail = existing.OwnerEmail
		case domain.ErrNotFound:
			if h.OwnerEmail == "" {
				h.OwnerEmail = actor.Email
			}
		default:
			return domain.Hotel{}, err
		}
	}
	for i := range h.RoomTypes {
		if h.RoomTypes[i].ID == "" {
			h.RoomTypes[i].ID = uuid.NewString()
		}
	}

	h.Normalize()
	if err := h.Validate(); err != nil {
		return domain.Hotel{}, fmt.Errorf("invalid listing: %w", err)
	}
	if err := s.hotels.UpsertHotel(ctx, h); err != nil {
		return domain.Hotel{}, err
	}
	if s.cache != nil {
		_ = s.cache.Del(ctx, hotelKey(h.ID))
	}
	return h, nil
}

// DeleteHotel removes a listing and, by cascade in the repository, every
// booking that references it. Admin only.
func (s *CatalogService) DeleteHotel(ctx context.Context, actor domain.CurrentUser, id string) error {
	if !actor.Authenticated() {
		return domain.ErrAuthenticationRequired
	}
	if actor.Role != domain.RoleAdmin {
		return domain.ErrAuthorizationDenied
	}
	if err := s.hotels.DeleteHotel(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.Del(ctx, hotelKey(id))
	}
	return nil
}

// HotelsForOwner lists the actor's own properties.
func (s *CatalogService) HotelsForOwner(ctx context.Context, actor domain.CurrentUser) ([]domain.Hotel, error) {
	if !actor.Authenticated() {
		return nil, domain.ErrAuthenticationRequired
	}
	all, err := s.hotels.ListHotels(ctx, domain.HotelsQuery{Limit: 200})
	if err != nil {
		return nil, err
	}
	var mine []domain.Hotel
	for _, h := range all {
		if strings.EqualFold(h.OwnerEmail, actor.Email) {
			mine = append(mine, h)
		}
	}
	return mine, nil
}
