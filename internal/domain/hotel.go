package domain

import (
	"fmt"
	"strings"
)

// MaxHotelImages caps the gallery size on a listing.
const MaxHotelImages = 3

// Amenities recognised by the listing form. Anything else is rejected.
var Amenities = []string{
	"Wifi", "Pool", "Parking", "Air Conditioning", "Restaurant", "Gym", "Spa",
	"Pet Friendly", "Bar", "TV", "Kitchen", "Washer", "Dryer", "Heating",
	"Beach Access", "Fireplace", "Lake View", "Boat Tours", "Desert Safari",
}

type Location struct {
	City    string   `json:"city"`
	Country string   `json:"country"`
	Address string   `json:"address,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
}

// RoomType is a category of room within a hotel. It is embedded in the
// owning Hotel and not independently addressable; bookings reference it
// by ID.
type RoomType struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Beds        int     `json:"beds"`
	MaxGuests   int     `json:"maxGuests"`
	Quantity    int     `json:"quantity"`
	Image       string  `json:"image,omitempty"`
}

type Hotel struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	OwnerEmail string   `json:"ownerEmail"`
	Location   Location `json:"location"`
	Images     []string `json:"images"`
	Rating     float64  `json:"rating"`
	// PricePerNight is the minimum room-type price when room types exist,
	// otherwise an owner-supplied indicative price.
	PricePerNight float64    `json:"pricePerNight"`
	Description   string     `json:"description"`
	Amenities     []string   `json:"amenities"`
	RoomTypes     []RoomType `json:"roomTypes"`
}

// RoomByID returns the embedded room type with the given id.
func (h *Hotel) RoomByID(roomID string) (RoomType, bool) {
	for _, r := range h.RoomTypes {
		if r.ID == roomID {
			return r, true
		}
	}
	return RoomType{}, false
}

// Normalize trims the image gallery and re-derives PricePerNight from the
// cheapest room type. When no room types exist the stored indicative price
// is left alone.
func (h *Hotel) Normalize() {
	if len(h.Images) > MaxHotelImages {
		h.Images = h.Images[:MaxHotelImages]
	}
	if len(h.RoomTypes) == 0 {
		return
	}
	min := h.RoomTypes[0].Price
	for _, r := range h.RoomTypes[1:] {
		if r.Price < min {
			min = r.Price
		}
	}
	h.PricePerNight = min
}

// Validate checks the listing form constraints.
func (h *Hotel) Validate() error {
	if strings.TrimSpace(h.Name) == "" {
		return fmt.Errorf("hotel name is required")
	}
	if strings.TrimSpace(h.Location.City) == "" || strings.TrimSpace(h.Location.Country) == "" {
		return fmt.Errorf("hotel location requires city and country")
	}
	if h.Rating < 0 || h.Rating > 5 {
		return fmt.Errorf("rating must be between 0 and 5")
	}
	for _, a := range h.Amenities {
		if !validAmenity(a) {
			return fmt.Errorf("unknown amenity %q", a)
		}
	}
	for i := range h.RoomTypes {
		if err := h.RoomTypes[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (r *RoomType) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("room type name is required")
	}
	if r.Price <= 0 {
		return fmt.Errorf("room type %q: price must be positive", r.Name)
	}
	if r.Beds < 1 {
		return fmt.Errorf("room type %q: at least one bed required", r.Name)
	}
	if r.MaxGuests < 1 {
		return fmt.Errorf("room type %q: must sleep at least one guest", r.Name)
	}
	if r.Quantity < 0 {
		return fmt.Errorf("room type %q: quantity cannot be negative", r.Name)
	}
	return nil
}

func validAmenity(a string) bool {
	for _, known := range Amenities {
		if strings.EqualFold(known, a) {
			return true
		}
	}
	return false
}

// HotelsQuery narrows ListHotels. Nil members are unconstrained.
type HotelsQuery struct {
	Q         *string
	City      *string
	Country   *string
	Amenity   *string
	MaxPrice  *float64
	MinRating *float64
	Limit     int
}
