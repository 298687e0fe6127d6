package domain_test

import (
	"testing"

	"github.com/Bekimoon0043/Hotel-connecter/internal/domain"
)

func TestNormalize_DerivesPricePerNight(t *testing.T) {
	h := domain.Hotel{
		Name:          "Seaside Inn",
		PricePerNight: 500, // stale display value
		RoomTypes: []domain.RoomType{
			{ID: "r1", Name: "Double", Price: 120, Beds: 1, MaxGuests: 2, Quantity: 4},
			{ID: "r2", Name: "Suite", Price: 90, Beds: 2, MaxGuests: 4, Quantity: 1},
		},
	}
	h.Normalize()
	if h.PricePerNight != 90 {
		t.Fatalf("want min room price 90, got %.2f", h.PricePerNight)
	}
}

func TestNormalize_KeepsIndicativePriceWithoutRooms(t *testing.T) {
	h := domain.Hotel{Name: "Bare Inn", PricePerNight: 75}
	h.Normalize()
	if h.PricePerNight != 75 {
		t.Fatalf("indicative price must survive, got %.2f", h.PricePerNight)
	}
}

func TestNormalize_CapsImages(t *testing.T) {
	h := domain.Hotel{Images: []string{"a", "b", "c", "d", "e"}}
	h.Normalize()
	if len(h.Images) != domain.MaxHotelImages {
		t.Fatalf("want %d images, got %d", domain.MaxHotelImages, len(h.Images))
	}
}

func TestValidate(t *testing.T) {
	base := func() domain.Hotel {
		return domain.Hotel{
			Name:     "Lakeview Lodge",
			Location: domain.Location{City: "Annecy", Country: "France"},
			Rating:   4.5,
			Amenities: []string{
				"Wifi", "Lake View",
			},
			RoomTypes: []domain.RoomType{
				{ID: "r1", Name: "Twin", Price: 110, Beds: 2, MaxGuests: 2, Quantity: 3},
			},
		}
	}

	if err := ptrHotel(base()).Validate(); err != nil {
		t.Fatalf("valid hotel rejected: %v", err)
	}

	bad := base()
	bad.Name = " "
	if err := ptrHotel(bad).Validate(); err == nil {
		t.Fatal("blank name accepted")
	}

	bad = base()
	bad.Rating = 5.5
	if err := ptrHotel(bad).Validate(); err == nil {
		t.Fatal("rating above 5 accepted")
	}

	bad = base()
	bad.Amenities = []string{"Helipad"}
	if err := ptrHotel(bad).Validate(); err == nil {
		t.Fatal("unknown amenity accepted")
	}

	bad = base()
	bad.RoomTypes[0].Price = 0
	if err := ptrHotel(bad).Validate(); err == nil {
		t.Fatal("zero room price accepted")
	}
}

func ptrHotel(h domain.Hotel) *domain.Hotel { return &h }
