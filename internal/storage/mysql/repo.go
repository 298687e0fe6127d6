package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Bekimoon0043/Hotel-connecter/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

// decodeJSONList tolerates corrupt persisted JSON: it logs and degrades
// to an empty collection instead of failing the read.
func decodeJSONList[T any](raw []byte, field, id string) []T {
	if len(raw) == 0 {
		return nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		log.Warn().Str("hotel", id).Str("field", field).Err(err).Msg("corrupt stored JSON; treating as empty")
		return nil
	}
	return out
}

func (r *Repo) UpsertHotel(ctx context.Context, h domain.Hotel) error {
	images, _ := json.Marshal(h.Images)
	amenities, _ := json.Marshal(h.Amenities)
	rooms, _ := json.Marshal(h.RoomTypes)
	_, err := r.db.ExecContext(ctx, upsertHotelSQL,
		h.ID,
		h.Name,
		strings.ToLower(h.OwnerEmail),
		h.Location.City,
		h.Location.Country,
		h.Location.Address,
		valF64(h.Location.Lat),
		valF64(h.Location.Lng),
		string(images),
		h.Rating,
		h.PricePerNight,
		h.Description,
		string(amenities),
		string(rooms),
	)
	return err
}

func scanHotel(sc interface{ Scan(...any) error }) (domain.Hotel, error) {
	var h domain.Hotel
	var address sql.NullString
	var lat, lng sql.NullFloat64
	var imagesJSON, amenitiesJSON, roomsJSON []byte

	if err := sc.Scan(
		&h.ID,
		&h.Name,
		&h.OwnerEmail,
		&h.Location.City,
		&h.Location.Country,
		&address,
		&lat, &lng,
		&imagesJSON,
		&h.Rating,
		&h.PricePerNight,
		&h.Description,
		&amenitiesJSON,
		&roomsJSON,
	); err != nil {
		return domain.Hotel{}, err
	}

	if address.Valid {
		h.Location.Address = address.String
	}
	if lat.Valid {
		v := lat.Float64
		h.Location.Lat = &v
	}
	if lng.Valid {
		v := lng.Float64
		h.Location.Lng = &v
	}
	h.Images = decodeJSONList[string](imagesJSON, "images", h.ID)
	h.Amenities = decodeJSONList[string](amenitiesJSON, "amenities", h.ID)
	h.RoomTypes = decodeJSONList[domain.RoomType](roomsJSON, "room_types", h.ID)
	return h, nil
}

func (r *Repo) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	h, err := scanHotel(r.db.QueryRowContext(ctx, getHotelSQL, id))
	if err == sql.ErrNoRows {
		return domain.Hotel{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Hotel{}, err
	}
	return h, nil
}

func (r *Repo) ListHotels(ctx context.Context, q domain.HotelsQuery) ([]domain.Hotel, error) {
	var (
		where []string
		args  []any
	)
	if q.City != nil {
		where = append(where, "LOWER(city) = LOWER(?)")
		args = append(args, *q.City)
	}
	if q.Country != nil {
		where = append(where, "LOWER(country) = LOWER(?)")
		args = append(args, *q.Country)
	}
	if q.Amenity != nil {
		where = append(where, "JSON_CONTAINS(amenities, JSON_QUOTE(?))")
		args = append(args, *q.Amenity)
	}
	if q.MaxPrice != nil {
		where = append(where, "price_per_night <= ?")
		args = append(args, *q.MaxPrice)
	}
	if q.MinRating != nil {
		where = append(where, "rating >= ?")
		args = append(args, *q.MinRating)
	}
	if q.Q != nil {
		like := "%" + *q.Q + "%"
		where = append(where, "(name LIKE ? OR city LIKE ? OR country LIKE ? OR description LIKE ?)")
		args = append(args, like, like, like, like)
	}

	sqlStr := listHotelsPrefix
	if len(where) > 0 {
		sqlStr += " WHERE " + strings.Join(where, " AND ")
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	sqlStr += " ORDER BY name, id LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Hotel
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// DeleteHotel removes the listing and cascades to its bookings in one
// transaction; bookings of other hotels are untouched.
func (r *Repo) DeleteHotel(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, deleteBookingsForHotelSQL, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, deleteHotelSQL, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return tx.Commit()
}
