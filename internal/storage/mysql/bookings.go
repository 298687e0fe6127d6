package mysql

import (
	"context"
	"database/sql"

	"github.com/Bekimoon0043/Hotel-connecter/internal/domain"
)

func scanBooking(sc interface{ Scan(...any) error }) (domain.Booking, error) {
	var b domain.Booking
	var status string
	if err := sc.Scan(
		&b.ID,
		&b.HotelID,
		&b.HotelName,
		&b.HotelOwnerEmail,
		&b.RoomID,
		&b.RoomName,
		&b.CheckIn,
		&b.CheckOut,
		&b.Guests,
		&b.TotalPrice,
		&b.GuestName,
		&b.GuestEmail,
		&b.GuestPhone,
		&b.BookingDate,
		&status,
	); err != nil {
		return domain.Booking{}, err
	}
	b.Status = domain.BookingStatus(status)
	return b, nil
}

func (r *Repo) GetBooking(ctx context.Context, id string) (domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, getBookingSQL, id))
	if err == sql.ErrNoRows {
		return domain.Booking{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Booking{}, err
	}
	return b, nil
}

func (r *Repo) listBookings(ctx context.Context, query string, args ...any) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repo) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	return r.listBookings(ctx, listBookingsSQL)
}

func (r *Repo) ListBookingsForHotel(ctx context.Context, hotelID string) ([]domain.Booking, error) {
	return r.listBookings(ctx, listBookingsForHotelSQL, hotelID)
}

func (r *Repo) ListBookingsForOwner(ctx context.Context, ownerEmail string) ([]domain.Booking, error) {
	return r.listBookings(ctx, listBookingsForOwnerSQL, ownerEmail)
}

func (r *Repo) ListBookingsForGuest(ctx context.Context, guestEmail string) ([]domain.Booking, error) {
	return r.listBookings(ctx, listBookingsForGuestSQL, guestEmail)
}

// CreateBooking makes the check-then-act atomic: the hotel row is locked
// for the duration of the transaction, the room's active bookings are
// re-read under that lock, and the insert happens only if a unit is
// still free. A concurrent create on the same hotel blocks on the row
// lock and sees this booking when its turn comes.
//
// Re-submitting an ID that already exists returns the stored booking
// unchanged, so client retries cannot double-book.
func (r *Repo) CreateBooking(ctx context.Context, b domain.Booking, room domain.RoomType) (domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Booking{}, err
	}
	defer func() { _ = tx.Rollback() }()

	existing, err := scanBooking(tx.QueryRowContext(ctx, getBookingSQL, b.ID))
	if err == nil {
		return existing, tx.Commit()
	}
	if err != sql.ErrNoRows {
		return domain.Booking{}, err
	}

	var hotelID string
	if err := tx.QueryRowContext(ctx, lockHotelSQL, b.HotelID).Scan(&hotelID); err != nil {
		if err == sql.ErrNoRows {
			return domain.Booking{}, domain.ErrNotFound
		}
		return domain.Booking{}, err
	}

	rows, err := tx.QueryContext(ctx, activeRoomBookingsSQL, b.HotelID, b.RoomID)
	if err != nil {
		return domain.Booking{}, err
	}
	var ledger []domain.Booking
	for rows.Next() {
		ab, err := scanBooking(rows)
		if err != nil {
			rows.Close()
			return domain.Booking{}, err
		}
		ledger = append(ledger, ab)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return domain.Booking{}, err
	}
	rows.Close()

	if domain.AvailableCount(room, b.CheckIn, b.CheckOut, ledger) == 0 {
		return domain.Booking{}, domain.ErrRoomUnavailable
	}

	if _, err := tx.ExecContext(ctx, insertBookingSQL,
		b.ID,
		b.HotelID,
		b.HotelName,
		b.HotelOwnerEmail,
		b.RoomID,
		b.RoomName,
		b.CheckIn,
		b.CheckOut,
		b.Guests,
		b.TotalPrice,
		b.GuestName,
		b.GuestEmail,
		b.GuestPhone,
		b.BookingDate,
		string(b.Status),
	); err != nil {
		return domain.Booking{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Booking{}, err
	}
	return b, nil
}

func (r *Repo) UpdateBookingStatus(ctx context.Context, id string, status domain.BookingStatus) error {
	res, err := r.db.ExecContext(ctx, updateBookingStatusSQL, string(status), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	// Nothing updated: either the booking is gone or it already left pending.
	var current string
	err = r.db.QueryRowContext(ctx, bookingStatusSQL, id).Scan(&current)
	if err == sql.ErrNoRows {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	return domain.ErrBookingClosed
}

func (r *Repo) DeleteBooking(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteBookingSQL, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
