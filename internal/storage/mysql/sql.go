package mysql

const upsertHotelSQL = `
INSERT INTO hotels
  (id, name, owner_email, city, country, address, lat, lng, images, rating,
   price_per_night, description, amenities, room_types)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name            = VALUES(name),
  owner_email     = VALUES(owner_email),
  city            = VALUES(city),
  country         = VALUES(country),
  address         = VALUES(address),
  lat             = VALUES(lat),
  lng             = VALUES(lng),
  images          = VALUES(images),
  rating          = VALUES(rating),
  price_per_night = VALUES(price_per_night),
  description     = VALUES(description),
  amenities       = VALUES(amenities),
  room_types      = VALUES(room_types),
  updated_at      = CURRENT_TIMESTAMP
`

const getHotelSQL = `
SELECT
  id, name, owner_email, city, country, address, lat, lng, images, rating,
  price_per_night, description, amenities, room_types
FROM hotels
WHERE id = ?
`

const listHotelsPrefix = `
SELECT
  id, name, owner_email, city, country, address, lat, lng, images, rating,
  price_per_night, description, amenities, room_types
FROM hotels
`

// Booking writes happen inside the create transaction; the hotel row is
// locked first so a racing create on the same hotel waits behind us.
const lockHotelSQL = `SELECT id FROM hotels WHERE id = ? FOR UPDATE`

const insertBookingSQL = `
INSERT INTO bookings
  (id, hotel_id, hotel_name, hotel_owner_email, room_id, room_name,
   check_in, check_out, guests, total_price, guest_name, guest_email,
   guest_phone, booking_date, status)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const selectBookingCols = `
  id, hotel_id, hotel_name, hotel_owner_email, room_id, room_name,
  check_in, check_out, guests, total_price, guest_name, guest_email,
  guest_phone, booking_date, status
`

const getBookingSQL = `SELECT` + selectBookingCols + `FROM bookings WHERE id = ?`

const listBookingsSQL = `SELECT` + selectBookingCols + `FROM bookings ORDER BY booking_date DESC, id DESC`

const listBookingsForHotelSQL = `SELECT` + selectBookingCols + `FROM bookings WHERE hotel_id = ? ORDER BY booking_date DESC, id DESC`

const listBookingsForOwnerSQL = `SELECT` + selectBookingCols + `FROM bookings WHERE LOWER(hotel_owner_email) = LOWER(?) ORDER BY booking_date DESC, id DESC`

const listBookingsForGuestSQL = `SELECT` + selectBookingCols + `FROM bookings WHERE LOWER(guest_email) = LOWER(?) ORDER BY booking_date DESC, id DESC`

// Active bookings of one room type, read under the hotel row lock when
// re-checking availability.
const activeRoomBookingsSQL = `SELECT` + selectBookingCols + `
FROM bookings
WHERE hotel_id = ? AND room_id = ? AND status IN ('pending', 'confirmed')
`

// The pending precondition lives in the WHERE clause so a lost race
// cannot reopen a closed booking.
const updateBookingStatusSQL = `UPDATE bookings SET status = ? WHERE id = ? AND status = 'pending'`

const bookingStatusSQL = `SELECT status FROM bookings WHERE id = ?`

const deleteBookingSQL = `DELETE FROM bookings WHERE id = ?`

const deleteBookingsForHotelSQL = `DELETE FROM bookings WHERE hotel_id = ?`

const deleteHotelSQL = `DELETE FROM hotels WHERE id = ?`

const insertUserSQL = `
INSERT INTO users (id, full_name, email, password_hash, role)
VALUES (?, ?, ?, ?, ?)
`

const getUserByEmailSQL = `
SELECT id, full_name, email, password_hash, role
FROM users
WHERE LOWER(email) = LOWER(?)
`

const listUsersSQL = `
SELECT id, full_name, email, password_hash, role
FROM users
ORDER BY email
`

const deleteUserSQL = `DELETE FROM users WHERE LOWER(email) = LOWER(?)`
