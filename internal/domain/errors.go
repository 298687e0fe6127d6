package domain

import "errors"

// All of these are validation failures terminal for the current user
// action; none trigger retries.
var (
	ErrNotFound               = errors.New("not found")
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrAuthorizationDenied    = errors.New("authorization denied")
	ErrInvalidDateRange       = errors.New("check-out must be after check-in")
	ErrGuestCountExceeded     = errors.New("guest count exceeds room capacity")
	ErrRoomUnavailable        = errors.New("room unavailable for the requested dates")
	ErrDuplicateEmail         = errors.New("email already registered")
	ErrBookingClosed          = errors.New("booking already confirmed or cancelled")
	ErrInvalidStatus          = errors.New("invalid booking status")
	ErrStorageFailure         = errors.New("storage failure")
	ErrPaymentDeclined        = errors.New("payment declined")
)
