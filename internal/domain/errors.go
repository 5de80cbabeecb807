package domain

import "errors"

var (
	ErrRecordNotFound = errors.New("record not found")

	ErrShowtimeNotFound      = errors.New("showtime not found")
	ErrShowtimeAlreadyExists = errors.New("showtime already exists")
	ErrInvalidShowData       = errors.New("showtime has an incomplete show, performance or venue chain")
	ErrSeatNotFound          = errors.New("one or more seats do not exist in this venue")
	ErrSeatAlreadyLocked     = errors.New("one or more seats are held by someone else")
	ErrSeatAlreadyBooked     = errors.New("one or more seats are already booked")
	ErrBookingNotFound       = errors.New("booking not found")
	ErrAccessDenied          = errors.New("you do not have permission to access this booking")
	ErrHoldExpired           = errors.New("your hold has expired, please select your seats again")
	ErrHoldSeatsMismatch     = errors.New("the requested seats do not match the seats of the hold")
	ErrPerformanceNotFound   = errors.New("performance not found in catalog")
	ErrCatalogUnavailable    = errors.New("catalog service is unavailable")
	ErrNoSeatsRequested      = errors.New("at least one seat must be requested")
	ErrTooManySeatsRequested = errors.New("too many seats requested")
	ErrInvalidExternalID     = errors.New("external id must not be empty")
	ErrHolderRequired        = errors.New("lock holder must not be empty")
)

// IsUserRecoverable reports whether err is a condition that should be shown to
// the end user rather than treated as a system fault.
func IsUserRecoverable(err error) bool {
	for _, target := range []error{
		ErrShowtimeNotFound,
		ErrSeatNotFound,
		ErrSeatAlreadyLocked,
		ErrSeatAlreadyBooked,
		ErrBookingNotFound,
		ErrAccessDenied,
		ErrHoldExpired,
		ErrHoldSeatsMismatch,
		ErrPerformanceNotFound,
		ErrNoSeatsRequested,
		ErrTooManySeatsRequested,
		ErrInvalidExternalID,
		ErrHolderRequired,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
