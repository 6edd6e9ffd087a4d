package state

import "errors"

// Domain rejections. These are detected locally before any gateway call.
var (
	ErrVendorNotFound      = errors.New("vendor not found")
	ErrTripNotFound        = errors.New("trip not found")
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrSharingUnavailable  = errors.New("sharing option not offered for this trip")
	ErrDateUnavailable     = errors.New("date not available for this trip")
	ErrInvalidTrip         = errors.New("trip needs a title and destination")
	ErrInvalidBooking      = errors.New("booking needs a customer name and at least one guest")
	ErrInvalidPromotion    = errors.New("promotion budget must be positive")
	ErrUnknownDetailKind   = errors.New("unknown detail kind")
)
