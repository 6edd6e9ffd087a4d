package models

// BookingStatus is the state of a customer booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// Valid reports whether s is one of the known booking states.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled:
		return true
	}
	return false
}

// CanTransition reports whether a booking may move from s to next.
// Moving to the same status is allowed and changes nothing.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case BookingPending:
		return next == BookingConfirmed || next == BookingCancelled
	case BookingConfirmed:
		return next == BookingCancelled
	}
	return false
}

// Booking is a customer's reservation on a trip.
type Booking struct {
	ID           string        `json:"id" yaml:"id" firestore:"id"`
	TripID       string        `json:"tripId" yaml:"tripId" firestore:"tripId"`
	CustomerName string        `json:"customerName" yaml:"customerName" firestore:"customerName"`
	Date         string        `json:"date" yaml:"date" firestore:"date"`
	Guests       int           `json:"guests" yaml:"guests" firestore:"guests"`
	Sharing      Sharing       `json:"sharing,omitempty" yaml:"sharing,omitempty" firestore:"sharing"`
	TotalPrice   float64       `json:"totalPrice" yaml:"totalPrice" firestore:"totalPrice"`
	Status       BookingStatus `json:"status" yaml:"status" firestore:"status"`
}
