package models

// TripStatus is the lifecycle state of a trip listing.
type TripStatus string

const (
	TripPending  TripStatus = "PENDING"
	TripDraft    TripStatus = "DRAFT"
	TripApproved TripStatus = "APPROVED"
	TripRejected TripStatus = "REJECTED"
)

// Valid reports whether s is one of the known trip states.
func (s TripStatus) Valid() bool {
	switch s {
	case TripPending, TripDraft, TripApproved, TripRejected:
		return true
	}
	return false
}

// TripCategory classifies a trip for browsing.
type TripCategory string

const (
	CategoryAdventure  TripCategory = "ADVENTURE"
	CategoryBeach      TripCategory = "BEACH"
	CategoryCultural   TripCategory = "CULTURAL"
	CategoryHoneymoon  TripCategory = "HONEYMOON"
	CategoryPilgrimage TripCategory = "PILGRIMAGE"
	CategoryWeekend    TripCategory = "WEEKEND"
)

// Sharing is the room-sharing tier a price applies to.
type Sharing string

const (
	SharingSingle Sharing = "single"
	SharingDouble Sharing = "double"
	SharingTriple Sharing = "triple"
	SharingQuad   Sharing = "quad"
)

// Pricing holds the per-person price for each sharing tier. A nil tier is not offered.
type Pricing struct {
	Single *float64 `json:"single,omitempty" yaml:"single,omitempty" firestore:"single,omitempty"`
	Double *float64 `json:"double,omitempty" yaml:"double,omitempty" firestore:"double,omitempty"`
	Triple *float64 `json:"triple,omitempty" yaml:"triple,omitempty" firestore:"triple,omitempty"`
	Quad   *float64 `json:"quad,omitempty" yaml:"quad,omitempty" firestore:"quad,omitempty"`
}

// For returns the per-person price for a sharing tier.
func (p Pricing) For(s Sharing) (float64, bool) {
	var v *float64
	switch s {
	case SharingSingle:
		v = p.Single
	case SharingDouble:
		v = p.Double
	case SharingTriple:
		v = p.Triple
	case SharingQuad:
		v = p.Quad
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}

// ItineraryDay is one day of a trip's plan.
type ItineraryDay struct {
	Day        int      `json:"day" yaml:"day" firestore:"day"`
	Title      string   `json:"title" yaml:"title" firestore:"title"`
	Activities []string `json:"activities" yaml:"activities" firestore:"activities"`
}

// Trip is a packaged tour listed by a vendor.
type Trip struct {
	ID              string         `json:"id" yaml:"id" firestore:"id"`
	VendorID        string         `json:"vendorId,omitempty" yaml:"vendorId,omitempty" firestore:"vendorId"`
	Title           string         `json:"title" yaml:"title" firestore:"title"`
	Destination     string         `json:"destination" yaml:"destination" firestore:"destination"`
	Duration        int            `json:"duration" yaml:"duration" firestore:"duration"` // days
	Pricing         Pricing        `json:"pricing" yaml:"pricing" firestore:"pricing"`
	Image           string         `json:"image,omitempty" yaml:"image,omitempty" firestore:"image"`
	Description     string         `json:"description,omitempty" yaml:"description,omitempty" firestore:"description"`
	Category        TripCategory   `json:"type,omitempty" yaml:"type,omitempty" firestore:"type"`
	Rating          float64        `json:"rating" yaml:"rating" firestore:"rating"`
	Reviews         int            `json:"reviews" yaml:"reviews" firestore:"reviews"`
	Itinerary       []ItineraryDay `json:"itinerary,omitempty" yaml:"itinerary,omitempty" firestore:"itinerary"`
	Inclusions      []string       `json:"inclusions,omitempty" yaml:"inclusions,omitempty" firestore:"inclusions"`
	Exclusions      []string       `json:"exclusions,omitempty" yaml:"exclusions,omitempty" firestore:"exclusions"`
	AvailableDates  []string       `json:"availableDates,omitempty" yaml:"availableDates,omitempty" firestore:"availableDates"`
	Status          TripStatus     `json:"status" yaml:"status" firestore:"status"`
	IsPromoted      bool           `json:"isPromoted" yaml:"isPromoted" firestore:"isPromoted"`
	RejectionReason string         `json:"rejectionReason,omitempty" yaml:"rejectionReason,omitempty" firestore:"rejectionReason"`
}

// Approve marks the trip approved. Any earlier rejection reason is cleared.
func (t *Trip) Approve(promoted bool) {
	t.Status = TripApproved
	t.IsPromoted = promoted
	t.RejectionReason = ""
}

// Reject marks the trip rejected and records why.
func (t *Trip) Reject(reason string) {
	t.Status = TripRejected
	t.IsPromoted = false
	t.RejectionReason = reason
}
