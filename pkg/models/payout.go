package models

// PayoutStatus is the settlement state of a vendor payout.
type PayoutStatus string

const (
	PayoutPending   PayoutStatus = "PENDING"
	PayoutProcessed PayoutStatus = "PROCESSED"
	PayoutFailed    PayoutStatus = "FAILED"
)

// Payout is money owed to a vendor for completed bookings.
type Payout struct {
	ID          string       `json:"id" yaml:"id" firestore:"id"`
	VendorID    string       `json:"vendorId" yaml:"vendorId" firestore:"vendorId"`
	Amount      float64      `json:"amount" yaml:"amount" firestore:"amount"`
	Status      PayoutStatus `json:"status" yaml:"status" firestore:"status"`
	RequestedAt string       `json:"requestedAt" yaml:"requestedAt" firestore:"requestedAt"`
}
