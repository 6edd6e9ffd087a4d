package models

import "encoding/json"

// VendorStatus is the KYC verification state of a vendor.
type VendorStatus string

const (
	VendorPending  VendorStatus = "PENDING"
	VendorVerified VendorStatus = "VERIFIED"
	VendorRejected VendorStatus = "REJECTED"
)

// Valid reports whether s is one of the known vendor states.
func (s VendorStatus) Valid() bool {
	switch s {
	case VendorPending, VendorVerified, VendorRejected:
		return true
	}
	return false
}

// Document is one KYC upload (a type plus the URLs of its pages).
type Document struct {
	Type string   `json:"type" yaml:"type" firestore:"type"`
	URLs []string `json:"urls" yaml:"urls" firestore:"urls"`
}

// Vendor is a travel agency selling trips on the marketplace.
//
// Status is the only stored verification flag. IsVerified is derived and only
// appears on the wire as "isVerified" for clients that still read it.
type Vendor struct {
	ID                string       `json:"id" yaml:"id" firestore:"id"`
	BusinessName      string       `json:"businessName" yaml:"businessName" firestore:"businessName"`
	Email             string       `json:"email" yaml:"email" firestore:"email"`
	Phone             string       `json:"phone,omitempty" yaml:"phone,omitempty" firestore:"phone"`
	Status            VendorStatus `json:"status" yaml:"status" firestore:"status"`
	VerificationNotes string       `json:"verificationNotes,omitempty" yaml:"verificationNotes,omitempty" firestore:"verificationNotes"`
	Revenue           float64      `json:"revenue" yaml:"revenue" firestore:"revenue"`
	JoinedDate        string       `json:"joinedDate,omitempty" yaml:"joinedDate,omitempty" firestore:"joinedDate"`
	Credits           float64      `json:"credits" yaml:"credits" firestore:"credits"`
	Documents         []Document   `json:"documents,omitempty" yaml:"documents,omitempty" firestore:"documents"`
}

// IsVerified reports whether the vendor has passed verification.
func (v Vendor) IsVerified() bool {
	return v.Status == VendorVerified
}

// SetStatus moves the vendor to status. Verification is a toggle: any state may
// move to any other.
func (v *Vendor) SetStatus(status VendorStatus, notes string) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	v.Status = status
	v.VerificationNotes = notes
	return nil
}

// MarshalJSON adds the derived isVerified field.
func (v Vendor) MarshalJSON() ([]byte, error) {
	type vendor Vendor
	return json.Marshal(struct {
		vendor
		IsVerified bool `json:"isVerified"`
	}{vendor(v), v.IsVerified()})
}
