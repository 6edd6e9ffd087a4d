// Package fallback holds the static marketplace dataset shown when the API
// has nothing to offer yet.
package fallback

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/jredh-dev/tripmarket/pkg/models"
)

//go:embed dataset.yaml
var embedded []byte

// Dataset is a full set of marketplace collections.
type Dataset struct {
	Vendors   []models.Vendor        `yaml:"vendors"`
	Trips     []models.Trip          `yaml:"trips"`
	Bookings  []models.Booking       `yaml:"bookings"`
	Tickets   []models.SupportTicket `yaml:"tickets"`
	Campaigns []models.Campaign      `yaml:"campaigns"`
	Payouts   []models.Payout        `yaml:"payouts"`
}

var (
	once     sync.Once
	parsed   Dataset
	parseErr error
)

// Default returns a copy of the embedded dataset. It panics if the embedded
// YAML is malformed, which is a build defect.
func Default() Dataset {
	once.Do(func() {
		parsed, parseErr = Parse(embedded)
	})
	if parseErr != nil {
		panic(fmt.Sprintf("fallback: embedded dataset: %v", parseErr))
	}
	return parsed.Clone()
}

// Parse decodes a YAML dataset.
func Parse(data []byte) (Dataset, error) {
	var d Dataset
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Dataset{}, fmt.Errorf("parse dataset: %w", err)
	}
	return d, nil
}

// LoadFile reads a dataset from path.
func LoadFile(path string) (Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("read dataset: %w", err)
	}
	return Parse(data)
}

// Clone copies every collection so the result can be changed freely.
func (d Dataset) Clone() Dataset {
	return Dataset{
		Vendors:   append([]models.Vendor(nil), d.Vendors...),
		Trips:     append([]models.Trip(nil), d.Trips...),
		Bookings:  append([]models.Booking(nil), d.Bookings...),
		Tickets:   append([]models.SupportTicket(nil), d.Tickets...),
		Campaigns: append([]models.Campaign(nil), d.Campaigns...),
		Payouts:   append([]models.Payout(nil), d.Payouts...),
	}
}

// PendingVendors returns the vendors still awaiting verification.
func (d Dataset) PendingVendors() []models.Vendor {
	var out []models.Vendor
	for _, v := range d.Vendors {
		if v.Status == models.VendorPending {
			out = append(out, v)
		}
	}
	return out
}

// PendingTrips returns the trips still awaiting approval.
func (d Dataset) PendingTrips() []models.Trip {
	var out []models.Trip
	for _, t := range d.Trips {
		if t.Status == models.TripPending {
			out = append(out, t)
		}
	}
	return out
}
