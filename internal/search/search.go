// Package search implements the admin console's ad hoc lookup over loaded
// vendors and trips.
package search

import (
	"strings"

	"github.com/jredh-dev/tripmarket/pkg/models"
)

// ResultType names the kind of entity a result points at.
type ResultType string

const (
	TypeVendor ResultType = "VENDOR"
	TypeTrip   ResultType = "TRIP"
	TypePayout ResultType = "PAYOUT"
	TypeUser   ResultType = "USER"
)

// Result is one hit. Results are derived on every query and never stored.
type Result struct {
	ID       string     `json:"id"`
	Type     ResultType `json:"type"`
	Title    string     `json:"title"`
	Subtitle string     `json:"subtitle"`
	Status   string     `json:"status"`
}

// Matcher decides whether any of fields matches q. q is already trimmed and
// lower-cased.
type Matcher interface {
	Match(q string, fields ...string) bool
}

// Substring matches when q is contained in any field, ignoring case.
type Substring struct{}

func (Substring) Match(q string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// Searcher runs queries with a pluggable Matcher. The zero value uses Substring.
type Searcher struct {
	Matcher Matcher
}

// Search returns vendors matching on business name or email, then trips
// matching on title or destination, each in collection order. A blank query
// returns nothing.
func (s Searcher) Search(query string, vendors []models.Vendor, trips []models.Trip) []Result {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	m := s.Matcher
	if m == nil {
		m = Substring{}
	}

	var results []Result
	for _, v := range vendors {
		if m.Match(q, v.BusinessName, v.Email) {
			results = append(results, Result{
				ID:       v.ID,
				Type:     TypeVendor,
				Title:    v.BusinessName,
				Subtitle: v.Email,
				Status:   string(v.Status),
			})
		}
	}
	for _, t := range trips {
		if m.Match(q, t.Title, t.Destination) {
			results = append(results, Result{
				ID:       t.ID,
				Type:     TypeTrip,
				Title:    t.Title,
				Subtitle: t.Destination,
				Status:   string(t.Status),
			})
		}
	}
	return results
}

// Search runs query with the default substring matcher.
func Search(query string, vendors []models.Vendor, trips []models.Trip) []Result {
	return Searcher{}.Search(query, vendors, trips)
}

// Status tells the UI which of the three search states to render.
type Status int

const (
	Idle      Status = iota // no query typed
	NoMatches               // query typed, nothing found
	Found
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case NoMatches:
		return "no matches"
	case Found:
		return "found"
	}
	return "unknown"
}

// Classify distinguishes an empty query from a query with no hits.
func Classify(query string, results []Result) Status {
	if strings.TrimSpace(query) == "" {
		return Idle
	}
	if len(results) == 0 {
		return NoMatches
	}
	return Found
}
