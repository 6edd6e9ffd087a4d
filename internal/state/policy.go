package state

import "github.com/jredh-dev/tripmarket/internal/gateway"

// Decision records what ApplyFallback did with a fetch result.
type Decision int

const (
	Merged       Decision = iota // fetched items reconciled with current by ID
	KeptCurrent                  // nothing usable fetched; existing data kept
	UsedFallback                 // nothing usable fetched and nothing loaded; static data used
)

func (d Decision) String() string {
	switch d {
	case Merged:
		return "merged"
	case KeptCurrent:
		return "kept"
	case UsedFallback:
		return "fallback"
	}
	return "unknown"
}

// Merge says how a loaded response is reconciled with the current items.
type Merge[T any] struct {
	Key func(T) string
	// Skip reports IDs that must not change: kept if present, not added if
	// absent.
	Skip func(id string) bool
	// Drop reports whether a current item missing from the response is
	// removed. A nil Drop keeps every item.
	Drop func(T) bool
}

func (m Merge[T]) skip(id string) bool { return m.Skip != nil && m.Skip(id) }
func (m Merge[T]) drop(it T) bool      { return m.Drop != nil && m.Drop(it) }

// ApplyFallback computes the next contents of a collection from a fetch.
//
// An empty response means "not available yet", not "there are none":
// like a failure, it keeps whatever is loaded, or the fallback when nothing
// is. A loaded response replaces current items with the same ID, removes
// missing items that m.Drop reports, and appends new ones in response order.
// Items for which m.Skip returns true are left as they are, so a refresh
// never overwrites a change made after it started.
func ApplyFallback[T any](current, fallback []T, res gateway.Result[T], m Merge[T]) ([]T, Decision) {
	switch res.Outcome {
	case gateway.Loaded:
		return reconcile(current, res.Items, m), Merged
	default:
		if len(current) > 0 {
			return current, KeptCurrent
		}
		if len(fallback) == 0 {
			return current, KeptCurrent
		}
		return append([]T(nil), fallback...), UsedFallback
	}
}

func reconcile[T any](current, incoming []T, m Merge[T]) []T {
	fetched := make(map[string]T, len(incoming))
	order := make([]string, 0, len(incoming))
	for _, it := range incoming {
		id := m.Key(it)
		if _, dup := fetched[id]; !dup {
			order = append(order, id)
		}
		fetched[id] = it
	}

	out := make([]T, 0, len(current)+len(incoming))
	seen := make(map[string]bool, len(current))
	for _, it := range current {
		id := m.Key(it)
		seen[id] = true
		if m.skip(id) {
			out = append(out, it)
			continue
		}
		if f, ok := fetched[id]; ok {
			out = append(out, f)
			continue
		}
		if !m.drop(it) {
			out = append(out, it)
		}
	}
	for _, id := range order {
		if seen[id] || m.skip(id) {
			continue
		}
		out = append(out, fetched[id])
	}
	return out
}
