package state

import (
	"errors"
	"testing"

	"github.com/jredh-dev/tripmarket/internal/gateway"
)

type item struct{ id, v string }

func itemID(i item) string { return i.id }

func TestApplyFallback(t *testing.T) {
	current := []item{{"a", "1"}, {"b", "1"}}
	fb := []item{{"z", "fb"}}

	tests := []struct {
		name    string
		current []item
		res     gateway.Result[item]
		skip    func(string) bool
		drop    func(item) bool
		want    []item
		wantDec Decision
	}{
		{
			name:    "loaded merges by id",
			current: current,
			res:     gateway.NewResult([]item{{"b", "2"}, {"c", "2"}}, nil),
			want:    []item{{"a", "1"}, {"b", "2"}, {"c", "2"}},
			wantDec: Merged,
		},
		{
			name:    "loaded skips touched ids",
			current: current,
			res:     gateway.NewResult([]item{{"a", "2"}, {"b", "2"}}, nil),
			skip:    func(id string) bool { return id == "a" },
			want:    []item{{"a", "1"}, {"b", "2"}},
			wantDec: Merged,
		},
		{
			name:    "loaded does not add skipped ids",
			current: current,
			res:     gateway.NewResult([]item{{"c", "2"}, {"d", "2"}}, nil),
			skip:    func(id string) bool { return id == "c" },
			want:    []item{{"a", "1"}, {"b", "1"}, {"d", "2"}},
			wantDec: Merged,
		},
		{
			name:    "loaded drops missing items",
			current: current,
			res:     gateway.NewResult([]item{{"c", "2"}}, nil),
			drop:    func(it item) bool { return it.id == "a" },
			want:    []item{{"b", "1"}, {"c", "2"}},
			wantDec: Merged,
		},
		{
			name:    "loaded replaces everything droppable",
			current: current,
			res:     gateway.NewResult([]item{{"c", "2"}}, nil),
			drop:    func(item) bool { return true },
			want:    []item{{"c", "2"}},
			wantDec: Merged,
		},
		{
			name:    "touched items survive replacement",
			current: current,
			res:     gateway.NewResult([]item{{"c", "2"}}, nil),
			skip:    func(id string) bool { return id == "b" },
			drop:    func(item) bool { return true },
			want:    []item{{"b", "1"}, {"c", "2"}},
			wantDec: Merged,
		},
		{
			name:    "duplicate ids in response keep the last",
			current: nil,
			res:     gateway.NewResult([]item{{"c", "1"}, {"c", "2"}}, nil),
			want:    []item{{"c", "2"}},
			wantDec: Merged,
		},
		{
			name:    "empty keeps current",
			current: current,
			res:     gateway.NewResult([]item{}, nil),
			want:    current,
			wantDec: KeptCurrent,
		},
		{
			name:    "empty with nothing loaded uses fallback",
			current: nil,
			res:     gateway.NewResult([]item{}, nil),
			want:    fb,
			wantDec: UsedFallback,
		},
		{
			name:    "failed keeps current",
			current: current,
			res:     gateway.NewResult[item](nil, errors.New("x")),
			want:    current,
			wantDec: KeptCurrent,
		},
		{
			name:    "failed with nothing loaded uses fallback",
			current: []item{},
			res:     gateway.NewResult[item](nil, errors.New("x")),
			want:    fb,
			wantDec: UsedFallback,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, dec := ApplyFallback(tt.current, fb, tt.res, Merge[item]{Key: itemID, Skip: tt.skip, Drop: tt.drop})
			if dec != tt.wantDec {
				t.Errorf("decision = %v, want %v", dec, tt.wantDec)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestApplyFallback_DoesNotModifyInput(t *testing.T) {
	current := []item{{"a", "1"}}
	ApplyFallback(current, nil, gateway.NewResult([]item{{"a", "2"}}, nil), Merge[item]{Key: itemID})
	if current[0].v != "1" {
		t.Error("current was modified in place")
	}
}
