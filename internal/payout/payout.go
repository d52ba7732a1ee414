// Package payout turns revealed cells into wins: match classification,
// badge tier lookup and reward computation. Everything here is pure.
package payout

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tron-sweep/internal/board"
)

// BadgeKind names a reward tier.
type BadgeKind string

const (
	BadgeDouble BadgeKind = "double"
	BadgeTriple BadgeKind = "triple"
	BadgeMega   BadgeKind = "mega"
)

// Tier maps a range of match counts to a badge and multiplier.
// Max == 0 means the range has no upper bound.
type Tier struct {
	Badge      BadgeKind
	Multiplier int
	Min        int
	Max        int
}

// Contains reports whether count falls in [Min, Max).
func (t Tier) Contains(count int) bool {
	if count < t.Min {
		return false
	}
	return t.Max == 0 || count < t.Max
}

// BadgeCounts counts awarded badges per kind.
type BadgeCounts map[BadgeKind]int

// Clone returns a copy of the counts.
func (b BadgeCounts) Clone() BadgeCounts {
	out := make(BadgeCounts, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Add adds other into b.
func (b BadgeCounts) Add(other BadgeCounts) {
	for k, v := range other {
		b[k] += v
	}
}

// Total returns the sum of all counts.
func (b BadgeCounts) Total() int {
	n := 0
	for _, v := range b {
		n += v
	}
	return n
}

// WinningCell is one winning type and how many of it were revealed.
type WinningCell struct {
	Type  board.CellType
	Count int
}

// WinningResult is the outcome of match classification.
type WinningResult struct {
	Won   bool
	Cells []WinningCell
}

// Types returns the winning types.
func (r WinningResult) Types() []board.CellType {
	out := make([]board.CellType, len(r.Cells))
	for i, c := range r.Cells {
		out[i] = c.Type
	}
	return out
}

// HasType reports whether t is a winning type.
func (r WinningResult) HasType(t board.CellType) bool {
	for _, c := range r.Cells {
		if c.Type == t {
			return true
		}
	}
	return false
}

// Classify counts types and emits one entry per type with at least
// threshold occurrences, in canonical type order.
func Classify(types []board.CellType, threshold int) WinningResult {
	counts := make(map[board.CellType]int)
	for _, t := range types {
		counts[t]++
	}

	var res WinningResult
	for _, t := range board.AllCellTypes {
		if n := counts[t]; n > 0 && n >= threshold {
			res.Cells = append(res.Cells, WinningCell{Type: t, Count: n})
		}
	}
	res.Won = len(res.Cells) > 0
	return res
}

// Schedule is the reward table plus the ordered badge tiers.
type Schedule struct {
	Rewards map[board.CellType]int
	Tiers   []Tier
}

// TierFor returns the first tier whose range contains count.
func (s Schedule) TierFor(count int) (Tier, bool) {
	for _, t := range s.Tiers {
		if t.Contains(count) {
			return t, true
		}
	}
	return Tier{}, false
}

// Award is the reward breakdown for one winning type.
type Award struct {
	Cell       WinningCell
	Base       int
	Multiplier int
	Reward     int
	Badge      BadgeKind // empty when no tier matched
}

// Evaluation is the result of scoring a WinningResult.
type Evaluation struct {
	Awards []Award
	Total  int
	Badges BadgeCounts
}

// Evaluate scores each winning cell: base reward times the multiplier of
// the first matching tier (1 when no tier matches). Matched tiers add one
// badge of their kind.
func (s Schedule) Evaluate(cells []WinningCell) Evaluation {
	ev := Evaluation{Badges: s.EmptyBadges()}
	for _, wc := range cells {
		a := Award{Cell: wc, Base: s.Rewards[wc.Type], Multiplier: 1}
		if tier, ok := s.TierFor(wc.Count); ok {
			a.Multiplier = tier.Multiplier
			a.Badge = tier.Badge
			ev.Badges[tier.Badge]++
		}
		a.Reward = a.Base * a.Multiplier
		ev.Total += a.Reward
		ev.Awards = append(ev.Awards, a)
	}
	return ev
}

// BadgeOrder returns badge kinds in canonical order: first appearance in
// the tier table.
func (s Schedule) BadgeOrder() []BadgeKind {
	seen := make(map[BadgeKind]bool)
	var out []BadgeKind
	for _, t := range s.Tiers {
		if seen[t.Badge] {
			continue
		}
		seen[t.Badge] = true
		out = append(out, t.Badge)
	}
	return out
}

// EmptyBadges returns zero counts for every badge kind of the schedule.
func (s Schedule) EmptyBadges() BadgeCounts {
	out := make(BadgeCounts, len(s.Tiers))
	for _, b := range s.BadgeOrder() {
		out[b] = 0
	}
	return out
}

// Overlap describes two tiers whose ranges intersect.
type Overlap struct {
	First, Second int // tier indexes, First < Second
}

// Overlaps lists intersecting tier pairs. Overlaps are allowed: lookup
// resolves them to the tier listed first.
func (s Schedule) Overlaps() []Overlap {
	var out []Overlap
	for i := 0; i < len(s.Tiers); i++ {
		for j := i + 1; j < len(s.Tiers); j++ {
			if rangesIntersect(s.Tiers[i], s.Tiers[j]) {
				out = append(out, Overlap{First: i, Second: j})
			}
		}
	}
	return out
}

func rangesIntersect(a, b Tier) bool {
	aBelowB := a.Max != 0 && a.Max <= b.Min
	bBelowA := b.Max != 0 && b.Max <= a.Min
	return !aBelowB && !bBelowA
}

// Validate checks the schedule for malformed entries.
func (s Schedule) Validate() error {
	var errs []error
	for _, t := range board.AllCellTypes {
		v, ok := s.Rewards[t]
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("payout: missing reward for %s", t))
		case v < 0:
			errs = append(errs, fmt.Errorf("payout: negative reward %d for %s", v, t))
		}
	}
	for i, t := range s.Tiers {
		if t.Badge == "" {
			errs = append(errs, fmt.Errorf("payout: tier %d has no badge", i))
		}
		if t.Multiplier < 1 {
			errs = append(errs, fmt.Errorf("payout: tier %d multiplier %d < 1", i, t.Multiplier))
		}
		if t.Min < 0 {
			errs = append(errs, fmt.Errorf("payout: tier %d min %d < 0", i, t.Min))
		}
		if t.Max != 0 && t.Max <= t.Min {
			errs = append(errs, fmt.Errorf("payout: tier %d range [%d, %d) is empty", i, t.Min, t.Max))
		}
	}
	return errors.Join(errs...)
}
