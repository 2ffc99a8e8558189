// Package interval implements closed integer ranges and ordered lists of them.
// Sector spans of cells and program chains are expressed with these types.
package interval

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalid = errors.New("interval: last precedes first-1")

// Interval is the closed range [First, First+Count-1]. A zero Count is an
// empty interval that only carries First.
type Interval struct {
	First int64 `json:"first" yaml:"first"`
	Count int64 `json:"count" yaml:"count"`
}

// Direction selects which side Adjacent checks.
type Direction int

const (
	// After reports whether the other interval starts right after this one ends.
	After Direction = iota
	// Before reports whether the other interval ends right before this one starts.
	Before
	Either
)

func New(first, last int64) (Interval, error) {
	if first != math.MinInt64 && last < first-1 {
		return Interval{}, fmt.Errorf("%w: [%d..%d]", ErrInvalid, first, last)
	}
	// Count saturates when the span exceeds the int64 range.
	return Interval{First: first, Count: satAdd(satSub(last, first), 1)}, nil
}

// Must is New for callers holding known-good bounds.
func Must(first, last int64) Interval {
	iv, err := New(first, last)
	if err != nil {
		panic(err)
	}
	return iv
}

func FromCount(first, count int64) Interval {
	if count < 0 {
		count = 0
	}
	return Interval{First: first, Count: count}
}

func Empty(first int64) Interval {
	return Interval{First: first}
}

func (iv Interval) IsEmpty() bool {
	return iv.Count <= 0
}

// Last is meaningless for an empty interval; it returns First-1.
func (iv Interval) Last() int64 {
	if iv.Count <= 0 {
		return satSub(iv.First, 1)
	}
	return satAdd(iv.First, iv.Count-1)
}

func (iv Interval) Contains(v int64) bool {
	return !iv.IsEmpty() && v >= iv.First && v <= iv.Last()
}

func (iv Interval) Overlaps(o Interval) bool {
	if iv.IsEmpty() || o.IsEmpty() {
		return false
	}
	return iv.First <= o.Last() && o.First <= iv.Last()
}

func (iv Interval) Adjacent(o Interval, dir Direction) bool {
	if iv.IsEmpty() || o.IsEmpty() {
		return false
	}
	after := iv.Last() != math.MaxInt64 && iv.Last()+1 == o.First
	before := o.Last() != math.MaxInt64 && o.Last()+1 == iv.First
	switch dir {
	case After:
		return after
	case Before:
		return before
	default:
		return after || before
	}
}

// Merge returns the smallest interval enclosing both. Disjoint inputs are
// bridged, so callers wanting an exact union check Overlaps/Adjacent first.
func (iv Interval) Merge(o Interval) Interval {
	if iv.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return iv
	}
	first := min(iv.First, o.First)
	last := max(iv.Last(), o.Last())
	merged, _ := New(first, last)
	return merged
}

// Clip returns the part of iv inside bound. A disjoint result is empty.
func (iv Interval) Clip(bound Interval) Interval {
	if iv.IsEmpty() {
		return iv
	}
	if bound.IsEmpty() {
		return Empty(iv.First)
	}
	first := max(iv.First, bound.First)
	last := min(iv.Last(), bound.Last())
	if last < first {
		return Empty(first)
	}
	clipped, _ := New(first, last)
	return clipped
}

// Offset shifts the interval, saturating at the domain extremes.
func (iv Interval) Offset(delta int64) Interval {
	if iv.IsEmpty() {
		return Empty(satAdd(iv.First, delta))
	}
	first := satAdd(iv.First, delta)
	last := satAdd(iv.Last(), delta)
	shifted, _ := New(first, last)
	return shifted
}

// Scale multiplies both the start and the length by factor, saturating on
// overflow. A negative factor is treated as zero length at the scaled start.
func (iv Interval) Scale(factor int64) Interval {
	first := satMul(iv.First, factor)
	if factor <= 0 || iv.IsEmpty() {
		return Empty(first)
	}
	return Interval{First: first, Count: satMul(iv.Count, factor)}
}

func (iv Interval) String() string {
	if iv.IsEmpty() {
		return fmt.Sprintf("[%d..]", iv.First)
	}
	return fmt.Sprintf("[%d..%d]", iv.First, iv.Last())
}

func satAdd(a, b int64) int64 {
	if b > 0 && a > math.MaxInt64-b {
		return math.MaxInt64
	}
	if b < 0 && a < math.MinInt64-b {
		return math.MinInt64
	}
	return a + b
}

func satSub(a, b int64) int64 {
	if b == math.MinInt64 {
		if a >= 0 {
			return math.MaxInt64
		}
		return a - b
	}
	return satAdd(a, -b)
}

func satMul(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	p := a * b
	if p/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		if (a > 0) == (b > 0) {
			return math.MaxInt64
		}
		return math.MinInt64
	}
	return p
}
