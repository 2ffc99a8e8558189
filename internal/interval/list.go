package interval

import (
	"sort"
	"strings"
)

// MergeFlag selects how List.Merge fuses neighbours.
type MergeFlag uint8

const (
	// AdjacentOnly fuses only exactly-touching neighbours, in list order.
	AdjacentOnly MergeFlag = 1 << iota
	// Sorted sorts a copy of the list before merging.
	Sorted
	// NoDuplicate fuses every overlapping or adjacent pair, wherever it sits,
	// until no such pair is left.
	NoDuplicate
)

type List []Interval

// Sort orders the list in place by First, then Count.
func (l List) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		if l[i].First != l[j].First {
			return l[i].First < l[j].First
		}
		return l[i].Count < l[j].Count
	})
}

// Merge returns a new list with neighbours fused according to flags. Without
// AdjacentOnly or NoDuplicate, consecutive entries that overlap or touch are
// fused in a single pass.
func (l List) Merge(flags MergeFlag) List {
	src := l
	if flags&Sorted != 0 {
		src = append(List(nil), l...)
		src.Sort()
	}
	out := make(List, 0, len(src))
	for _, iv := range src {
		if flags&NoDuplicate != 0 {
			out = absorb(out, iv)
			continue
		}
		if n := len(out); n > 0 && fusable(out[n-1], iv, flags) {
			out[n-1] = out[n-1].Merge(iv)
			continue
		}
		out = append(out, iv)
	}
	return out
}

func fusable(prev, next Interval, flags MergeFlag) bool {
	if flags&AdjacentOnly != 0 {
		return prev.Adjacent(next, After)
	}
	return prev.Overlaps(next) || prev.Adjacent(next, Either)
}

// absorb folds iv into every entry of out it overlaps or touches. The merged
// result keeps the position of the earliest entry it swallowed.
func absorb(out List, iv Interval) List {
	pos := -1
	for {
		j := -1
		for k := range out {
			if out[k].Overlaps(iv) || out[k].Adjacent(iv, Either) {
				j = k
				break
			}
		}
		if j < 0 {
			break
		}
		iv = out[j].Merge(iv)
		out = append(out[:j], out[j+1:]...)
		if pos < 0 || j < pos {
			pos = j
		}
	}
	if pos < 0 || pos >= len(out) {
		return append(out, iv)
	}
	out = append(out, Interval{})
	copy(out[pos+1:], out[pos:])
	out[pos] = iv
	return out
}

// Clip returns the parts of the list inside bound, dropping entries that
// end up empty.
func (l List) Clip(bound Interval) List {
	out := make(List, 0, len(l))
	for _, iv := range l {
		if c := iv.Clip(bound); !c.IsEmpty() {
			out = append(out, c)
		}
	}
	return out
}

// Count is the number of values covered, counting overlaps once per entry.
func (l List) Count() int64 {
	var total int64
	for _, iv := range l {
		if iv.Count > 0 {
			total = satAdd(total, iv.Count)
		}
	}
	return total
}

// Bound returns the interval enclosing every non-empty entry.
func (l List) Bound() (Interval, bool) {
	var bound Interval
	found := false
	for _, iv := range l {
		if iv.IsEmpty() {
			continue
		}
		if !found {
			bound = iv
			found = true
			continue
		}
		bound = bound.Merge(iv)
	}
	return bound, found
}

func (l List) String() string {
	parts := make([]string, len(l))
	for i, iv := range l {
		parts[i] = iv.String()
	}
	return strings.Join(parts, " ")
}
