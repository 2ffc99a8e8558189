package interval

import (
	"testing"
)

func pairs(l List) [][2]int64 {
	out := make([][2]int64, len(l))
	for i, iv := range l {
		out[i] = [2]int64{iv.First, iv.Last()}
	}
	return out
}

func listOf(ranges ...[2]int64) List {
	l := make(List, len(ranges))
	for i, r := range ranges {
		l[i] = Must(r[0], r[1])
	}
	return l
}

func equalPairs(a, b [][2]int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestMergeSortedNoDuplicate(t *testing.T) {
	l := listOf(
		[2]int64{105, 150}, [2]int64{28, 47}, [2]int64{2, 27}, [2]int64{100, 110},
		[2]int64{-1, 2}, [2]int64{40, 45}, [2]int64{99, 99},
	)
	got := pairs(l.Merge(Sorted | NoDuplicate))
	want := [][2]int64{{-1, 47}, {99, 150}}
	if !equalPairs(got, want) {
		t.Fatalf("Merge = %v, want %v", got, want)
	}
	if l[0].First != 105 {
		t.Fatalf("Merge mutated the receiver: %v", l)
	}
}

func TestMergeAdjacentOnlyKeepsOrder(t *testing.T) {
	l := listOf(
		[2]int64{105, 150}, [2]int64{2, 100}, [2]int64{100, 110},
		[2]int64{111, 122}, [2]int64{99, 99},
	)
	got := pairs(l.Merge(AdjacentOnly))
	want := [][2]int64{{105, 150}, {2, 100}, {100, 122}, {99, 99}}
	if !equalPairs(got, want) {
		t.Fatalf("Merge = %v, want %v", got, want)
	}
}

func TestMergeNoDuplicateReMergesBackwards(t *testing.T) {
	// (10,20) bridges the first two entries once it is absorbed.
	l := listOf([2]int64{0, 9}, [2]int64{21, 30}, [2]int64{10, 20}, [2]int64{50, 60})
	got := pairs(l.Merge(NoDuplicate))
	want := [][2]int64{{0, 30}, {50, 60}}
	if !equalPairs(got, want) {
		t.Fatalf("Merge = %v, want %v", got, want)
	}
}

func TestMergeDefaultFusesTouchingNeighbours(t *testing.T) {
	l := listOf([2]int64{0, 9}, [2]int64{5, 12}, [2]int64{13, 13}, [2]int64{20, 21})
	got := pairs(l.Merge(0))
	want := [][2]int64{{0, 13}, {20, 21}}
	if !equalPairs(got, want) {
		t.Fatalf("Merge = %v, want %v", got, want)
	}
}

func TestSortBreaksTiesOnCount(t *testing.T) {
	l := listOf([2]int64{5, 9}, [2]int64{5, 6}, [2]int64{1, 1})
	l.Sort()
	want := [][2]int64{{1, 1}, {5, 6}, {5, 9}}
	if got := pairs(l); !equalPairs(got, want) {
		t.Fatalf("Sort = %v, want %v", got, want)
	}
}

func TestListClipCountBound(t *testing.T) {
	l := listOf([2]int64{0, 9}, [2]int64{20, 29}, [2]int64{40, 49})
	if got := l.Count(); got != 30 {
		t.Fatalf("Count = %d, want 30", got)
	}
	bound, ok := l.Bound()
	if !ok || bound != Must(0, 49) {
		t.Fatalf("Bound = %v, %v", bound, ok)
	}
	clipped := l.Clip(Must(5, 25))
	want := [][2]int64{{5, 9}, {20, 25}}
	if got := pairs(clipped); !equalPairs(got, want) {
		t.Fatalf("Clip = %v, want %v", got, want)
	}
	if _, ok := (List{}).Bound(); ok {
		t.Fatalf("Bound of empty list ok=true")
	}
}

func TestAdjacentOnlyMergePreservesCount(t *testing.T) {
	l := listOf([2]int64{0, 9}, [2]int64{10, 19}, [2]int64{5, 7})
	merged := l.Merge(AdjacentOnly)
	if merged.Count() != l.Count() {
		t.Fatalf("Count after merge = %d, want %d", merged.Count(), l.Count())
	}
}
