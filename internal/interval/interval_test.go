package interval

import (
	"errors"
	"math"
	"testing"
)

func TestNewRejectsInvertedRange(t *testing.T) {
	if _, err := New(10, 8); !errors.Is(err, ErrInvalid) {
		t.Fatalf("New(10, 8) err = %v, want ErrInvalid", err)
	}
	iv, err := New(10, 9)
	if err != nil {
		t.Fatalf("New(10, 9): %v", err)
	}
	if !iv.IsEmpty() || iv.First != 10 {
		t.Fatalf("New(10, 9) = %+v, want empty at 10", iv)
	}
	iv = Must(4, 4)
	if iv.Count != 1 || iv.Last() != 4 {
		t.Fatalf("Must(4, 4) = %+v, want single value", iv)
	}
}

func TestOverlapAndAdjacencyAreSymmetric(t *testing.T) {
	cases := []struct {
		a, b     Interval
		overlap  bool
		adjacent bool
	}{
		{Must(0, 10), Must(5, 15), true, false},
		{Must(0, 10), Must(11, 15), false, true},
		{Must(0, 10), Must(12, 15), false, false},
		{Must(0, 10), Must(10, 10), true, false},
		{Must(-5, -1), Must(0, 0), false, true},
		{Empty(3), Must(0, 10), false, false},
		{Must(math.MaxInt64-1, math.MaxInt64), Must(0, 1), false, false},
	}
	for _, tc := range cases {
		if got := tc.a.Overlaps(tc.b); got != tc.overlap {
			t.Fatalf("%v.Overlaps(%v) = %v, want %v", tc.a, tc.b, got, tc.overlap)
		}
		if got := tc.b.Overlaps(tc.a); got != tc.overlap {
			t.Fatalf("%v.Overlaps(%v) = %v, want %v", tc.b, tc.a, got, tc.overlap)
		}
		if got := tc.a.Adjacent(tc.b, Either); got != tc.adjacent {
			t.Fatalf("%v.Adjacent(%v) = %v, want %v", tc.a, tc.b, got, tc.adjacent)
		}
		if got := tc.b.Adjacent(tc.a, Either); got != tc.adjacent {
			t.Fatalf("%v.Adjacent(%v) = %v, want %v", tc.b, tc.a, got, tc.adjacent)
		}
	}
}

func TestAdjacentDirection(t *testing.T) {
	a := Must(0, 9)
	b := Must(10, 19)
	if !a.Adjacent(b, After) || a.Adjacent(b, Before) {
		t.Fatalf("a before b: After/Before wrong")
	}
	if !b.Adjacent(a, Before) || b.Adjacent(a, After) {
		t.Fatalf("b after a: After/Before wrong")
	}
}

func TestMergeEnclosesBothInputs(t *testing.T) {
	cases := []struct {
		a, b, want Interval
	}{
		{Must(0, 10), Must(5, 15), Must(0, 15)},
		{Must(11, 15), Must(0, 10), Must(0, 15)},
		{Must(0, 10), Must(2, 3), Must(0, 10)},
		// disjoint inputs are bridged
		{Must(0, 1), Must(8, 9), Must(0, 9)},
		{Empty(100), Must(8, 9), Must(8, 9)},
	}
	for _, tc := range cases {
		if got := tc.a.Merge(tc.b); got != tc.want {
			t.Fatalf("%v.Merge(%v) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestClip(t *testing.T) {
	if got := Must(0, 100).Clip(Must(10, 20)); got != Must(10, 20) {
		t.Fatalf("Clip inner = %v", got)
	}
	if got := Must(0, 5).Clip(Must(3, 20)); got != Must(3, 5) {
		t.Fatalf("Clip tail = %v", got)
	}
	if got := Must(0, 5).Clip(Must(6, 20)); !got.IsEmpty() {
		t.Fatalf("Clip disjoint = %v, want empty", got)
	}
}

func TestOffsetAndScaleSaturate(t *testing.T) {
	iv := Must(math.MaxInt64-10, math.MaxInt64-5)
	got := iv.Offset(100)
	if got.First != math.MaxInt64 || got.Last() != math.MaxInt64 {
		t.Fatalf("Offset overflow = %v", got)
	}
	got = Must(math.MinInt64+1, math.MinInt64+2).Offset(-10)
	if got.First != math.MinInt64 {
		t.Fatalf("Offset underflow = %v", got)
	}
	got = Must(2, 3).Scale(2048)
	if got.First != 4096 || got.Count != 4096 {
		t.Fatalf("Scale = %+v", got)
	}
	got = Must(math.MaxInt64/2, math.MaxInt64/2+1).Scale(4)
	if got.First != math.MaxInt64 || got.Count != 8 {
		t.Fatalf("Scale overflow = %+v", got)
	}
}
