package ifo

import (
	"testing"
)

func TestNextAngleSequences(t *testing.T) {
	cases := []struct {
		name       string
		categories []byte
		want       []int
	}{
		{
			name:       "three angle block between shared cells",
			categories: []byte{categoryShared, categoryAngleFirst, categoryAngleMiddle, categoryAngleLast, categoryShared},
			want:       []int{0, 1, 2, 3, 0},
		},
		{
			name:       "two consecutive blocks",
			categories: []byte{categoryAngleFirst, categoryAngleLast, categoryAngleFirst, categoryAngleLast},
			want:       []int{1, 2, 1, 2},
		},
		{
			// no first cell: the counter never starts
			name:       "block opening with middle",
			categories: []byte{categoryAngleMiddle, categoryAngleLast, categoryShared},
			want:       []int{0, 0, 0},
		},
		{
			// a block without a last cell keeps its counter across shared cells
			name:       "unterminated block leaks",
			categories: []byte{categoryAngleFirst, categoryShared, categoryAngleMiddle},
			want:       []int{1, 0, 2},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var st angleState
			for i, category := range tc.categories {
				var got int
				got, st = nextAngle(st, category)
				if got != tc.want[i] {
					t.Fatalf("cell %d (0x%02X) angle = %d, want %d", i+1, category, got, tc.want[i])
				}
			}
		})
	}
}

func TestDecodeCellFlags(t *testing.T) {
	flags := decodeCellFlags(0xDB)
	if flags.BlockMode != 3 || flags.BlockType != 1 {
		t.Fatalf("block = %d/%d, want 3/1", flags.BlockMode, flags.BlockType)
	}
	if !flags.Seamless || flags.Interleaved || !flags.STCDiscontinuity || !flags.SeamlessAngle {
		t.Fatalf("flags = %+v", flags)
	}
}
