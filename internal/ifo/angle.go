package ifo

import (
	"github.com/q191201771/naza/pkg/nazabits"
)

// Cell categories: the high nibble of a cell playback entry, block mode in
// the top two bits and block type in the next two.
const (
	categoryShared      = 0x00
	categoryAngleFirst  = 0x50
	categoryAngleMiddle = 0x90
	categoryAngleLast   = 0xD0
)

// angleState is the running angle counter carried from cell to cell within
// one program chain.
type angleState struct {
	counter int
}

// nextAngle assigns an angle to a cell of the given category. Only a first
// cell starts the counter and only a last cell clears it, so a block that
// opens with a middle or last cell gets angle 0, and a block left open keeps
// counting into whatever follows.
func nextAngle(st angleState, category byte) (int, angleState) {
	switch category {
	case categoryAngleFirst:
		st.counter = 1
	case categoryAngleMiddle, categoryAngleLast:
		if st.counter > 0 {
			st.counter++
		}
	}
	angle := st.counter
	if category == categoryShared {
		angle = 0
	}
	if category == categoryAngleLast {
		st.counter = 0
	}
	return angle, st
}

func decodeCellFlags(b byte) CellFlags {
	br := nazabits.NewBitReader([]byte{b})
	mode, _ := br.ReadBits8(2)
	kind, _ := br.ReadBits8(2)
	seamless, _ := br.ReadBits8(1)
	interleaved, _ := br.ReadBits8(1)
	stc, _ := br.ReadBits8(1)
	seamlessAngle, _ := br.ReadBits8(1)
	return CellFlags{
		BlockMode:        mode,
		BlockType:        kind,
		Seamless:         seamless == 1,
		Interleaved:      interleaved == 1,
		STCDiscontinuity: stc == 1,
		SeamlessAngle:    seamlessAngle == 1,
	}
}
