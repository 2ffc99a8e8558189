package ifo

import (
	"github.com/autobrr/go-vtsdemux/internal/interval"
)

// TitleSet is the decoded navigation structure of one VTS IFO file.
type TitleSet struct {
	Header        Header
	Video         VideoAttrs
	Audio         []AudioAttrs
	Subpictures   []SubpictureAttrs
	OriginalCells []OriginalCell
	PGCs          []Pgc
}

// Header holds the VTSI_MAT fields that locate the rest of the title set.
type Header struct {
	LastSector     uint32
	IFOLastSector  uint32
	Version        uint16
	Category       uint32
	MatEndByte     uint32
	MenuVOBSector  uint32
	TitleVOBSector uint32
	PGCISector     uint32
	CellAddrSector uint32
}

// OriginalCell is one Cell Address Table entry: where a VOB's cell lives on disc.
type OriginalCell struct {
	VobID   int
	CellID  int
	Sectors interval.Interval
}

// Cell is one playback cell of a program chain.
type Cell struct {
	ID       int
	AngleID  int
	Category byte
	Flags    CellFlags
	VobID    int
	CellID   int
	Duration PlaybackTime
	// Playback is the first-VOBU-start to last-VOBU-end span from the cell
	// playback table. Sectors is what the address table says.
	Playback interval.Interval
	Sectors  interval.List
}

type CellFlags struct {
	BlockMode        uint8
	BlockType        uint8
	Seamless         bool
	Interleaved      bool
	STCDiscontinuity bool
	SeamlessAngle    bool
}

// Chapter is a run of cells inside its program chain. First is a 0-based
// index into Pgc.Cells.
type Chapter struct {
	ID    int
	First int
	Count int
}

type PaletteEntry struct {
	Y  uint8
	Cr uint8
	Cb uint8
}

// Pgc is one program chain.
type Pgc struct {
	ID       int
	Entry    int
	Duration PlaybackTime
	Next     int
	Previous int
	Group    int
	Palette  [16]PaletteEntry
	Cells    []Cell
	Chapters []Chapter
	Sectors  interval.List
}

// ChapterCells returns the cells of c as a view into p.Cells.
func (p *Pgc) ChapterCells(c Chapter) []Cell {
	if c.First < 0 || c.Count <= 0 || c.First+c.Count > len(p.Cells) {
		return nil
	}
	return p.Cells[c.First : c.First+c.Count : c.First+c.Count]
}

func (p *Pgc) Angles() int {
	n := 0
	for _, cell := range p.Cells {
		n = max(n, cell.AngleID)
	}
	return n
}
