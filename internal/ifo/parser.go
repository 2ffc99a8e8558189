// Package ifo decodes the navigation structure of a DVD-Video title set
// information file (VTS_nn_0.IFO): its program chains, their cells and
// chapters, and the sector spans those cells occupy in the title VOBs.
package ifo

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/go-logr/logr"

	"github.com/autobrr/go-vtsdemux/internal/interval"
)

const SectorSize = 2048

const (
	signature   = "DVDVIDEO-VTS"
	minFileSize = 0x03D8

	lastSectorOffset    = 0x000C
	ifoLastSectorOffset = 0x001C
	versionOffset       = 0x0020
	categoryOffset      = 0x0022
	matEndOffset        = 0x0080
	menuVOBOffset       = 0x00C0
	titleVOBOffset      = 0x00C4
	pgciPointerOffset   = 0x00CC
	cadtPointerOffset   = 0x00E0

	tableHeaderSize = 8
	cadtEntrySize   = 12
	pgciEntrySize   = 8

	pgcHeaderSize       = 0x00EC
	pgcProgramCountOff  = 0x0002
	pgcCellCountOff     = 0x0003
	pgcPlaybackTimeOff  = 0x0004
	pgcNextOff          = 0x009C
	pgcPreviousOff      = 0x009E
	pgcGroupOff         = 0x00A0
	pgcPaletteOff       = 0x00A4
	pgcProgramMapOff    = 0x00E6
	pgcCellPlaybackOff  = 0x00E8
	pgcCellPositionOff  = 0x00EA
	cellPlaybackSize    = 0x18
	cellPositionSize    = 4
	cellPlaybackTimeOff = 0x04
	cellFirstSectorOff  = 0x08
	cellLastVOBUEndOff  = 0x14
	pgcEntryFlag        = 0x80
	pgcTitleNumberMask  = 0x7F
	cellCategoryMask    = 0xF0
	paletteEntrySize    = 4
)

type options struct {
	log logr.Logger
}

type Option func(*options)

func WithLogger(log logr.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

type cellKey struct {
	vob  int
	cell int
}

type parser struct {
	data  []byte
	log   logr.Logger
	cells map[cellKey]interval.List
	// merged and bodies memoize work shared by cells with the same address
	// key and by directory entries pointing at the same PGC body.
	merged map[cellKey]interval.List
	bodies map[int64]Pgc
}

// ParseFile reads and parses the IFO at path.
func ParseFile(path string, opts ...Option) (*TitleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ts, err := Parse(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ts, nil
}

// Parse decodes a complete VTS IFO image. Any structural problem aborts the
// parse; there is no partial result.
func Parse(data []byte, opts ...Option) (*TitleSet, error) {
	o := options{log: logr.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	if len(data) < len(signature) || !bytes.Equal(data[:len(signature)], []byte(signature)) {
		return nil, tableErr("VTSI_MAT", 0, ErrSignature)
	}
	if len(data) < minFileSize {
		return nil, tableErr("VTSI_MAT", 0, fmt.Errorf("%w: %d bytes, need %d", ErrTooSmall, len(data), minFileSize))
	}

	p := &parser{data: data, log: o.log}
	ts := &TitleSet{
		Header:      p.header(),
		Video:       parseVideoAttrs(data, videoAttrOffset),
		Audio:       parseAudioAttrs(data),
		Subpictures: parseSubpictureAttrs(data),
	}

	cells, err := p.cellAddressTable(int64(ts.Header.CellAddrSector) * SectorSize)
	if err != nil {
		return nil, err
	}
	ts.OriginalCells = cells
	p.cells = make(map[cellKey]interval.List, len(cells))
	p.merged = make(map[cellKey]interval.List)
	p.bodies = make(map[int64]Pgc)
	for _, c := range cells {
		key := cellKey{vob: c.VobID, cell: c.CellID}
		p.cells[key] = append(p.cells[key], c.Sectors)
	}

	pgcs, err := p.programChainTable(int64(ts.Header.PGCISector) * SectorSize)
	if err != nil {
		return nil, err
	}
	ts.PGCs = pgcs
	p.log.V(1).Info("parsed title set", "pgcs", len(pgcs), "originalCells", len(cells))
	return ts, nil
}

func (p *parser) header() Header {
	return Header{
		LastSector:     p.u32(lastSectorOffset),
		IFOLastSector:  p.u32(ifoLastSectorOffset),
		Version:        p.u16(versionOffset),
		Category:       p.u32(categoryOffset),
		MatEndByte:     p.u32(matEndOffset),
		MenuVOBSector:  p.u32(menuVOBOffset),
		TitleVOBSector: p.u32(titleVOBOffset),
		PGCISector:     p.u32(pgciPointerOffset),
		CellAddrSector: p.u32(cadtPointerOffset),
	}
}

// cellAddressTable parses VTS_C_ADT. The entry count follows from the
// table's end address; the VOB count in the header is informational.
func (p *parser) cellAddressTable(start int64) ([]OriginalCell, error) {
	const table = "VTS_C_ADT"
	if start == 0 {
		return nil, tableErr(table, start, ErrMissingTable)
	}
	if !p.fits(start, tableHeaderSize) {
		return nil, tableErr(table, start, ErrOutOfBounds)
	}
	length := int64(p.u32(start+4)) + 1
	if length < tableHeaderSize {
		return nil, tableErr(table, start, fmt.Errorf("%w: declared length %d", ErrOutOfBounds, length))
	}
	count := (length - tableHeaderSize) / cadtEntrySize
	end := start + tableHeaderSize + count*cadtEntrySize
	if end > start+length || end > int64(len(p.data)) {
		return nil, tableErr(table, start, fmt.Errorf("%w: %d entries end at 0x%X, file is 0x%X bytes", ErrOutOfBounds, count, end, len(p.data)))
	}

	cells := make([]OriginalCell, 0, count)
	for i := int64(0); i < count; i++ {
		off := start + tableHeaderSize + i*cadtEntrySize
		first := int64(p.u32(off + 4))
		last := int64(p.u32(off + 8))
		span, err := interval.New(first, last)
		if err != nil {
			return nil, tableErr(table, off, fmt.Errorf("%w: entry %d [%d..%d]", ErrInvalidRange, i+1, first, last))
		}
		cells = append(cells, OriginalCell{
			VobID:   int(p.u16(off)),
			CellID:  int(p.data[off+2]),
			Sectors: span,
		})
	}
	return cells, nil
}

// programChainTable parses VTS_PGCI. Directory entries without the entry
// flag are unused slots and are skipped.
func (p *parser) programChainTable(start int64) ([]Pgc, error) {
	const table = "VTS_PGCI"
	if start == 0 {
		return nil, tableErr(table, start, ErrMissingTable)
	}
	if !p.fits(start, tableHeaderSize) {
		return nil, tableErr(table, start, ErrOutOfBounds)
	}
	count := int64(p.u16(start))
	if !p.fits(start+tableHeaderSize, count*pgciEntrySize) {
		return nil, tableErr(table, start, fmt.Errorf("%w: %d directory entries", ErrOutOfBounds, count))
	}

	pgcs := make([]Pgc, 0, count)
	for i := int64(0); i < count; i++ {
		entry := start + tableHeaderSize + i*pgciEntrySize
		flag := p.data[entry]
		if flag&pgcEntryFlag == 0 {
			p.log.V(1).Info("skipping unused program chain slot", "entry", i+1)
			continue
		}
		pgcStart := start + int64(p.u32(entry+4))
		title := int(flag & pgcTitleNumberMask)
		if body, ok := p.bodies[pgcStart]; ok {
			// same body as an earlier entry: share its cells and spans
			body.ID, body.Entry = title, int(i+1)
			pgcs = append(pgcs, body)
			continue
		}
		pgc, err := p.programChain(pgcStart, title, int(i+1))
		if err != nil {
			return nil, err
		}
		p.bodies[pgcStart] = pgc
		pgcs = append(pgcs, pgc)
	}
	return pgcs, nil
}

func (p *parser) programChain(start int64, title int, entry int) (Pgc, error) {
	table := fmt.Sprintf("PGC %d", entry)
	if !p.fits(start, pgcHeaderSize) {
		return Pgc{}, tableErr(table, start, ErrOutOfBounds)
	}
	programCount := int64(p.data[start+pgcProgramCountOff])
	cellCount := int64(p.data[start+pgcCellCountOff])
	duration, err := DecodePlaybackTime(p.data[start+pgcPlaybackTimeOff:])
	if err != nil {
		return Pgc{}, tableErr(table, start, err)
	}

	pgc := Pgc{
		ID:       title,
		Entry:    entry,
		Duration: duration,
		Next:     int(p.u16(start + pgcNextOff)),
		Previous: int(p.u16(start + pgcPreviousOff)),
		Group:    int(p.u16(start + pgcGroupOff)),
	}
	for i := range pgc.Palette {
		off := start + pgcPaletteOff + int64(i)*paletteEntrySize
		pgc.Palette[i] = PaletteEntry{Y: p.data[off+1], Cr: p.data[off+2], Cb: p.data[off+3]}
	}

	programMap := start + int64(p.u16(start+pgcProgramMapOff))
	cellPlayback := start + int64(p.u16(start+pgcCellPlaybackOff))
	cellPosition := start + int64(p.u16(start+pgcCellPositionOff))
	if !p.fits(programMap, programCount) {
		return Pgc{}, tableErr(table+" program map", programMap, ErrOutOfBounds)
	}
	if !p.fits(cellPlayback, cellCount*cellPlaybackSize) {
		return Pgc{}, tableErr(table+" cell playback", cellPlayback, ErrOutOfBounds)
	}
	if !p.fits(cellPosition, cellCount*cellPositionSize) {
		return Pgc{}, tableErr(table+" cell position", cellPosition, ErrOutOfBounds)
	}

	var st angleState
	var spans interval.List
	pgc.Cells = make([]Cell, 0, cellCount)
	for i := int64(0); i < cellCount; i++ {
		pb := cellPlayback + i*cellPlaybackSize
		pos := cellPosition + i*cellPositionSize
		category := p.data[pb] & cellCategoryMask
		cell := Cell{
			ID:       int(i + 1),
			Category: category,
			Flags:    decodeCellFlags(p.data[pb]),
			VobID:    int(p.u16(pos)),
			CellID:   int(p.data[pos+3]),
		}
		cell.AngleID, st = nextAngle(st, category)
		if cell.Duration, err = DecodePlaybackTime(p.data[pb+cellPlaybackTimeOff:]); err != nil {
			return Pgc{}, tableErr(table+" cell playback", pb, err)
		}
		first := int64(p.u32(pb + cellFirstSectorOff))
		if cell.Playback, err = interval.New(first, int64(p.u32(pb+cellLastVOBUEndOff))); err != nil {
			cell.Playback = interval.Empty(first)
		}

		cell.Sectors = p.cellSectors(entry, cell)
		spans = append(spans, cell.Sectors...)
		pgc.Cells = append(pgc.Cells, cell)
	}
	pgc.Sectors = spans.Merge(interval.AdjacentOnly)
	pgc.Chapters = chapters(p.data[programMap:programMap+programCount], len(pgc.Cells))
	return pgc, nil
}

// cellSectors returns the merged address table spans of cell, computed once
// per VOB/cell id pair.
func (p *parser) cellSectors(entry int, cell Cell) interval.List {
	key := cellKey{vob: cell.VobID, cell: cell.CellID}
	if merged, ok := p.merged[key]; ok {
		return merged
	}
	matches := p.cells[key]
	if len(matches) == 0 {
		p.log.V(1).Info("cell has no address table entry", "pgc", entry, "cell", cell.ID, "vob", cell.VobID, "vobCell", cell.CellID)
	}
	merged := matches.Merge(interval.AdjacentOnly)
	p.merged[key] = merged
	return merged
}

// chapters walks the cells in order and starts a new chapter whenever the
// next program's entry cell is reached.
func chapters(programMap []byte, cellCount int) []Chapter {
	if len(programMap) == 0 || cellCount == 0 {
		return nil
	}
	out := []Chapter{{ID: 1}}
	current := 0
	for index := 0; index < cellCount; index++ {
		cellID := index + 1
		if current+1 < len(programMap) && cellID == int(programMap[current+1]) {
			current++
			out = append(out, Chapter{ID: current + 1, First: index})
		}
		out[len(out)-1].Count++
	}
	return out
}

func (p *parser) fits(offset, size int64) bool {
	return offset >= 0 && size >= 0 && offset+size <= int64(len(p.data))
}

func (p *parser) u16(offset int64) uint16 {
	return binary.BigEndian.Uint16(p.data[offset : offset+2])
}

func (p *parser) u32(offset int64) uint32 {
	return binary.BigEndian.Uint32(p.data[offset : offset+4])
}
