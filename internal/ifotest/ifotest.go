// Package ifotest builds synthetic VTS IFO images and VOB sectors for tests.
package ifotest

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
)

const SectorSize = 2048

// Cell categories as stored in the high nibble of a cell playback entry.
const (
	Shared      byte = 0x00
	AngleFirst  byte = 0x50
	AngleMiddle byte = 0x90
	AngleLast   byte = 0xD0
)

type OriginalCell struct {
	VobID  int
	CellID int
	First  uint32
	Last   uint32
}

type Cell struct {
	Category byte
	VobID    int
	CellID   int
	Time     [4]byte
	// First and LastVOBUEnd fill the cell playback sector fields.
	First       uint32
	LastVOBUEnd uint32
}

type PGC struct {
	// Unused clears the entry flag of the directory slot.
	Unused   bool
	Title    int
	Time     [4]byte
	Next     int
	Previous int
	Group    int
	Programs []byte
	Cells    []Cell
	// Alias points the directory slot at the body of the PGC with this
	// 1-based index instead of writing a body of its own.
	Alias int
}

// Header holds the VTSI_MAT fields the builder writes besides the table pointers.
type Header struct {
	LastSector     uint32
	IFOLastSector  uint32
	Category       uint32
	MatEndByte     uint32
	MenuVOBSector  uint32
	TitleVOBSector uint32
}

type Audio struct {
	Attr     [2]byte
	Language string
}

type Builder struct {
	Header        Header
	Video         [2]byte
	Audio         []Audio
	Subpictures   []string
	OriginalCells []OriginalCell
	PGCs          []PGC
}

// Time encodes a BCD playback time; rate is the two-bit frame rate code.
func Time(h, m, s, f int, rate byte) [4]byte {
	bcd := func(v int) byte { return byte((v/10)<<4 | v%10) }
	return [4]byte{bcd(h), bcd(m), bcd(s), rate<<6 | bcd(f)&0x3F}
}

// Bytes lays the image out as VTSI_MAT in sector 0, VTS_PGCI from sector 1
// and VTS_C_ADT in the sector after it.
func (b Builder) Bytes() []byte {
	pgci := b.pgci()
	pgciSector := 1
	cadtSector := pgciSector + (len(pgci)+SectorSize-1)/SectorSize
	cadt := b.cadt()

	data := make([]byte, (cadtSector+1)*SectorSize+len(cadt))
	copy(data, "DVDVIDEO-VTS")
	binary.BigEndian.PutUint32(data[0x0C:], b.Header.LastSector)
	binary.BigEndian.PutUint32(data[0x1C:], b.Header.IFOLastSector)
	binary.BigEndian.PutUint16(data[0x20:], 0x0011)
	binary.BigEndian.PutUint32(data[0x22:], b.Header.Category)
	binary.BigEndian.PutUint32(data[0x80:], b.Header.MatEndByte)
	binary.BigEndian.PutUint32(data[0xC0:], b.Header.MenuVOBSector)
	binary.BigEndian.PutUint32(data[0xC4:], b.Header.TitleVOBSector)
	binary.BigEndian.PutUint32(data[0xCC:], uint32(pgciSector))
	binary.BigEndian.PutUint32(data[0xE0:], uint32(cadtSector))
	b.attributes(data)
	copy(data[pgciSector*SectorSize:], pgci)
	copy(data[cadtSector*SectorSize:], cadt)
	return data[:cadtSector*SectorSize+len(cadt)]
}

func (b Builder) attributes(data []byte) {
	copy(data[0x200:], b.Video[:])
	binary.BigEndian.PutUint16(data[0x202:], uint16(len(b.Audio)))
	for i, a := range b.Audio {
		e := data[0x204+8*i:]
		copy(e[0:2], a.Attr[:])
		copy(e[2:4], a.Language)
	}
	binary.BigEndian.PutUint16(data[0x254:], uint16(len(b.Subpictures)))
	for i, lang := range b.Subpictures {
		copy(data[0x256+6*i+2:], lang)
	}
}

func (b Builder) cadt() []byte {
	out := make([]byte, 8+12*len(b.OriginalCells))
	binary.BigEndian.PutUint16(out[0:], uint16(len(b.OriginalCells)))
	binary.BigEndian.PutUint32(out[4:], uint32(len(out)-1))
	for i, c := range b.OriginalCells {
		e := out[8+12*i:]
		binary.BigEndian.PutUint16(e[0:], uint16(c.VobID))
		e[2] = byte(c.CellID)
		binary.BigEndian.PutUint32(e[4:], c.First)
		binary.BigEndian.PutUint32(e[8:], c.Last)
	}
	return out
}

func (b Builder) pgci() []byte {
	dirSize := 8 + 8*len(b.PGCs)
	out := make([]byte, dirSize)
	binary.BigEndian.PutUint16(out[0:], uint16(len(b.PGCs)))
	offsets := make([]uint32, len(b.PGCs))
	for i, p := range b.PGCs {
		entry := out[8+8*i:]
		entry[0] = byte(p.Title & 0x7F)
		if !p.Unused {
			entry[0] |= 0x80
		}
		if p.Alias > 0 {
			offsets[i] = offsets[p.Alias-1]
		} else {
			offsets[i] = uint32(len(out))
			out = append(out, p.bytes()...)
		}
		binary.BigEndian.PutUint32(out[8+8*i+4:], offsets[i])
	}
	binary.BigEndian.PutUint32(out[4:], uint32(len(out)-1))
	return out
}

func (p PGC) bytes() []byte {
	const header = 0xEC
	programMap := header
	cellPlayback := programMap + (len(p.Programs)+1)&^1
	cellPosition := cellPlayback + 24*len(p.Cells)
	out := make([]byte, cellPosition+4*len(p.Cells))

	out[2] = byte(len(p.Programs))
	out[3] = byte(len(p.Cells))
	copy(out[4:8], p.Time[:])
	binary.BigEndian.PutUint16(out[0x9C:], uint16(p.Next))
	binary.BigEndian.PutUint16(out[0x9E:], uint16(p.Previous))
	binary.BigEndian.PutUint16(out[0xA0:], uint16(p.Group))
	for i := 0; i < 16; i++ {
		copy(out[0xA4+4*i:], []byte{0, byte(i), 0x80, 0x80})
	}
	binary.BigEndian.PutUint16(out[0xE6:], uint16(programMap))
	binary.BigEndian.PutUint16(out[0xE8:], uint16(cellPlayback))
	binary.BigEndian.PutUint16(out[0xEA:], uint16(cellPosition))
	copy(out[programMap:], p.Programs)
	for i, c := range p.Cells {
		pb := out[cellPlayback+24*i:]
		pb[0] = c.Category
		copy(pb[4:8], c.Time[:])
		binary.BigEndian.PutUint32(pb[0x08:], c.First)
		binary.BigEndian.PutUint32(pb[0x14:], c.LastVOBUEnd)
		pos := out[cellPosition+4*i:]
		binary.BigEndian.PutUint16(pos[0:], uint16(c.VobID))
		pos[3] = byte(c.CellID)
	}
	return out
}

// NavPack returns a navigation pack sector whose DSI names vob and cell.
func NavPack(vob, cell int) []byte {
	s := DataPack()
	binary.BigEndian.PutUint32(s[0x0E:], 0x000001BB)
	binary.BigEndian.PutUint32(s[0x400:], 0x000001BF)
	s[0x406] = 0x01
	binary.BigEndian.PutUint16(s[0x41F:], uint16(vob))
	s[0x422] = byte(cell)
	return s
}

// DataPack returns a pack sector carrying a video PES packet.
func DataPack() []byte {
	s := make([]byte, SectorSize)
	binary.BigEndian.PutUint32(s[0:], 0x000001BA)
	binary.BigEndian.PutUint32(s[0x0E:], 0x000001E0)
	return s
}

// Tagged is DataPack with a marker at the end of the sector so tests can
// tell sectors apart in demuxed output.
func Tagged(tag uint32) []byte {
	s := DataPack()
	binary.BigEndian.PutUint32(s[SectorSize-4:], tag)
	return s
}

func WriteSectors(path string, sectors [][]byte) error {
	data := make([]byte, 0, len(sectors)*SectorSize)
	for _, s := range sectors {
		data = append(data, s...)
	}
	return os.WriteFile(path, data, 0o600)
}

// WriteTitleSet writes VTS_01_0.IFO built from b plus one VTS_01_n.VOB per
// entry of vobs into dir and returns the IFO path.
func WriteTitleSet(dir string, b Builder, vobs ...[][]byte) (string, error) {
	ifoPath := filepath.Join(dir, "VTS_01_0.IFO")
	if err := os.WriteFile(ifoPath, b.Bytes(), 0o600); err != nil {
		return "", err
	}
	for i, sectors := range vobs {
		name := filepath.Join(dir, fmt.Sprintf("VTS_01_%d.VOB", i+1))
		if err := WriteSectors(name, sectors); err != nil {
			return "", err
		}
	}
	return ifoPath, nil
}
