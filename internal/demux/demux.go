// Package demux extracts the sectors of one program chain and angle from a
// title set's VOB files, following navigation packs to drop sectors that
// belong to other angles.
package demux

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-logr/logr"

	"github.com/autobrr/go-vtsdemux/internal/ifo"
	"github.com/autobrr/go-vtsdemux/internal/interval"
)

const SectorSize = 2048

const (
	packStartCode    = 0x000001BA
	systemHeaderCode = 0x000001BB
	privateStream2   = 0x000001BF

	systemHeaderOffset = 0x000E
	dsiPacketOffset    = 0x0400
	dsiSubstreamOffset = 0x0406
	dsiSubstreamID     = 0x01
	dsiVobIDOffset     = 0x041F
	dsiCellIDOffset    = 0x0422
)

var (
	ErrPGCRange  = errors.New("program chain out of range")
	ErrAngle     = errors.New("angle must be 1 or greater")
	ErrPackStart = errors.New("sector does not start with an MPEG-2 pack header")
)

// SectorReader reads one 2048-byte logical sector into buf.
type SectorReader interface {
	ReadSector(sector int64, buf []byte) error
}

// SkippedRange is a contiguous run of sectors inside a cell's span that the
// navigation packs attributed to another cell.
type SkippedRange struct {
	Cell    int
	Sectors interval.Interval
}

type Result struct {
	SectorsRead    int64
	SectorsWritten int64
	// SkippedCells lists cells left out because they belong to another angle.
	SkippedCells []int
	Skipped      []SkippedRange
}

type Demuxer struct {
	ts  *ifo.TitleSet
	src SectorReader
	log logr.Logger
}

type Option func(*Demuxer)

func WithLogger(log logr.Logger) Option {
	return func(d *Demuxer) {
		d.log = log
	}
}

func New(ts *ifo.TitleSet, src SectorReader, opts ...Option) *Demuxer {
	d := &Demuxer{ts: ts, src: src, log: logr.Discard()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Demux writes the sectors of program chain pgcNumber (1-based index into the
// parsed list) for the given angle to w. On error, whatever was already
// written is incomplete.
func (d *Demuxer) Demux(pgcNumber, angle int, w io.Writer) (Result, error) {
	var res Result
	if err := d.check(pgcNumber, angle); err != nil {
		return res, err
	}

	pgc := &d.ts.PGCs[pgcNumber-1]
	log := d.log.WithValues("pgc", pgcNumber, "angle", angle)
	buf := make([]byte, SectorSize)
	for i := range pgc.Cells {
		cell := &pgc.Cells[i]
		if cell.AngleID != 0 && cell.AngleID != angle {
			log.V(1).Info("skipping cell of another angle", "cell", cell.ID, "cellAngle", cell.AngleID)
			res.SkippedCells = append(res.SkippedCells, cell.ID)
			continue
		}
		if err := d.cell(cell, buf, w, &res, log); err != nil {
			return res, err
		}
	}
	log.Info("demux finished", "written", res.SectorsWritten, "read", res.SectorsRead, "skippedRanges", len(res.Skipped))
	return res, nil
}

func (d *Demuxer) check(pgcNumber, angle int) error {
	if pgcNumber < 1 || pgcNumber > len(d.ts.PGCs) {
		return fmt.Errorf("%w: %d, title set has %d", ErrPGCRange, pgcNumber, len(d.ts.PGCs))
	}
	if angle < 1 {
		return fmt.Errorf("%w: %d", ErrAngle, angle)
	}
	return nil
}

func (d *Demuxer) cell(cell *ifo.Cell, buf []byte, w io.Writer, res *Result, log logr.Logger) error {
	include := true
	for _, span := range cell.Sectors {
		if span.IsEmpty() {
			continue
		}
		skipping := false
		var skipStart int64
		last := span.Last()
		for sector := span.First; sector <= last; sector++ {
			if err := d.src.ReadSector(sector, buf); err != nil {
				return fmt.Errorf("cell %d: %w", cell.ID, err)
			}
			res.SectorsRead++
			if code := binary.BigEndian.Uint32(buf[0:4]); code != packStartCode {
				return fmt.Errorf("%w: sector %d of cell %d starts with 0x%08X", ErrPackStart, sector, cell.ID, code)
			}
			if vob, vobCell, ok := navPack(buf); ok {
				include = vob == cell.VobID && vobCell == cell.CellID
			}
			if !include {
				if !skipping {
					skipping = true
					skipStart = sector
				}
				continue
			}
			if skipping {
				d.skipped(res, log, cell.ID, skipStart, sector-1)
				skipping = false
			}
			n, err := w.Write(buf)
			if err == nil && n != SectorSize {
				err = io.ErrShortWrite
			}
			if err != nil {
				return fmt.Errorf("write sector %d: %w", sector, err)
			}
			res.SectorsWritten++
		}
		if skipping {
			d.skipped(res, log, cell.ID, skipStart, last)
		}
	}
	return nil
}

func (d *Demuxer) skipped(res *Result, log logr.Logger, cell int, first, last int64) {
	span := interval.Must(first, last)
	res.Skipped = append(res.Skipped, SkippedRange{Cell: cell, Sectors: span})
	log.Info("skipped sectors of another cell", "cell", cell, "sectors", span.String(), "count", span.Count)
}

// navPack reports the VOB and cell ids carried by the DSI packet when the
// sector is a navigation pack.
func navPack(sector []byte) (int, int, bool) {
	if len(sector) < SectorSize {
		return 0, 0, false
	}
	if binary.BigEndian.Uint32(sector[systemHeaderOffset:]) != systemHeaderCode {
		return 0, 0, false
	}
	if binary.BigEndian.Uint32(sector[dsiPacketOffset:]) != privateStream2 || sector[dsiSubstreamOffset] != dsiSubstreamID {
		return 0, 0, false
	}
	vob := int(binary.BigEndian.Uint16(sector[dsiVobIDOffset:]))
	cell := int(sector[dsiCellIDOffset])
	return vob, cell, true
}
