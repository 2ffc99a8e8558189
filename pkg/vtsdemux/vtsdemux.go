package vtsdemux

import (
	"io"

	"github.com/autobrr/go-vtsdemux/internal/demux"
	"github.com/autobrr/go-vtsdemux/internal/ifo"
	"github.com/autobrr/go-vtsdemux/internal/interval"
	"github.com/autobrr/go-vtsdemux/internal/report"
	"github.com/autobrr/go-vtsdemux/internal/sectorfile"
)

// Types
type Interval = interval.Interval
type IntervalList = interval.List
type TitleSet = ifo.TitleSet
type Pgc = ifo.Pgc
type Cell = ifo.Cell
type Chapter = ifo.Chapter
type PlaybackTime = ifo.PlaybackTime
type TableError = ifo.TableError
type SectorSet = sectorfile.Set
type Result = demux.Result
type SkippedRange = demux.SkippedRange
type Summary = report.Summary
type DemuxSummary = report.DemuxSummary

// Constants
const (
	SectorSize = ifo.SectorSize

	FormatText = report.FormatText
	FormatJSON = report.FormatJSON
	FormatYAML = report.FormatYAML
)

// Errors
var (
	ErrSignature = ifo.ErrSignature
	ErrPGCRange  = demux.ErrPGCRange
	ErrAngle     = demux.ErrAngle
	ErrPackStart = demux.ErrPackStart
)

// Functions
func ParseFile(path string) (*TitleSet, error) {
	return ifo.ParseFile(path)
}

func Parse(data []byte) (*TitleSet, error) {
	return ifo.Parse(data)
}

func OpenTitleSet(ifoPath string) (*SectorSet, error) {
	return sectorfile.OpenTitleSet(ifoPath)
}

func Demux(ts *TitleSet, src *SectorSet, pgcNumber, angle int, w io.Writer) (Result, error) {
	return demux.New(ts, src).Demux(pgcNumber, angle, w)
}

func DemuxFile(ifoPath, outPath string, pgcNumber, angle int) (Result, error) {
	return demux.DemuxFile(ifoPath, outPath, pgcNumber, angle)
}

// Rendering
func Summarize(file string, ts *TitleSet) Summary {
	return report.Build(file, ts)
}

func Render(format string, s Summary) (string, error) {
	return report.Render(format, s)
}

func RenderText(s Summary) string {
	return report.RenderText(s)
}

func FormatVersion(version string) string {
	return report.FormatVersion(version)
}
