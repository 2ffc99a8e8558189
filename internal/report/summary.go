// Package report turns parsed title sets and demux results into text, JSON
// and YAML documents.
package report

import (
	"fmt"

	"github.com/autobrr/go-vtsdemux/internal/demux"
	"github.com/autobrr/go-vtsdemux/internal/ifo"
)

const (
	AppName = "go-vtsdemux"
	AppURL  = "https://github.com/autobrr/go-vtsdemux"
)

var AppVersion = "dev"

func SetAppVersion(version string) {
	if version != "" {
		AppVersion = version
	}
}

// FormatVersion prefixes release versions with "v" and leaves "dev" alone.
func FormatVersion(version string) string {
	if version == "" || version == "dev" {
		return "dev"
	}
	if version[0] == 'v' {
		return version
	}
	return "v" + version
}

type Summary struct {
	File        string         `json:"file" yaml:"file"`
	Version     string         `json:"version" yaml:"version"`
	Video       Video          `json:"video" yaml:"video"`
	Audio       []Audio        `json:"audio,omitempty" yaml:"audio,omitempty"`
	Subpictures []string       `json:"subpictures,omitempty" yaml:"subpictures,omitempty"`
	Cells       int            `json:"addressedCells" yaml:"addressedCells"`
	PGCs        []ProgramChain `json:"pgcs" yaml:"pgcs"`
	Demux       *DemuxSummary  `json:"demux,omitempty" yaml:"demux,omitempty"`
}

type Video struct {
	Standard    string  `json:"standard,omitempty" yaml:"standard,omitempty"`
	Codec       string  `json:"codec,omitempty" yaml:"codec,omitempty"`
	AspectRatio string  `json:"aspectRatio,omitempty" yaml:"aspectRatio,omitempty"`
	Width       int     `json:"width,omitempty" yaml:"width,omitempty"`
	Height      int     `json:"height,omitempty" yaml:"height,omitempty"`
	FrameRate   float64 `json:"frameRate,omitempty" yaml:"frameRate,omitempty"`
}

type Audio struct {
	Format     string `json:"format" yaml:"format"`
	Channels   int    `json:"channels" yaml:"channels"`
	SampleRate int    `json:"sampleRate,omitempty" yaml:"sampleRate,omitempty"`
	Language   string `json:"language,omitempty" yaml:"language,omitempty"`
}

type ProgramChain struct {
	Number   int       `json:"number" yaml:"number"`
	Title    int       `json:"title" yaml:"title"`
	Duration string    `json:"duration" yaml:"duration"`
	Seconds  int       `json:"seconds" yaml:"seconds"`
	Next     int       `json:"next,omitempty" yaml:"next,omitempty"`
	Previous int       `json:"previous,omitempty" yaml:"previous,omitempty"`
	Group    int       `json:"group,omitempty" yaml:"group,omitempty"`
	Angles   int       `json:"angles" yaml:"angles"`
	Sectors  string    `json:"sectors" yaml:"sectors"`
	Size     int64     `json:"sectorCount" yaml:"sectorCount"`
	Chapters []Chapter `json:"chapters" yaml:"chapters"`
	Cells    []Cell    `json:"cells" yaml:"cells"`
}

type Chapter struct {
	Number    int `json:"number" yaml:"number"`
	FirstCell int `json:"firstCell" yaml:"firstCell"`
	LastCell  int `json:"lastCell" yaml:"lastCell"`
}

type Cell struct {
	ID       int    `json:"id" yaml:"id"`
	Angle    int    `json:"angle" yaml:"angle"`
	VobID    int    `json:"vobId" yaml:"vobId"`
	CellID   int    `json:"cellId" yaml:"cellId"`
	Duration string `json:"duration" yaml:"duration"`
	Sectors  string `json:"sectors" yaml:"sectors"`
	Size     int64  `json:"sectorCount" yaml:"sectorCount"`
}

type DemuxSummary struct {
	PGC            int            `json:"pgc" yaml:"pgc"`
	Angle          int            `json:"angle" yaml:"angle"`
	SectorsRead    int64          `json:"sectorsRead" yaml:"sectorsRead"`
	SectorsWritten int64          `json:"sectorsWritten" yaml:"sectorsWritten"`
	SkippedCells   []int          `json:"skippedCells,omitempty" yaml:"skippedCells,omitempty"`
	Skipped        []SkippedRange `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

type SkippedRange struct {
	Cell    int    `json:"cell" yaml:"cell"`
	Sectors string `json:"sectors" yaml:"sectors"`
	Count   int64  `json:"count" yaml:"count"`
}

// Build summarizes a parsed title set. file is only echoed into the document.
func Build(file string, ts *ifo.TitleSet) Summary {
	s := Summary{
		File:    file,
		Version: formatIFOVersion(ts.Header.Version),
		Video: Video{
			Standard:    ts.Video.Standard,
			Codec:       ts.Video.Version,
			AspectRatio: ts.Video.AspectRatio,
			Width:       ts.Video.Width,
			Height:      ts.Video.Height,
			FrameRate:   ts.Video.FrameRate,
		},
		Cells: len(ts.OriginalCells),
		PGCs:  make([]ProgramChain, 0, len(ts.PGCs)),
	}
	for _, a := range ts.Audio {
		s.Audio = append(s.Audio, Audio{
			Format:     a.Format,
			Channels:   a.Channels,
			SampleRate: a.SampleRate,
			Language:   a.Language,
		})
	}
	for _, sp := range ts.Subpictures {
		s.Subpictures = append(s.Subpictures, sp.Language)
	}
	for i := range ts.PGCs {
		s.PGCs = append(s.PGCs, buildProgramChain(i+1, &ts.PGCs[i]))
	}
	return s
}

func buildProgramChain(number int, pgc *ifo.Pgc) ProgramChain {
	out := ProgramChain{
		Number:   number,
		Title:    pgc.ID,
		Duration: pgc.Duration.String(),
		Seconds:  pgc.Duration.TotalSeconds(),
		Next:     pgc.Next,
		Previous: pgc.Previous,
		Group:    pgc.Group,
		Angles:   pgc.Angles(),
		Sectors:  pgc.Sectors.String(),
		Size:     pgc.Sectors.Count(),
		Chapters: make([]Chapter, 0, len(pgc.Chapters)),
		Cells:    make([]Cell, 0, len(pgc.Cells)),
	}
	for _, ch := range pgc.Chapters {
		out.Chapters = append(out.Chapters, Chapter{
			Number:    ch.ID,
			FirstCell: ch.First + 1,
			LastCell:  ch.First + ch.Count,
		})
	}
	for _, cell := range pgc.Cells {
		out.Cells = append(out.Cells, Cell{
			ID:       cell.ID,
			Angle:    cell.AngleID,
			VobID:    cell.VobID,
			CellID:   cell.CellID,
			Duration: cell.Duration.String(),
			Sectors:  cell.Sectors.String(),
			Size:     cell.Sectors.Count(),
		})
	}
	return out
}

// BuildDemux summarizes one demux run of program chain pgc.
func BuildDemux(pgc, angle int, res demux.Result) DemuxSummary {
	out := DemuxSummary{
		PGC:            pgc,
		Angle:          angle,
		SectorsRead:    res.SectorsRead,
		SectorsWritten: res.SectorsWritten,
		SkippedCells:   res.SkippedCells,
	}
	for _, r := range res.Skipped {
		out.Skipped = append(out.Skipped, SkippedRange{
			Cell:    r.Cell,
			Sectors: r.Sectors.String(),
			Count:   r.Sectors.Count,
		})
	}
	return out
}

func formatIFOVersion(v uint16) string {
	major, minor := (v>>4)&0x0F, v&0x0F
	return fmt.Sprintf("%d.%d", major, minor)
}
