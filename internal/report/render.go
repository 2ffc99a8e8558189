package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/autobrr/go-vtsdemux/internal/ifo"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var ErrFormat = errors.New("unknown output format")

// Render writes s in the named format. Format names are case-insensitive.
func Render(format string, s Summary) (string, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return RenderText(s), nil
	case FormatJSON:
		return RenderJSON(s)
	case FormatYAML, "yml":
		return RenderYAML(s)
	default:
		return "", fmt.Errorf("%w: %q", ErrFormat, format)
	}
}

func RenderText(s Summary) string {
	var buf bytes.Buffer
	writeSection(&buf, "Title set", []field{
		{"File", s.File},
		{"Specification version", s.Version},
		{"Addressed cells", strconv.Itoa(s.Cells)},
		{"Program chains", strconv.Itoa(len(s.PGCs))},
	})
	if video := videoFields(s.Video); len(video) > 0 {
		buf.WriteString("\n")
		writeSection(&buf, "Video", video)
	}
	for i, a := range s.Audio {
		buf.WriteString("\n")
		writeSection(&buf, numbered("Audio", i+1, len(s.Audio)), audioFields(a))
	}
	for i, lang := range s.Subpictures {
		buf.WriteString("\n")
		writeSection(&buf, numbered("Subpicture", i+1, len(s.Subpictures)), []field{{"Language", languageLabel(lang)}})
	}
	for _, pgc := range s.PGCs {
		buf.WriteString("\n")
		writeSection(&buf, fmt.Sprintf("PGC #%d", pgc.Number), pgcFields(pgc))
	}
	if s.Demux != nil {
		buf.WriteString("\n")
		buf.WriteString(RenderDemuxText(*s.Demux))
	}
	buf.WriteString("\n")
	buf.WriteString(reportByLine())
	buf.WriteString("\n")
	return buf.String()
}

// RenderDemuxText lists what a demux run wrote and which sectors it left out.
func RenderDemuxText(d DemuxSummary) string {
	var buf bytes.Buffer
	fields := []field{
		{"PGC", strconv.Itoa(d.PGC)},
		{"Angle", strconv.Itoa(d.Angle)},
		{"Sectors read", strconv.FormatInt(d.SectorsRead, 10)},
		{"Sectors written", strconv.FormatInt(d.SectorsWritten, 10)},
	}
	if len(d.SkippedCells) > 0 {
		ids := make([]string, 0, len(d.SkippedCells))
		for _, id := range d.SkippedCells {
			ids = append(ids, strconv.Itoa(id))
		}
		fields = append(fields, field{"Cells of other angles", strings.Join(ids, ", ")})
	}
	for _, r := range d.Skipped {
		fields = append(fields, field{
			fmt.Sprintf("Skipped in cell %d", r.Cell),
			fmt.Sprintf("%s (%d sectors)", r.Sectors, r.Count),
		})
	}
	writeSection(&buf, "Demux", fields)
	return buf.String()
}

func RenderJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}

func RenderYAML(v any) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type field struct {
	name  string
	value string
}

func writeSection(buf *bytes.Buffer, title string, fields []field) {
	buf.WriteString(title)
	buf.WriteString("\n")
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		buf.WriteString(padRight(f.name, 32))
		buf.WriteString(": ")
		buf.WriteString(f.value)
		buf.WriteString("\n")
	}
}

func padRight(value string, width int) string {
	if len(value) >= width {
		return value
	}
	return value + strings.Repeat(" ", width-len(value))
}

func numbered(kind string, index, total int) string {
	if total <= 1 {
		return kind
	}
	return fmt.Sprintf("%s #%d", kind, index)
}

func reportByLine() string {
	return fmt.Sprintf("ReportBy : %s - %s", AppName, FormatVersion(AppVersion))
}

func videoFields(v Video) []field {
	var fields []field
	if v.Codec != "" {
		fields = append(fields, field{"Format", v.Codec})
	}
	if v.Standard != "" {
		fields = append(fields, field{"Standard", v.Standard})
	}
	if v.Width > 0 && v.Height > 0 {
		fields = append(fields, field{"Size", fmt.Sprintf("%dx%d", v.Width, v.Height)})
	}
	if v.AspectRatio != "" {
		fields = append(fields, field{"Display aspect ratio", v.AspectRatio})
	}
	if v.FrameRate > 0 {
		fields = append(fields, field{"Frame rate", strconv.FormatFloat(v.FrameRate, 'f', 3, 64) + " FPS"})
	}
	return fields
}

func audioFields(a Audio) []field {
	fields := []field{
		{"Format", a.Format},
		{"Channel(s)", strconv.Itoa(a.Channels)},
	}
	if a.SampleRate > 0 {
		fields = append(fields, field{"Sampling rate", strconv.Itoa(a.SampleRate) + " Hz"})
	}
	return append(fields, field{"Language", languageLabel(a.Language)})
}

func pgcFields(pgc ProgramChain) []field {
	fields := []field{
		{"Title", strconv.Itoa(pgc.Title)},
		{"Duration", pgc.Duration},
		{"Angles", strconv.Itoa(max(pgc.Angles, 1))},
		{"Sectors", fmt.Sprintf("%s (%d sectors)", pgc.Sectors, pgc.Size)},
	}
	for _, link := range []struct {
		name string
		id   int
	}{{"Next PGC", pgc.Next}, {"Previous PGC", pgc.Previous}, {"Group PGC", pgc.Group}} {
		if link.id > 0 {
			fields = append(fields, field{link.name, strconv.Itoa(link.id)})
		}
	}
	for _, ch := range pgc.Chapters {
		cells := strconv.Itoa(ch.FirstCell)
		if ch.LastCell > ch.FirstCell {
			cells = fmt.Sprintf("%d-%d", ch.FirstCell, ch.LastCell)
		}
		fields = append(fields, field{fmt.Sprintf("Chapter %d", ch.Number), "cells " + cells})
	}
	for _, cell := range pgc.Cells {
		fields = append(fields, field{fmt.Sprintf("Cell %d", cell.ID), cellLine(cell)})
	}
	return fields
}

func cellLine(c Cell) string {
	angle := "shared"
	if c.Angle > 0 {
		angle = "angle " + strconv.Itoa(c.Angle)
	}
	sectors := c.Sectors
	if sectors == "" {
		sectors = "unaddressed"
	}
	return fmt.Sprintf("%s, VOB %d cell %d, %s, %s", angle, c.VobID, c.CellID, c.Duration, sectors)
}

func languageLabel(code string) string {
	if code == "" {
		return ""
	}
	return ifo.LanguageName(code)
}
