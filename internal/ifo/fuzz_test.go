package ifo

import (
	"testing"

	"github.com/autobrr/go-vtsdemux/internal/ifotest"
)

const fuzzParserMaxBytes = 64 << 10 // 64 KiB

func fuzzLimit(data []byte) []byte {
	if len(data) > fuzzParserMaxBytes {
		return data[:fuzzParserMaxBytes]
	}
	return data
}

func FuzzParse(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte("DVDVIDEO-VTS"))
	f.Add(twoAngleTitle().Bytes())
	f.Add(ifotest.Builder{}.Bytes())

	f.Fuzz(func(t *testing.T, data []byte) {
		data = fuzzLimit(data)
		ts, err := Parse(data)
		if err != nil {
			return
		}
		for i := range ts.PGCs {
			pgc := &ts.PGCs[i]
			for _, ch := range pgc.Chapters {
				_ = pgc.ChapterCells(ch)
			}
		}
	})
}

func FuzzDecodePlaybackTime(f *testing.F) {
	f.Add([]byte{0x01, 0x23, 0x45, 0xC7})
	f.Add([]byte{0xFF, 0xFF, 0xFF, 0xFF})

	f.Fuzz(func(t *testing.T, data []byte) {
		pt, err := DecodePlaybackTime(data)
		if err != nil {
			return
		}
		_ = pt.String()
		if pt.TotalSeconds() < 0 {
			t.Fatalf("negative seconds for % X", data[:4])
		}
	})
}
