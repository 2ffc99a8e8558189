package ifo

import (
	"encoding/binary"

	"github.com/q191201771/naza/pkg/nazabits"
)

const (
	videoAttrOffset     = 0x0200
	audioCountOffset    = 0x0202
	audioAttrOffset     = 0x0204
	audioAttrSize       = 8
	maxAudioStreams     = 8
	subpicCountOffset   = 0x0254
	subpicAttrOffset    = 0x0256
	subpicAttrSize      = 6
	maxSubpictureStream = 32
)

type VideoAttrs struct {
	Version     string
	Standard    string
	AspectRatio string
	Width       int
	Height      int
	FrameRate   float64
	Letterboxed bool
	Film        bool
}

type AudioAttrs struct {
	Format     string
	Channels   int
	SampleRate int
	Language   string
}

type SubpictureAttrs struct {
	Language string
}

// parseVideoAttrs decodes the two-byte video_attr_t at offset.
func parseVideoAttrs(data []byte, offset int) VideoAttrs {
	if offset+2 > len(data) {
		return VideoAttrs{}
	}
	br := nazabits.NewBitReader(data[offset : offset+2])
	coding, _ := br.ReadBits8(2)
	standardCode, _ := br.ReadBits8(2)
	aspectCode, _ := br.ReadBits8(2)
	_, _ = br.ReadBits8(2) // permitted display modes
	_, _ = br.ReadBits8(2) // line 21 captions
	_, _ = br.ReadBits8(1)
	resCode, _ := br.ReadBits8(2)
	letterbox, _ := br.ReadBits8(1)
	_, _ = br.ReadBits8(1)
	film, _ := br.ReadBits8(1)

	attrs := VideoAttrs{Letterboxed: letterbox == 1, Film: film == 1}
	switch coding {
	case 0:
		attrs.Version = "MPEG-1"
	case 1:
		attrs.Version = "MPEG-2"
	}

	switch standardCode {
	case 0:
		attrs.Standard = "NTSC"
		attrs.FrameRate = 29.97
	case 1:
		attrs.Standard = "PAL"
		attrs.FrameRate = 25.0
	}

	switch aspectCode {
	case 0:
		attrs.AspectRatio = "4:3"
	case 3:
		attrs.AspectRatio = "16:9"
	}

	height := 480
	if attrs.Standard == "PAL" {
		height = 576
	}
	if attrs.Standard == "" {
		return attrs
	}
	switch resCode {
	case 0:
		attrs.Width, attrs.Height = 720, height
	case 1:
		attrs.Width, attrs.Height = 704, height
	case 2:
		attrs.Width, attrs.Height = 352, height
	case 3:
		attrs.Width, attrs.Height = 352, height/2
	}
	return attrs
}

func parseAudioAttrs(data []byte) []AudioAttrs {
	count := attrCount(data, audioCountOffset, maxAudioStreams)
	attrs := make([]AudioAttrs, 0, count)
	for i := 0; i < count; i++ {
		off := audioAttrOffset + i*audioAttrSize
		if off+audioAttrSize > len(data) {
			break
		}
		br := nazabits.NewBitReader(data[off : off+2])
		code, _ := br.ReadBits8(3)
		_, _ = br.ReadBits8(5)
		_, _ = br.ReadBits8(2) // quantization
		rateCode, _ := br.ReadBits8(2)
		_, _ = br.ReadBits8(1)
		channels, _ := br.ReadBits8(3)
		attrs = append(attrs, AudioAttrs{
			Format:     audioFormat(code),
			Channels:   int(channels) + 1,
			SampleRate: audioSampleRate(rateCode),
			Language:   languageCode(data[off+2 : off+4]),
		})
	}
	return attrs
}

func parseSubpictureAttrs(data []byte) []SubpictureAttrs {
	count := attrCount(data, subpicCountOffset, maxSubpictureStream)
	attrs := make([]SubpictureAttrs, 0, count)
	for i := 0; i < count; i++ {
		off := subpicAttrOffset + i*subpicAttrSize
		if off+subpicAttrSize > len(data) {
			break
		}
		attrs = append(attrs, SubpictureAttrs{Language: languageCode(data[off+2 : off+4])})
	}
	return attrs
}

func attrCount(data []byte, offset int, limit int) int {
	if offset+2 > len(data) {
		return 0
	}
	return min(int(binary.BigEndian.Uint16(data[offset:offset+2])), limit)
}

func audioFormat(code uint8) string {
	switch code {
	case 0:
		return "AC-3"
	case 2:
		return "MPEG-1"
	case 3:
		return "MPEG-2 Extended"
	case 4:
		return "LPCM"
	case 6:
		return "DTS"
	default:
		return ""
	}
}

func audioSampleRate(code uint8) int {
	switch code {
	case 0:
		return 48000
	case 1:
		return 96000
	default:
		return 0
	}
}
