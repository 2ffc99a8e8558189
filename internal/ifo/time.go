package ifo

import (
	"fmt"
	"time"

	"github.com/q191201771/naza/pkg/nazabits"
)

// Frame rate codes of the two top bits of the frame byte.
const (
	rate25 = 1
	rate30 = 3
)

// PlaybackTime is a dvd_time_t: BCD hours, minutes, seconds and frames, with
// the frame rate packed into the top two bits of the frame byte.
type PlaybackTime struct {
	Hours    int
	Minutes  int
	Seconds  int
	Frames   int
	RateCode uint8
}

// DecodePlaybackTime reads the 32-bit BCD playback time at the start of b.
func DecodePlaybackTime(b []byte) (PlaybackTime, error) {
	if len(b) < 4 {
		return PlaybackTime{}, ErrShortField
	}
	br := nazabits.NewBitReader(b[:4])
	var t PlaybackTime
	var err error
	if t.Hours, err = readBCD(&br, 4); err != nil {
		return PlaybackTime{}, err
	}
	if t.Minutes, err = readBCD(&br, 4); err != nil {
		return PlaybackTime{}, err
	}
	if t.Seconds, err = readBCD(&br, 4); err != nil {
		return PlaybackTime{}, err
	}
	if t.RateCode, err = br.ReadBits8(2); err != nil {
		return PlaybackTime{}, err
	}
	if t.Frames, err = readBCD(&br, 2); err != nil {
		return PlaybackTime{}, err
	}
	return t, nil
}

// readBCD reads a tens digit of tensBits width followed by a 4-bit ones digit.
// Nibbles above 9 are not rejected.
func readBCD(br *nazabits.BitReader, tensBits uint) (int, error) {
	tens, err := br.ReadBits8(tensBits)
	if err != nil {
		return 0, err
	}
	ones, err := br.ReadBits8(4)
	if err != nil {
		return 0, err
	}
	return int(tens)*10 + int(ones), nil
}

func (t PlaybackTime) TotalSeconds() int {
	return t.Hours*3600 + t.Minutes*60 + t.Seconds
}

// FPS returns 25 or 30, or 0 for the reserved codes.
func (t PlaybackTime) FPS() int {
	switch t.RateCode {
	case rate25:
		return 25
	case rate30:
		return 30
	default:
		return 0
	}
}

// Ticks is the time in 90 kHz units, frames included when the rate is valid.
func (t PlaybackTime) Ticks() int64 {
	ticks := int64(t.TotalSeconds()) * 90000
	switch t.RateCode {
	case rate25:
		ticks += int64(t.Frames) * 3600
	case rate30:
		ticks += int64(t.Frames) * 3000
	}
	return ticks
}

func (t PlaybackTime) Duration() time.Duration {
	return time.Duration(t.Ticks()) * time.Second / 90000
}

func (t PlaybackTime) String() string {
	clock := fmt.Sprintf("%02d:%02d:%02d.%02d", t.Hours, t.Minutes, t.Seconds, t.Frames)
	if fps := t.FPS(); fps > 0 {
		return fmt.Sprintf("%s @%d fps", clock, fps)
	}
	return fmt.Sprintf("%s (invalid frame rate %d)", clock, t.RateCode)
}
