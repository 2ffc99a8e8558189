package ifo

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDecodePlaybackTime(t *testing.T) {
	cases := []struct {
		raw     []byte
		seconds int
		display string
	}{
		{[]byte{0x01, 0x23, 0x45, 0xC7}, 5025, "01:23:45.07 @30 fps"},
		{[]byte{0x00, 0x00, 0x10, 0x62}, 10, "00:00:10.22 @25 fps"},
		{[]byte{0x02, 0x00, 0x00, 0x05}, 7200, "02:00:00.05 (invalid frame rate 0)"},
		{[]byte{0x00, 0x59, 0x59, 0x81}, 3599, "00:59:59.01 (invalid frame rate 2)"},
	}
	for _, tc := range cases {
		got, err := DecodePlaybackTime(tc.raw)
		if err != nil {
			t.Fatalf("DecodePlaybackTime(% X): %v", tc.raw, err)
		}
		if got.TotalSeconds() != tc.seconds {
			t.Fatalf("TotalSeconds(% X) = %d, want %d", tc.raw, got.TotalSeconds(), tc.seconds)
		}
		if got.String() != tc.display {
			t.Fatalf("String(% X) = %q, want %q", tc.raw, got.String(), tc.display)
		}
	}
}

func TestPlaybackTimeSuffixes(t *testing.T) {
	pt, _ := DecodePlaybackTime([]byte{0x01, 0x23, 0x45, 0xC0})
	if !strings.HasSuffix(pt.String(), "@30 fps") {
		t.Fatalf("String = %q", pt.String())
	}
	for _, raw := range []byte{0x00, 0x80} {
		pt, _ := DecodePlaybackTime([]byte{0, 0, 0, raw})
		if !strings.Contains(pt.String(), "(invalid frame rate") {
			t.Fatalf("rate byte 0x%02X String = %q", raw, pt.String())
		}
		if pt.FPS() != 0 {
			t.Fatalf("rate byte 0x%02X FPS = %d", raw, pt.FPS())
		}
	}
}

func TestPlaybackTimeDuration(t *testing.T) {
	pt, _ := DecodePlaybackTime([]byte{0x00, 0x00, 0x01, 0x50})
	if pt.Duration() != 1400*time.Millisecond {
		t.Fatalf("Duration = %v, want 1.4s", pt.Duration())
	}
	pt, _ = DecodePlaybackTime([]byte{0x00, 0x00, 0x01, 0xD5})
	if pt.Duration() != 1500*time.Millisecond {
		t.Fatalf("Duration = %v, want 1.5s", pt.Duration())
	}
}

func TestDecodePlaybackTimeShort(t *testing.T) {
	if _, err := DecodePlaybackTime([]byte{1, 2, 3}); !errors.Is(err, ErrShortField) {
		t.Fatalf("err = %v, want ErrShortField", err)
	}
}
