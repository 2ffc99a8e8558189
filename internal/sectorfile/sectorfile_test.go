package sectorfile

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-logr/logr/funcr"
)

// writeSectors writes count sectors whose first 8 bytes hold the logical
// sector number starting at first, plus trailing bytes that do not fill a sector.
func writeSectors(t *testing.T, path string, first int64, count int, trailing int) {
	t.Helper()
	data := make([]byte, count*SectorSize+trailing)
	for i := 0; i < count; i++ {
		binary.BigEndian.PutUint64(data[i*SectorSize:], uint64(first+int64(i)))
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write file %s: %v", path, err)
	}
}

func TestDiscoverStopsAtFirstGap(t *testing.T) {
	dir := t.TempDir()
	ifo := filepath.Join(dir, "VTS_01_0.IFO")
	writeSectors(t, ifo, 0, 1, 0)
	writeSectors(t, filepath.Join(dir, "VTS_01_1.VOB"), 0, 1, 0)
	writeSectors(t, filepath.Join(dir, "VTS_01_2.VOB"), 0, 1, 0)
	writeSectors(t, filepath.Join(dir, "VTS_01_4.VOB"), 0, 1, 0)

	paths, err := Discover(ifo)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("Discover found %d files, want 2: %v", len(paths), paths)
	}
	if filepath.Base(paths[1]) != "VTS_01_2.VOB" {
		t.Fatalf("paths[1] = %q", paths[1])
	}
}

func TestDiscoverFollowsLowercaseExtension(t *testing.T) {
	dir := t.TempDir()
	ifo := filepath.Join(dir, "vts_02_0.ifo")
	writeSectors(t, filepath.Join(dir, "vts_02_1.vob"), 0, 1, 0)

	paths, err := Discover(ifo)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(paths) != 1 || filepath.Base(paths[0]) != "vts_02_1.vob" {
		t.Fatalf("Discover = %v", paths)
	}
}

func TestDiscoverRejectsNonTitleSetName(t *testing.T) {
	if _, err := Discover(filepath.Join(t.TempDir(), "VIDEO_TS.IFO")); err == nil {
		t.Fatalf("Discover accepted VIDEO_TS.IFO")
	}
}

func TestOpenAssignsSequentialSectors(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.vob")
	b := filepath.Join(dir, "b.vob")
	writeSectors(t, a, 0, 3, 100)
	writeSectors(t, b, 3, 2, 0)

	set, err := Open([]string{a, b})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer set.Close()

	files := set.Files()
	if files[0].LastSector() != 2 || files[1].FirstSector != 3 || files[1].LastSector() != 4 {
		t.Fatalf("files = %+v", files)
	}
	if set.TotalSectors() != 5 {
		t.Fatalf("TotalSectors = %d, want 5", set.TotalSectors())
	}

	index, offset, err := set.Resolve(4)
	if err != nil || index != 1 || offset != SectorSize {
		t.Fatalf("Resolve(4) = %d, %d, %v", index, offset, err)
	}
	if _, _, err := set.Resolve(5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Resolve(5) err = %v, want ErrNotFound", err)
	}
	if _, _, err := set.Resolve(-1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Resolve(-1) err = %v, want ErrNotFound", err)
	}
}

func TestReadSectorAcrossFilesAndBackwards(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.vob")
	b := filepath.Join(dir, "b.vob")
	writeSectors(t, a, 0, 3, 0)
	writeSectors(t, b, 3, 3, 0)

	set, err := Open([]string{a, b})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer set.Close()

	buf := make([]byte, SectorSize)
	for _, sector := range []int64{0, 1, 2, 3, 4, 1, 5, 5} {
		if err := set.ReadSector(sector, buf); err != nil {
			t.Fatalf("ReadSector(%d): %v", sector, err)
		}
		if got := int64(binary.BigEndian.Uint64(buf)); got != sector {
			t.Fatalf("ReadSector(%d) returned sector %d", sector, got)
		}
	}
	if err := set.ReadSector(6, buf); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ReadSector(6) err = %v, want ErrNotFound", err)
	}
	if err := set.ReadSector(0, make([]byte, 16)); err == nil {
		t.Fatalf("ReadSector accepted short buffer")
	}
}

func TestOpenTitleSetWithoutVOBs(t *testing.T) {
	ifo := filepath.Join(t.TempDir(), "VTS_01_0.IFO")
	if _, err := OpenTitleSet(ifo); !errors.Is(err, ErrNoVOB) {
		t.Fatalf("OpenTitleSet err = %v, want ErrNoVOB", err)
	}
}

func TestReadSectorCursorReuse(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.vob")
	b := filepath.Join(dir, "b.vob")
	writeSectors(t, a, 0, 3, 0)
	writeSectors(t, b, 3, 3, 0)

	opens := 0
	log := funcr.New(func(_, args string) {
		if strings.Contains(args, "opened sector file") {
			opens++
		}
	}, funcr.Options{Verbosity: 1})
	set, err := Open([]string{a, b}, WithLogger(log))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer set.Close()

	steps := []struct {
		sector    int64
		opens     int
		sameFile  bool
		wantIndex int
	}{
		{0, 1, false, 0},
		{1, 1, true, 0},
		{2, 1, true, 0},
		{3, 2, false, 1},
		{4, 2, true, 1},
		{5, 2, true, 1},
		{1, 3, false, 0},
		{2, 3, true, 0},
		{0, 3, true, 0},
		{5, 4, false, 1},
	}
	buf := make([]byte, SectorSize)
	for i, step := range steps {
		before := set.cur.file
		if err := set.ReadSector(step.sector, buf); err != nil {
			t.Fatalf("step %d: ReadSector(%d): %v", i, step.sector, err)
		}
		if got := int64(binary.BigEndian.Uint64(buf)); got != step.sector {
			t.Fatalf("step %d: ReadSector(%d) returned sector %d", i, step.sector, got)
		}
		if opens != step.opens {
			t.Fatalf("step %d: ReadSector(%d) opens = %d, want %d", i, step.sector, opens, step.opens)
		}
		if (set.cur.file == before) != step.sameFile {
			t.Fatalf("step %d: ReadSector(%d) reused handle = %v, want %v", i, step.sector, set.cur.file == before, step.sameFile)
		}
		if set.cur.index != step.wantIndex || set.cur.next != step.sector+1 {
			t.Fatalf("step %d: cursor = {index %d, next %d}", i, set.cur.index, set.cur.next)
		}
	}
}
