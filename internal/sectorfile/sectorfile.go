// Package sectorfile maps logical DVD sectors onto the VOB files of a title set.
package sectorfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/go-logr/logr"

	"github.com/autobrr/go-vtsdemux/internal/interval"
)

const SectorSize = 2048

// maxVOBIndex is the highest title VOB number a title set can carry.
const maxVOBIndex = 9

var (
	ErrNotFound = errors.New("sector not found in file set")
	ErrNoVOB    = errors.New("no VOB files found")
)

// SectorFile is one physical file contributing a contiguous run of sectors.
type SectorFile struct {
	Path        string `json:"path" yaml:"path"`
	Size        int64  `json:"size" yaml:"size"`
	FirstSector int64  `json:"first_sector" yaml:"first_sector"`
}

func (f SectorFile) SectorCount() int64 {
	return f.Size / SectorSize
}

func (f SectorFile) LastSector() int64 {
	return f.FirstSector + f.SectorCount() - 1
}

func (f SectorFile) Sectors() interval.Interval {
	return interval.FromCount(f.FirstSector, f.SectorCount())
}

// cursor remembers the open file and the sector a sequential read would hit next.
type cursor struct {
	file  *os.File
	index int
	next  int64
}

// Set is an ordered group of files addressed by logical sector. It is not
// safe for concurrent use.
type Set struct {
	files []SectorFile
	cur   cursor
	log   logr.Logger
}

type Option func(*Set)

func WithLogger(log logr.Logger) Option {
	return func(s *Set) {
		s.log = log
	}
}

// Open stats every path and lays the files out back to back in sector space.
func Open(paths []string, opts ...Option) (*Set, error) {
	s := &Set{log: logr.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	var next int64
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory", path)
		}
		f := SectorFile{Path: path, Size: info.Size(), FirstSector: next}
		s.files = append(s.files, f)
		next += f.SectorCount()
	}
	return s, nil
}

// OpenTitleSet opens the VOB files that belong to the title set described by ifoPath.
func OpenTitleSet(ifoPath string, opts ...Option) (*Set, error) {
	paths, err := Discover(ifoPath)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoVOB, ifoPath)
	}
	return Open(paths, opts...)
}

// Discover returns <prefix>1.VOB .. <prefix>9.VOB for an IFO named
// <prefix>0.IFO, stopping at the first index that does not exist.
func Discover(ifoPath string) ([]string, error) {
	dir := filepath.Dir(ifoPath)
	base := filepath.Base(ifoPath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if !strings.HasSuffix(stem, "0") {
		return nil, fmt.Errorf("%s: IFO name must end in 0 before the extension", base)
	}
	prefix := stem[:len(stem)-1]
	vobExt := ".VOB"
	if ext == strings.ToLower(ext) {
		vobExt = ".vob"
	}

	paths := []string{}
	for i := 1; i <= maxVOBIndex; i++ {
		path := filepath.Join(dir, prefix+strconv.Itoa(i)+vobExt)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			break
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (s *Set) Files() []SectorFile {
	return append([]SectorFile(nil), s.files...)
}

func (s *Set) TotalSectors() int64 {
	if len(s.files) == 0 {
		return 0
	}
	return s.files[len(s.files)-1].LastSector() + 1
}

// Resolve returns the index of the file holding sector and the byte offset
// of the sector inside it.
func (s *Set) Resolve(sector int64) (int, int64, error) {
	i := sort.Search(len(s.files), func(i int) bool {
		return s.files[i].LastSector() >= sector
	})
	if i >= len(s.files) || !s.files[i].Sectors().Contains(sector) {
		return 0, 0, fmt.Errorf("%w: %d", ErrNotFound, sector)
	}
	return i, (sector - s.files[i].FirstSector) * SectorSize, nil
}

// ReadSector fills buf with exactly one sector. Sequential calls reuse the
// open file; anything else reopens and seeks.
func (s *Set) ReadSector(sector int64, buf []byte) error {
	if len(buf) < SectorSize {
		return fmt.Errorf("sector buffer too small: %d bytes", len(buf))
	}
	if s.cur.file == nil || s.cur.next != sector || sector > s.files[s.cur.index].LastSector() {
		if err := s.seek(sector); err != nil {
			return err
		}
	}
	if _, err := io.ReadFull(s.cur.file, buf[:SectorSize]); err != nil {
		path := s.files[s.cur.index].Path
		s.reset()
		return fmt.Errorf("read sector %d from %s: %w", sector, path, err)
	}
	s.cur.next = sector + 1
	return nil
}

func (s *Set) seek(sector int64) error {
	index, offset, err := s.Resolve(sector)
	if err != nil {
		s.reset()
		return err
	}
	if s.cur.file != nil && s.cur.index != index {
		s.reset()
	}
	if s.cur.file == nil {
		file, err := os.Open(s.files[index].Path)
		if err != nil {
			return fmt.Errorf("open %s: %w", s.files[index].Path, err)
		}
		s.log.V(1).Info("opened sector file", "path", s.files[index].Path, "sector", sector)
		s.cur.file = file
	}
	s.cur.index = index
	if _, err := s.cur.file.Seek(offset, io.SeekStart); err != nil {
		path := s.files[index].Path
		s.reset()
		return fmt.Errorf("seek %s to %d: %w", path, offset, err)
	}
	s.cur.next = sector
	return nil
}

func (s *Set) reset() {
	if s.cur.file != nil {
		_ = s.cur.file.Close()
	}
	s.cur = cursor{}
}

func (s *Set) Close() error {
	if s.cur.file == nil {
		return nil
	}
	err := s.cur.file.Close()
	s.cur = cursor{}
	return err
}
