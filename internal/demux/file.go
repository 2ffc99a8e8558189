package demux

import (
	"bufio"
	"os"

	"github.com/autobrr/go-vtsdemux/internal/ifo"
	"github.com/autobrr/go-vtsdemux/internal/sectorfile"
)

const writeBufferSectors = 256

// DemuxFile parses ifoPath, opens the title VOBs next to it and writes program
// chain pgcNumber, angle to outPath. outPath is removed when the run fails
// after it was created; bad arguments leave an existing file untouched.
func DemuxFile(ifoPath, outPath string, pgcNumber, angle int, opts ...Option) (Result, error) {
	d := New(nil, nil, opts...)
	ts, err := ifo.ParseFile(ifoPath, ifo.WithLogger(d.log))
	if err != nil {
		return Result{}, err
	}
	d.ts = ts
	if err := d.check(pgcNumber, angle); err != nil {
		return Result{}, err
	}

	set, err := sectorfile.OpenTitleSet(ifoPath, sectorfile.WithLogger(d.log))
	if err != nil {
		return Result{}, err
	}
	defer set.Close()
	d.src = set

	f, err := os.Create(outPath)
	if err != nil {
		return Result{}, err
	}
	bw := bufio.NewWriterSize(f, writeBufferSectors*SectorSize)
	res, err := d.Demux(pgcNumber, angle, bw)
	if err == nil {
		err = bw.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		d.log.Info("removing incomplete output", "path", outPath)
		_ = os.Remove(outPath)
		return res, err
	}
	return res, nil
}
