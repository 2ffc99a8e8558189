package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"

	"github.com/autobrr/go-vtsdemux/internal/demux"
	"github.com/autobrr/go-vtsdemux/internal/ifo"
	"github.com/autobrr/go-vtsdemux/internal/report"
)

const (
	exitOK    = 0
	exitError = 1
)

// Run dumps the title set when args holds only the IFO path and demuxes the
// selected program chain into args[1] otherwise.
func Run(opts Options, args []string, stdout, stderr io.Writer) int {
	opts.normalize()
	if len(args) == 0 || len(args) > 2 {
		HelpNothing(stdout)
		return exitError
	}
	switch opts.Format {
	case report.FormatText, report.FormatJSON, report.FormatYAML:
	default:
		fmt.Fprintf(stderr, "%v: %q\n", report.ErrFormat, opts.Format)
		return exitError
	}
	log := NewLogger(stderr, opts.Verbose)

	var output string
	var err error
	if len(args) == 1 {
		output, err = runDump(opts, args[0], log)
	} else {
		output, err = runDemux(opts, args[0], args[1], log)
	}
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return exitError
	}

	fmt.Fprint(stdout, output)
	if opts.LogFile != "" {
		if err := writeLogFile(opts.LogFile, output); err != nil {
			fmt.Fprintln(stderr, err.Error())
			return exitError
		}
	}
	return exitOK
}

func runDump(opts Options, ifoPath string, log logr.Logger) (string, error) {
	ts, err := ifo.ParseFile(ifoPath, ifo.WithLogger(log))
	if err != nil {
		return "", err
	}
	return report.Render(opts.Format, report.Build(filepath.Base(ifoPath), ts))
}

func runDemux(opts Options, ifoPath, outPath string, log logr.Logger) (string, error) {
	res, err := demux.DemuxFile(ifoPath, outPath, opts.PGC, opts.Angle, demux.WithLogger(log))
	if err != nil {
		return "", err
	}
	summary := report.BuildDemux(opts.PGC, opts.Angle, res)
	switch opts.Format {
	case report.FormatText:
		return report.RenderDemuxText(summary), nil
	case report.FormatJSON:
		return report.RenderJSON(summary)
	case report.FormatYAML:
		return report.RenderYAML(summary)
	default:
		return "", fmt.Errorf("%w: %q", report.ErrFormat, opts.Format)
	}
}

// NewLogger returns a logr.Logger printing key/value lines to w. verbose
// enables V(1) messages.
func NewLogger(w io.Writer, verbose bool) logr.Logger {
	opts := funcr.Options{}
	if verbose {
		opts.Verbosity = 1
	}
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintf(w, "%s: %s\n", prefix, args)
			return
		}
		fmt.Fprintln(w, args)
	}, opts)
}

func writeLogFile(path, output string) error {
	if err := os.WriteFile(path, []byte(output), 0644); err != nil {
		return err
	}
	return nil
}
