package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/autobrr/go-vtsdemux/internal/report"
)

type Options struct {
	PGC     int    `yaml:"pgc"`
	Angle   int    `yaml:"angle"`
	Format  string `yaml:"format"`
	LogFile string `yaml:"logfile"`
	Verbose bool   `yaml:"verbose"`
	Addr    string `yaml:"addr"`
	Config  string `yaml:"-"`
}

func DefaultOptions() Options {
	return Options{
		PGC:    1,
		Angle:  1,
		Format: report.FormatText,
		Addr:   ":8080",
	}
}

// normalize fills in defaults for fields left at their zero value.
func (o *Options) normalize() {
	if o.PGC == 0 {
		o.PGC = 1
	}
	if o.Angle == 0 {
		o.Angle = 1
	}
	o.Format = strings.ToLower(strings.TrimSpace(o.Format))
	switch o.Format {
	case "":
		o.Format = report.FormatText
	case "yml":
		o.Format = report.FormatYAML
	}
}

func BindFlags(fs *pflag.FlagSet, o *Options) {
	fs.IntVarP(&o.PGC, "pgc", "p", o.PGC, "program chain to demux (1-based)")
	fs.IntVarP(&o.Angle, "angle", "a", o.Angle, "angle to demux (1-based)")
	fs.StringVarP(&o.Format, "format", "f", o.Format, "dump format: text, json or yaml")
	fs.StringVar(&o.LogFile, "logfile", o.LogFile, "also save the report to this file")
	fs.BoolVarP(&o.Verbose, "verbose", "v", o.Verbose, "log skipped cells and file switches")
	fs.StringVarP(&o.Config, "config", "c", o.Config, "YAML file with default options")
}

// BindServeFlags adds the flags only the HTTP server uses.
func BindServeFlags(fs *pflag.FlagSet, o *Options) {
	fs.StringVar(&o.Addr, "addr", o.Addr, "listen address")
}

// ApplyConfig loads o.Config, if set, and copies its values into every option
// whose flag was not given on the command line.
func ApplyConfig(fs *pflag.FlagSet, o *Options) error {
	if o.Config == "" {
		return nil
	}
	data, err := os.ReadFile(o.Config)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var file Options
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", o.Config, err)
	}

	changed := func(name string) bool {
		f := fs.Lookup(name)
		return f != nil && f.Changed
	}
	if file.PGC != 0 && !changed("pgc") {
		o.PGC = file.PGC
	}
	if file.Angle != 0 && !changed("angle") {
		o.Angle = file.Angle
	}
	if file.Format != "" && !changed("format") {
		o.Format = file.Format
	}
	if file.LogFile != "" && !changed("logfile") {
		o.LogFile = file.LogFile
	}
	if file.Verbose && !changed("verbose") {
		o.Verbose = true
	}
	if file.Addr != "" && !changed("addr") {
		o.Addr = file.Addr
	}
	return nil
}
