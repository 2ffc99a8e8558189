// Package server exposes a parsed title set over HTTP: program chain listings
// and demuxed program streams.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-logr/logr"

	"github.com/autobrr/go-vtsdemux/internal/demux"
	"github.com/autobrr/go-vtsdemux/internal/ifo"
	"github.com/autobrr/go-vtsdemux/internal/report"
	"github.com/autobrr/go-vtsdemux/internal/sectorfile"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	ifoPath string
	ts      *ifo.TitleSet
	summary report.Summary
	log     logr.Logger
	router  *gin.Engine
}

type Option func(*Server)

func WithLogger(log logr.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

func New(ifoPath string, ts *ifo.TitleSet, opts ...Option) *Server {
	s := &Server{
		ifoPath: ifoPath,
		ts:      ts,
		summary: report.Build(filepath.Base(ifoPath), ts),
		log:     logr.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setRouter()
	return s
}

func (s *Server) setRouter() {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.accessLog)
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/pgcs")
	})
	pgcs := r.Group("/pgcs")
	{
		pgcs.GET("", s.handleListPGCs)
		pgcs.GET("/:pgc", s.handleGetPGC)
		pgcs.GET("/:pgc/stream", s.handleStream)
	}
	s.router = r
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr, "file", s.ifoPath)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) accessLog(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.log.V(1).Info("request", "method", c.Request.Method, "path", c.Request.URL.Path,
		"status", c.Writer.Status(), "bytes", c.Writer.Size(), "elapsed", time.Since(start).String())
}

func (s *Server) handleListPGCs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"file":  s.summary.File,
		"count": len(s.summary.PGCs),
		"pgcs":  s.summary.PGCs,
	})
}

func (s *Server) handleGetPGC(c *gin.Context) {
	number, ok := s.pgcParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.summary.PGCs[number-1])
}

func (s *Server) handleStream(c *gin.Context) {
	number, ok := s.pgcParam(c)
	if !ok {
		return
	}
	angle := 1
	if raw := c.Query("angle"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid angle %q", raw)})
			return
		}
		angle = v
	}
	set, err := sectorfile.OpenTitleSet(s.ifoPath, sectorfile.WithLogger(s.log))
	if err != nil {
		s.log.Error(err, "open title set", "file", s.ifoPath)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer set.Close()

	name := strings.TrimSuffix(filepath.Base(s.ifoPath), filepath.Ext(s.ifoPath))
	w := &streamWriter{c: c, filename: fmt.Sprintf("%s_pgc%02d_angle%d.vob", name, number, angle)}
	d := demux.New(s.ts, set, demux.WithLogger(s.log))
	res, err := d.Demux(number, angle, w)
	if err != nil {
		if !w.started {
			s.log.Error(err, "demux failed", "pgc", number, "angle", angle)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		// headers are gone; the client sees a truncated body
		s.log.Error(err, "demux stream aborted", "pgc", number, "angle", angle, "written", res.SectorsWritten)
		_ = c.Error(err)
		c.Abort()
		return
	}
	w.start()
}

// streamWriter holds back the response headers until the first sector is
// ready, so failures before that still get a JSON error.
type streamWriter struct {
	c        *gin.Context
	filename string
	started  bool
}

func (w *streamWriter) start() {
	if w.started {
		return
	}
	w.started = true
	w.c.Header("Content-Type", "video/mpeg")
	w.c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", w.filename))
	w.c.Status(http.StatusOK)
	w.c.Writer.WriteHeaderNow()
}

func (w *streamWriter) Write(p []byte) (int, error) {
	w.start()
	return w.c.Writer.Write(p)
}

func (s *Server) pgcParam(c *gin.Context) (int, bool) {
	raw := c.Param("pgc")
	number, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid pgc %q", raw)})
		return 0, false
	}
	if number < 1 || number > len(s.summary.PGCs) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("pgc %d not found, title set has %d", number, len(s.summary.PGCs))})
		return 0, false
	}
	return number, true
}
