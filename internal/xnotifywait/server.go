// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

// Package xnotifywait runs the fsevents read loop: it reads raw records from
// a Source, decodes and correlates them, and emits a line for every event
// under a watched root.
package xnotifywait

import (
	"context"
	"expvar"
	"net"
	"net/http"
	"net/http/pprof"
	"strconv"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/google/xnotifywait/internal/fsevents"
	"github.com/google/xnotifywait/internal/procname"
	"github.com/google/xnotifywait/internal/report"
	"github.com/google/xnotifywait/internal/roots"
	"github.com/google/xnotifywait/internal/source"
	"github.com/google/xnotifywait/internal/waker"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	versioncollector "github.com/prometheus/client_golang/prometheus/collectors/version"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/version"
	"go.opencensus.io/trace"
	"go.opencensus.io/zpages"
)

var (
	bytesRead      = expvar.NewInt("fsevents_bytes_read_total")
	recordsTotal   = expvar.NewInt("fsevents_records_total")
	eventsTotal    = expvar.NewMap("fsevents_events_total")
	droppedTotal   = expvar.NewInt("fsevents_dropped_total")
	protocolErrors = expvar.NewInt("fsevents_protocol_errors_total")
	readErrors     = expvar.NewInt("fsevents_read_errors_total")
	emptyReads     = expvar.NewInt("empty_reads_total")
)

const (
	// DefaultBufferSize is the size of the single read buffer.
	DefaultBufferSize = 131072

	// DefaultEmptyReadBackoff is the wait after an empty or failed read.
	DefaultEmptyReadBackoff = 10 * time.Millisecond

	readyBanner = "xnotifywait ready"
)

func clonedBanner(fd int) string {
	return "fsevents device cloned (fd " + strconv.Itoa(fd) + ")"
}

// Server contains the state of the main xnotifywait program.
type Server struct {
	ctx    context.Context
	cancel context.CancelFunc

	src       source.Source
	sink      report.Sink
	roots     *roots.RootSet
	decoder   *fsevents.Decoder
	formatter *report.Formatter
	procnames *procname.Cache

	buf   []byte   // the only read buffer; owned by Run
	lines []string // reused per event

	reg *prometheus.Registry

	h        *http.Server
	listener net.Listener

	webquit   chan struct{} // Channel to signal shutdown from web UI
	quitOnce  sync.Once     // Ensure webquit is closed only once
	closeQuit chan struct{} // Channel to signal shutdown from code
	closeOnce sync.Once     // Ensure shutdown happens only once

	buildInfo      BuildInfo
	emptyReadWaker waker.Waker

	quiet          bool // if set, the ready banner is not printed
	silenceDropped bool // if set, events-dropped markers are counted but not logged
}

// New creates a Server reading from src, reporting events under rs to sink.
func New(ctx context.Context, src source.Source, rs *roots.RootSet, sink report.Sink, options ...Option) (*Server, error) {
	if src == nil || rs == nil || sink == nil {
		return nil, errors.New("a source, a root set, and a sink are required")
	}
	m := &Server{
		src:       src,
		sink:      sink,
		roots:     rs,
		decoder:   fsevents.NewDecoder(),
		formatter: report.NewFormatter(rs),
		webquit:   make(chan struct{}),
		closeQuit: make(chan struct{}),
		h:         &http.Server{ReadHeaderTimeout: 10 * time.Second},
		reg:       prometheus.NewRegistry(),
	}
	m.ctx, m.cancel = context.WithCancel(ctx)

	expvarDescs := map[string]*prometheus.Desc{
		// internal/fsevents/decode.go
		"fsevents_unknown_args_total": prometheus.NewDesc("fsevents_unknown_args_total", "number of arguments skipped by length, by type tag", []string{"tag"}, nil),
		// internal/report/sink.go
		"lines_emitted_total": prometheus.NewDesc("lines_emitted_total", "number of event lines written", nil, nil),
		// internal/procname/procname.go
		"procname_lookup_errors_total": prometheus.NewDesc("procname_lookup_errors_total", "number of failed pid to name lookups", nil, nil),
		// this file
		"fsevents_bytes_read_total":      prometheus.NewDesc("fsevents_bytes_read_total", "number of bytes read from the event source", nil, nil),
		"fsevents_records_total":         prometheus.NewDesc("fsevents_records_total", "number of records framed", nil, nil),
		"fsevents_events_total":          prometheus.NewDesc("fsevents_events_total", "number of events decoded, by kind", []string{"kind"}, nil),
		"fsevents_dropped_total":         prometheus.NewDesc("fsevents_dropped_total", "number of dropped-event markers and flags seen", nil, nil),
		"fsevents_protocol_errors_total": prometheus.NewDesc("fsevents_protocol_errors_total", "number of fatal stream desynchronisations", nil, nil),
		"fsevents_read_errors_total":     prometheus.NewDesc("fsevents_read_errors_total", "number of failed reads from the event source", nil, nil),
		"empty_reads_total":              prometheus.NewDesc("empty_reads_total", "number of reads that returned no data", nil, nil),
	}
	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	// Prefix all expvar metrics with 'xnotifywait_'
	prometheus.WrapRegistererWithPrefix("xnotifywait_", m.reg).MustRegister(
		collectors.NewExpvarCollector(expvarDescs))
	if err := m.SetOption(options...); err != nil {
		return nil, err
	}
	if m.buf == nil {
		m.buf = make([]byte, DefaultBufferSize)
	}
	if m.emptyReadWaker == nil {
		m.emptyReadWaker = waker.NewTimed(m.ctx, DefaultEmptyReadBackoff)
	}
	if m.procnames == nil {
		m.procnames = procname.NewCache(procname.DefaultSize, procname.DefaultTTL)
	}

	// Create xnotifywait_build_info metric.
	version.Branch = m.buildInfo.Branch
	version.Version = m.buildInfo.Version
	version.Revision = m.buildInfo.Revision
	m.reg.MustRegister(versioncollector.NewCollector("xnotifywait"))
	return m, nil
}

// SetOption takes one or more option functions and applies them in order to Server.
func (m *Server) SetOption(options ...Option) error {
	for _, option := range options {
		if err := option.apply(m); err != nil {
			return err
		}
	}
	return nil
}

// Run prints the clone and ready banners and then reads, decodes, and reports events
// until the context is cancelled, the source is closed, or a fatal error
// occurs.  Cancellation and close return nil; a protocol desync or an
// output failure is returned.
func (m *Server) Run() error {
	defer m.Close()
	if m.listener != nil {
		m.serve()
	}
	go m.waitForShutdown()

	if !m.quiet {
		if c, ok := m.src.(source.Cloned); ok {
			if err := m.sink.Emit(m.ctx, clonedBanner(c.ClonedFd())); err != nil {
				return err
			}
		}
		if err := m.sink.Emit(m.ctx, readyBanner); err != nil {
			return err
		}
	}
	for {
		n, err := m.src.Read(m.buf)
		if err != nil {
			if errors.Is(err, source.ErrClosed) || m.ctx.Err() != nil {
				glog.Info("event source closed")
				return nil
			}
			readErrors.Add(1)
			glog.Warningf("read from event source failed: %s", err)
			if !m.idle() {
				return nil
			}
			continue
		}
		if n == 0 {
			emptyReads.Add(1)
			if !m.idle() {
				return nil
			}
			continue
		}
		if err := m.drain(m.ctx, n); err != nil {
			if errors.Is(err, fsevents.ErrProtocolDesync) {
				protocolErrors.Add(1)
				glog.Errorf("event stream out of sync: %s", err)
			}
			return err
		}
	}
}

// idle waits for the empty read waker.  It returns false if the Server is
// shutting down instead.
func (m *Server) idle() bool {
	select {
	case <-m.ctx.Done():
		return false
	case <-m.emptyReadWaker.Wake():
		return true
	}
}

// drain processes every record in the first n bytes of the read buffer.
func (m *Server) drain(ctx context.Context, n int) error {
	ctx, span := trace.StartSpan(ctx, "Server.drain")
	defer span.End()
	span.AddAttributes(trace.Int64Attribute("bytes", int64(n)))
	bytesRead.Add(int64(n))

	c := fsevents.NewCursor(m.buf, n)
	for c.Next() {
		recordsTotal.Add(1)
		ev, err := m.decoder.Decode(c.Record())
		if err != nil {
			return err
		}
		eventsTotal.Add(ev.Kind.String(), 1)
		if ev.Kind == fsevents.EventsDropped {
			m.dropped("the kernel dropped events")
			continue
		}
		if ev.Flags&fsevents.FlagContainsDroppedEvents != 0 {
			m.dropped("event from pid " + strconv.Itoa(int(ev.Pid)) + " (" + m.procnames.Name(ev.Pid) + ") was coalesced with dropped events")
		}
		ce := fsevents.Correlate(ev)
		if glog.V(1) {
			glog.Infof("pid %d (%s) type %d flags %#x: %s %q %q", ev.Pid, m.procnames.Name(ev.Pid), ev.RawKind, ev.Flags, ev.Kind, ce.Source, ce.Dest)
		}
		m.lines = m.formatter.Append(m.lines[:0], ce)
		for _, line := range m.lines {
			if err := m.sink.Emit(ctx, line); err != nil {
				return err
			}
		}
	}
	return c.Err()
}

func (m *Server) dropped(msg string) {
	droppedTotal.Add(1)
	if !m.silenceDropped {
		glog.Warning(msg)
	}
}

// serve starts the HTTP server on the configured listener.
func (m *Server) serve() {
	mux := http.NewServeMux()
	mux.Handle("/", m)
	mux.Handle("/metrics", promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/quitquitquit", m.quitHandler)
	mux.Handle("/debug/vars", expvar.Handler())
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	zpages.Handle(mux, "/")
	m.h.Handler = mux

	go func() {
		glog.Infof("Listening on %s", m.listener.Addr())
		if err := m.h.Serve(m.listener); err != nil && err != http.ErrServerClosed {
			glog.Errorf("HTTP server failed: %s", err)
		}
	}()
}

// waitForShutdown closes the Server when the context is cancelled or the
// UI asks to quit.  Closing the source unblocks a pending read in Run.
func (m *Server) waitForShutdown() {
	select {
	case <-m.ctx.Done():
		glog.Info("External shutdown, exiting...")
	case <-m.webquit:
		glog.Info("Received Quit from HTTP, exiting...")
	case <-m.closeQuit:
		return
	}
	if err := m.Close(); err != nil {
		glog.Warning(err)
	}
}

// Close handles the graceful shutdown of this xnotifywait instance,
// ensuring that it only occurs once.
func (m *Server) Close() error {
	var err error
	m.closeOnce.Do(func() {
		glog.Info("Shutdown requested.")
		close(m.closeQuit)
		m.cancel()
		if err = m.src.Close(); err != nil {
			glog.Infof("event source close failed: %s", err)
		}
		if m.listener != nil {
			glog.Info("Shutting down http server")
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if herr := m.h.Shutdown(ctx); herr != nil {
				glog.Error(herr)
			}
			cancel()
		}
		glog.Info("END OF LINE")
	})
	return err
}

// Addr returns the HTTP listener address, or "none".
func (m *Server) Addr() string {
	if m.listener == nil {
		return "none"
	}
	return m.listener.Addr().String()
}
