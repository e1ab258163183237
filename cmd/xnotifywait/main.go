// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

// Command xnotifywait prints an inotifywait-style line for every filesystem
// event under the directories named on the command line, as reported by the
// darwin /dev/fsevents device.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/golang/glog"
	"github.com/google/xnotifywait/internal/report"
	"github.com/google/xnotifywait/internal/roots"
	"github.com/google/xnotifywait/internal/source"
	"github.com/google/xnotifywait/internal/waker"
	"github.com/google/xnotifywait/internal/xnotifywait"
	"go.opencensus.io/trace"
)

type seqStringFlag []string

func (f *seqStringFlag) String() string {
	return fmt.Sprint(*f)
}

func (f *seqStringFlag) Set(value string) error {
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			*f = append(*f, v)
		}
	}
	return nil
}

var events seqStringFlag

var (
	quiet            = flag.Bool("quiet", false, "Do not print the ready banner.")
	queueDepth       = flag.Int("queue_depth", source.DefaultQueueDepth, "Depth of the kernel event queue requested for the cloned device.")
	logDropped       = flag.Bool("log_dropped", true, "Log a warning when the kernel reports dropped events.")
	emptyReadBackoff = flag.Duration("empty_read_backoff", xnotifywait.DefaultEmptyReadBackoff, "Wait this long after a read returns no data before reading again.")

	port    = flag.String("port", "", "HTTP port to listen on for status and metrics.  Empty disables the HTTP server.")
	address = flag.String("address", "", "Host or IP address on which to bind HTTP listener")

	version = flag.Bool("version", false, "Print xnotifywait version information.")

	// Tracing.
	jaegerEndpoint    = flag.String("jaeger_endpoint", "", "If set, collector endpoint URL of jaeger thrift service")
	traceSamplePeriod = flag.Int("trace_sample_period", 0, "Sample period for traces.  If non-zero, every nth trace will be sampled.")
)

func init() {
	flag.BoolVar(quiet, "q", false, "Shorthand for -quiet.")
	flag.Var(&events, "events", "Event kinds to report, separated by commas: CREATE, DELETE, FSE_STAT_CHANGED, RENAME, MODIFY, FSE_EXCHANGE, FSE_FINDER_INFO_CHANGED, FSE_CHOWN, FSE_XATTR_MODIFIED, FSE_XATTR_REMOVED.  Default all.  This flag may be specified multiple times.")
}

var (
	// Branch as well as Version and Revision identifies where in the git
	// history the build came from, as supplied by the linker when compiled
	// with `make'.  The defaults here indicate that the user did not use
	// `make' as instructed.
	Branch   = "invalid:-use-make-to-build"
	Version  = "invalid:-use-make-to-build"
	Revision = "invalid:-use-make-to-build"
)

// absRoots makes relative roots absolute against the working directory.
func absRoots(args []string) ([]string, error) {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if !filepath.IsAbs(a) {
			abs, err := filepath.Abs(a)
			if err != nil {
				return nil, err
			}
			a = abs
		}
		out = append(out, a)
	}
	return out, nil
}

func main() {
	buildInfo := xnotifywait.BuildInfo{
		Branch:   Branch,
		Version:  Version,
		Revision: Revision,
	}

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\n", buildInfo.String())
		fmt.Fprintf(os.Stderr, "\nUsage: %s [flags] dir...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if *version {
		fmt.Println(buildInfo.String())
		os.Exit(0)
	}
	glog.Info(buildInfo.String())
	glog.Infof("Commandline: %q", os.Args)
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "xnotifywait take dir arguments.")
		os.Exit(1)
	}
	paths, err := absRoots(flag.Args())
	if err != nil {
		glog.Exitf("Couldn't resolve watch roots: %s", err)
	}
	rs, err := roots.New(paths...)
	if err != nil {
		glog.Exitf("Bad watch roots: %s", err)
	}
	eventList, err := source.EventList(events)
	if err != nil {
		glog.Exitf("Bad -events: %s", err)
	}
	if *emptyReadBackoff < 0 {
		glog.Exitf("-empty_read_backoff must not be negative, got %s", *emptyReadBackoff)
	}

	if *traceSamplePeriod > 0 {
		trace.ApplyConfig(trace.Config{DefaultSampler: trace.ProbabilitySampler(1 / float64(*traceSamplePeriod))})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigint
		glog.Infof("Received %+v, exiting...", sig)
		cancel()
	}()

	dev, err := source.Open(source.Events(eventList), source.QueueDepth(*queueDepth))
	if err != nil {
		glog.Error(err)
		cancel()
		os.Exit(1) //nolint:gocritic // false positive
	}

	out := bufio.NewWriter(os.Stdout)
	opts := []xnotifywait.Option{
		xnotifywait.SetBuildInfo(buildInfo),
		xnotifywait.BindAddress(*address, *port),
		xnotifywait.EmptyReadWaker(waker.NewTimed(ctx, *emptyReadBackoff)),
	}
	if *quiet {
		opts = append(opts, xnotifywait.Quiet)
	}
	if !*logDropped {
		opts = append(opts, xnotifywait.SilenceDropped)
	}
	if *jaegerEndpoint != "" {
		opts = append(opts, xnotifywait.JaegerReporter(*jaegerEndpoint))
	}
	m, err := xnotifywait.New(ctx, dev, rs, report.NewWriterSink(out), opts...)
	if err != nil {
		glog.Error(err)
		dev.Close()
		cancel()
		os.Exit(1) //nolint:gocritic // false positive
	}
	start := time.Now()
	err = m.Run()
	glog.Infof("Ran for %s", time.Since(start))
	if err != nil {
		glog.Error(err)
		cancel()
		os.Exit(1) //nolint:gocritic // false positive
	}
}
