// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package xnotifywait

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/google/xnotifywait/internal/roots"
	"github.com/google/xnotifywait/internal/source"
	"github.com/google/xnotifywait/internal/testutil"
	"github.com/google/xnotifywait/internal/waker"
)

// LineRecorder is a Sink that keeps every line in memory.
type LineRecorder struct {
	mu    sync.Mutex
	lines []string
	err   error
}

// Emit implements report.Sink.
func (r *LineRecorder) Emit(_ context.Context, line string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.lines = append(r.lines, line)
	return nil
}

// Lines returns a copy of the lines recorded so far.
func (r *LineRecorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

// FailWith makes every later Emit return err.
func (r *LineRecorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// TestServer is a Server reading from a FakeSource into a LineRecorder.
type TestServer struct {
	*Server

	Source *source.FakeSource
	Output *LineRecorder

	tb     testing.TB
	cancel context.CancelFunc
}

// TestMakeServer makes a new TestServer watching rootPaths, but does not
// start it.  Empty reads never block unless an EmptyReadWaker option says
// otherwise.  The ready banner is printed unless Quiet is given.  If an error occurs during creation, a testing.Fatal is issued.
func TestMakeServer(tb testing.TB, rootPaths []string, options ...Option) *TestServer {
	tb.Helper()
	rs, err := roots.New(rootPaths...)
	testutil.FatalIfErr(tb, err)
	ctx, cancel := context.WithCancel(context.Background())
	src := source.NewFakeSource()
	out := &LineRecorder{}
	opts := append([]Option{EmptyReadWaker(waker.NewAlways())}, options...)
	m, err := New(ctx, src, rs, out, opts...)
	if err != nil {
		cancel()
		tb.Fatal(err)
	}
	return &TestServer{Server: m, Source: src, Output: out, tb: tb, cancel: cancel}
}

// RunToEnd closes the source once the queued reads are consumed and runs
// the Server until it stops, returning Run's result.
func (ts *TestServer) RunToEnd(reads ...[]byte) error {
	ts.tb.Helper()
	defer ts.cancel()
	for _, r := range reads {
		ts.Source.Inject(r)
	}
	testutil.FatalIfErr(ts.tb, ts.Source.Close())
	return ts.Run()
}

// Start runs the TestServer in the background and returns a cleanup
// function that cancels it and waits for Run to return nil.
func (ts *TestServer) Start() func() {
	ts.tb.Helper()
	errc := make(chan error, 1)
	go func() {
		errc <- ts.Run()
	}()

	return func() {
		ts.cancel()

		select {
		case err := <-errc:
			testutil.FatalIfErr(ts.tb, err)
		case <-time.After(6 * time.Second):
			buf := make([]byte, 1<<16)
			n := runtime.Stack(buf, true)
			fmt.Fprintf(os.Stderr, "%s", buf[0:n])
			ts.tb.Fatal("timeout waiting for shutdown")
		}
	}
}

// ExpectLines waits until the Server has written len(want) lines, then
// compares them with want.
func (ts *TestServer) ExpectLines(want []string) {
	ts.tb.Helper()
	testutil.ExpectEventually(ts.tb, fmt.Sprintf("%d lines", len(want)), func() bool {
		return len(ts.Output.Lines()) >= len(want)
	})
	testutil.ExpectNoDiff(ts.tb, want, ts.Output.Lines())
}
