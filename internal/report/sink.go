// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package report

import (
	"context"
	"expvar"
	"io"
	"sync"

	"github.com/pkg/errors"
)

// linesEmitted counts the lines written by all sinks.
var linesEmitted = expvar.NewInt("lines_emitted_total")

// Sink receives output lines, without their newline.
type Sink interface {
	Emit(ctx context.Context, line string) error
}

type flusher interface {
	Flush() error
}

// WriterSink writes each line and its newline to an io.Writer, flushing
// after every line if the writer buffers.
type WriterSink struct {
	mu  sync.Mutex
	w   io.Writer
	buf []byte
}

// NewWriterSink returns a WriterSink on w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Emit satisfies the Sink interface.  The line is written with a single
// Write call.
func (s *WriterSink) Emit(_ context.Context, line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = append(append(s.buf[:0], line...), '\n')
	if _, err := s.w.Write(s.buf); err != nil {
		return errors.Wrap(err, "failed to write event line")
	}
	if f, ok := s.w.(flusher); ok {
		if err := f.Flush(); err != nil {
			return errors.Wrap(err, "failed to flush event line")
		}
	}
	linesEmitted.Add(1)
	return nil
}
