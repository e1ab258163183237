// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package report

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/xnotifywait/internal/testutil"
)

func TestWriterSinkFlushesEachLine(t *testing.T) {
	defer testutil.ExpectExpvarDelta(t, "lines_emitted_total", 2)()

	var out bytes.Buffer
	bw := bufio.NewWriterSize(&out, 4096)
	s := NewWriterSink(bw)
	ctx := context.Background()

	testutil.FatalIfErr(t, s.Emit(ctx, "/Users/a/f CREATE"))
	if got := out.String(); got != "/Users/a/f CREATE\n" {
		t.Errorf("after first line got %q", got)
	}
	testutil.FatalIfErr(t, s.Emit(ctx, "/Users/a/f DELETE"))
	if got := out.String(); got != "/Users/a/f CREATE\n/Users/a/f DELETE\n" {
		t.Errorf("after second line got %q", got)
	}
}

type failingWriter struct{}

var errWrite = errors.New("broken pipe")

func (failingWriter) Write([]byte) (int, error) { return 0, errWrite }

func TestWriterSinkError(t *testing.T) {
	defer testutil.ExpectExpvarDelta(t, "lines_emitted_total", 0)()

	err := NewWriterSink(failingWriter{}).Emit(context.Background(), "x")
	testutil.ExpectErrorIs(t, err, errWrite)
}
