// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package testutil

import (
	"errors"
	"testing"
)

// FatalIfErr fails the test with a fatal error if err is not nil.
func FatalIfErr(tb testing.TB, err error) {
	tb.Helper()
	if err != nil {
		tb.Fatal(err)
	}
}

// ExpectErrorIs fails the test unless err matches every one of targets.
func ExpectErrorIs(tb testing.TB, err error, targets ...error) {
	tb.Helper()
	if err == nil {
		tb.Fatalf("expected an error matching %v, got nil", targets)
	}
	for _, target := range targets {
		if !errors.Is(err, target) {
			tb.Errorf("error %q does not match %q", err, target)
		}
	}
}
