// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

// Package testutil holds helpers shared by the package tests.
package testutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// ExpectNoDiff reports a test error, and returns false, when want and got
// differ.
func ExpectNoDiff(tb testing.TB, want, got interface{}, opts ...cmp.Option) bool {
	tb.Helper()
	if diff := cmp.Diff(want, got, opts...); diff != "" {
		tb.Errorf("unexpected diff (-want +got):\n%s", diff)
		return false
	}
	return true
}

// EquateEmpty treats nil and empty slices as equal.
func EquateEmpty() cmp.Option {
	return cmpopts.EquateEmpty()
}
