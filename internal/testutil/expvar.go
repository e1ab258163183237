// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package testutil

import (
	"expvar"
	"testing"

	"github.com/golang/glog"
)

// TestGetExpvar fetches the expvar metric `name`, and returns the expvar.
// Callers are responsible for type assertions on the returned value.
func TestGetExpvar(tb testing.TB, name string) expvar.Var {
	tb.Helper()
	v := expvar.Get(name)
	if v == nil {
		tb.Fatalf("no expvar named %q", name)
	}
	glog.V(2).Infof("Var %q is %v", name, v)
	return v
}

func intValue(tb testing.TB, name, key string) int64 {
	tb.Helper()
	v := TestGetExpvar(tb, name)
	if key == "" {
		return v.(*expvar.Int).Value()
	}
	kv := v.(*expvar.Map).Get(key)
	if kv == nil {
		return 0
	}
	return kv.(*expvar.Int).Value()
}

// ExpectExpvarDelta returns a deferrable function which checks that the
// expvar Int `name` changed by want since ExpectExpvarDelta was called.
// The pipelines under test are synchronous, so there is no deadline.
func ExpectExpvarDelta(tb testing.TB, name string, want int64) func() {
	tb.Helper()
	return ExpectMapExpvarDelta(tb, name, "", want)
}

// ExpectMapExpvarDelta is ExpectExpvarDelta for one key of an expvar Map.
// An empty key selects a plain Int.
func ExpectMapExpvarDelta(tb testing.TB, name, key string, want int64) func() {
	tb.Helper()
	start := intValue(tb, name, key)
	return func() {
		tb.Helper()
		now := intValue(tb, name, key)
		if now-start != want {
			tb.Errorf("%s[%s] delta: got %d - %d = %d, want %d", name, key, now, start, now-start, want)
		}
	}
}
