// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package testutil

import (
	"net"
	"testing"
)

// Listener returns a TCP listener on a free loopback port, closed when the
// test ends unless the caller closes it first.
func Listener(tb testing.TB) net.Listener {
	tb.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		tb.Fatal(err)
	}
	tb.Cleanup(func() { l.Close() })
	return l
}
