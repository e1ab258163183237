// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package testutil

import (
	"testing"
	"time"

	"github.com/golang/glog"
)

// DoOrTimeout polls do every interval until it reports true, returns an
// error, or the deadline passes.  A timeout is reported as (false, nil).
func DoOrTimeout(do func() (bool, error), deadline, interval time.Duration) (bool, error) {
	timeout := time.After(deadline)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-timeout:
			return false, nil
		case <-ticker.C:
			ok, err := do()
			glog.V(2).Infof("poll: %v %v", ok, err)
			if err != nil {
				return false, err
			} else if ok {
				return true, nil
			}
		}
	}
}

// ExpectEventually fails the test if cond does not hold within five seconds.
func ExpectEventually(tb testing.TB, what string, cond func() bool) {
	tb.Helper()
	ok, _ := DoOrTimeout(func() (bool, error) { return cond(), nil }, 5*time.Second, time.Millisecond)
	if !ok {
		tb.Fatalf("timed out waiting for %s", what)
	}
}
