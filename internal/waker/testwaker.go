// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package waker

import (
	"sync"

	"github.com/golang/glog"
)

// TestWaker is a Waker driven by hand from a test.  Waiting counts the
// calls to Wake, so a test can tell that the loop under test went idle.
type TestWaker struct {
	mu      sync.Mutex
	wake    chan struct{}
	waiting int

	called chan struct{}
}

// NewTest returns a TestWaker.
func NewTest() *TestWaker {
	return &TestWaker{
		wake:   make(chan struct{}),
		called: make(chan struct{}, 64),
	}
}

// Wake implements the Waker interface.
func (t *TestWaker) Wake() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.waiting++
	select {
	case t.called <- struct{}{}:
	default:
	}
	return t.wake
}

// Called returns a channel that receives once per call to Wake.
func (t *TestWaker) Called() <-chan struct{} { return t.called }

// Broadcast wakes everything currently waiting.
func (t *TestWaker) Broadcast() {
	t.mu.Lock()
	defer t.mu.Unlock()
	glog.V(2).Infof("TestWaker waking %d wakees", t.waiting)
	close(t.wake)
	t.wake = make(chan struct{})
	t.waiting = 0
}
