// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package waker

import (
	"context"
	"sync"
	"time"
)

// A timedWaker wakes callers on a regular interval.
type timedWaker struct {
	t    *time.Ticker
	mu   sync.Mutex // protects wake
	wake chan struct{}
}

// NewTimed returns a Waker that wakes every interval until ctx is cancelled.
// A non-positive interval returns a Waker that never blocks.
func NewTimed(ctx context.Context, interval time.Duration) Waker {
	if interval <= 0 {
		return NewAlways()
	}
	t := &timedWaker{
		t:    time.NewTicker(interval),
		wake: make(chan struct{}),
	}
	go func() {
		defer t.t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.t.C:
				t.mu.Lock()
				close(t.wake)
				t.wake = make(chan struct{})
				t.mu.Unlock()
			}
		}
	}()
	return t
}

// Wake implements the Waker interface.
func (t *timedWaker) Wake() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.wake
}

// alwaysWaker never blocks the wakee.
type alwaysWaker struct {
	wake chan struct{}
}

// NewAlways returns a Waker whose channel is already closed.
func NewAlways() Waker {
	w := &alwaysWaker{wake: make(chan struct{})}
	close(w.wake)
	return w
}

func (w *alwaysWaker) Wake() <-chan struct{} {
	return w.wake
}
