// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package source

import "sync"

// FakeSource is a Source fed from memory.  Each injected buffer is returned
// by one Read; Read blocks until a buffer is injected or the source closed.
type FakeSource struct {
	queue     chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewFakeSource returns a FakeSource with reads already queued.
func NewFakeSource(reads ...[]byte) *FakeSource {
	f := &FakeSource{
		queue: make(chan []byte, 1024),
		done:  make(chan struct{}),
	}
	for _, r := range reads {
		f.Inject(r)
	}
	return f
}

// Inject queues one read.  An empty buffer yields a zero length read.
func (f *FakeSource) Inject(b []byte) {
	f.queue <- b
}

// Read implements Source.  A buffer longer than buf is truncated.
func (f *FakeSource) Read(buf []byte) (int, error) {
	// Queued reads are served before a close is noticed.
	select {
	case b := <-f.queue:
		return copy(buf, b), nil
	default:
	}
	select {
	case b := <-f.queue:
		return copy(buf, b), nil
	case <-f.done:
		return 0, ErrClosed
	}
}

// Close implements Source.
func (f *FakeSource) Close() error {
	f.closeOnce.Do(func() { close(f.done) })
	return nil
}
