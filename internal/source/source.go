// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

// Package source provides the raw fsevents record stream.  On darwin that
// is a clone of the /dev/fsevents device; elsewhere Open fails with
// ErrSourceUnavailable.
package source

import (
	"github.com/google/xnotifywait/internal/fsevents"
	"github.com/pkg/errors"
)

// Source is a blocking reader of raw record buffers.  Each Read returns
// whole records.
type Source interface {
	// Read fills buf with up to len(buf) bytes of records.
	Read(buf []byte) (int, error)
	// Close unblocks any pending Read, which then returns ErrClosed.
	Close() error
}

// Cloned is implemented by sources backed by a cloned device descriptor.
type Cloned interface {
	// ClonedFd returns the descriptor of the clone.
	ClonedFd() int
}

var (
	// ErrSourceUnavailable means the event source could not be opened or
	// configured.  It is not retried.
	ErrSourceUnavailable = errors.New("fsevents source unavailable")

	// ErrClosed is returned by Read after Close.
	ErrClosed = errors.New("fsevents source closed")
)

// Per-kind actions in the event list given to the device.
const (
	actionIgnore int8 = 0
	actionReport int8 = 1
)

// DefaultQueueDepth is the kernel-side event queue depth requested at clone
// time.
const DefaultQueueDepth = 4096

// EventList returns the per-kernel-kind action list selecting the named
// kinds.  No names selects everything.  CREATE selects both file and
// directory creation.
func EventList(names []string) ([]int8, error) {
	list := make([]int8, fsevents.NumKernelKinds)
	if len(names) == 0 {
		for i := range list {
			list[i] = actionReport
		}
		return list, nil
	}
	for _, name := range names {
		k, err := fsevents.ParseKind(name)
		if err != nil {
			return nil, err
		}
		for raw := range list {
			if kk, _ := fsevents.KernelKind(int32(raw)); kk == k {
				list[raw] = actionReport
			}
		}
	}
	return list, nil
}

type options struct {
	eventList  []int8
	queueDepth int32
}

// Option configures Open.
type Option func(*options) error

// Events sets the event list built by EventList.
func Events(list []int8) Option {
	return func(o *options) error {
		if len(list) != fsevents.NumKernelKinds {
			return errors.Errorf("event list has %d entries, want %d", len(list), fsevents.NumKernelKinds)
		}
		o.eventList = list
		return nil
	}
}

// QueueDepth sets the kernel-side queue depth.
func QueueDepth(depth int) Option {
	return func(o *options) error {
		if depth <= 0 {
			return errors.Errorf("queue depth must be positive, got %d", depth)
		}
		o.queueDepth = int32(depth)
		return nil
	}
}

func newOptions(opts ...Option) (*options, error) {
	all, _ := EventList(nil)
	o := &options{eventList: all, queueDepth: DefaultQueueDepth}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}
