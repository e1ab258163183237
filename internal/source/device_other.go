// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

//go:build !darwin

package source

import (
	"runtime"

	"github.com/pkg/errors"
)

// Supported reports whether Open can succeed on this platform.
const Supported = false

// Device is only available on darwin.
type Device struct{}

// Open validates the options and fails: there is no fsevents device on
// this platform.
func Open(opts ...Option) (*Device, error) {
	if _, err := newOptions(opts...); err != nil {
		return nil, err
	}
	return nil, errors.Wrapf(ErrSourceUnavailable, "no /dev/fsevents on %s", runtime.GOOS)
}

// Read implements Source.
func (d *Device) Read([]byte) (int, error) { return 0, ErrClosed }

// ClonedFd implements Cloned.
func (d *Device) ClonedFd() int { return -1 }

// Close implements Source.
func (d *Device) Close() error { return nil }
