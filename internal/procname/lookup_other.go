// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

//go:build !darwin && !linux

package procname

import "github.com/pkg/errors"

func lookup(int32) (string, error) {
	return "", errors.New("process names unsupported on this platform")
}
