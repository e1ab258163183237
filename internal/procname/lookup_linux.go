// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

//go:build linux

package procname

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

func lookup(pid int32) (string, error) {
	b, err := os.ReadFile("/proc/" + strconv.Itoa(int(pid)) + "/comm")
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrapf(err, "pid %d", pid)
	}
	return strings.TrimRight(string(b), "\n"), nil
}
