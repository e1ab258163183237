// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

//go:build darwin

package procname

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

func lookup(pid int32) (string, error) {
	kp, err := unix.SysctlKinfoProc("kern.proc.pid", int(pid))
	if err != nil {
		return "", errors.Wrapf(err, "sysctl kern.proc.pid.%d", pid)
	}
	return unix.ByteSliceToString(kp.Proc.P_comm[:]), nil
}
