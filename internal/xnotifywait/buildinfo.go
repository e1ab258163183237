// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package xnotifywait

import (
	"fmt"
	"runtime"

	"github.com/google/xnotifywait/internal/source"
)

// BuildInfo identifies the build, as stamped by the linker.
type BuildInfo struct {
	Branch   string
	Version  string
	Revision string
}

// eventSource names the event source compiled into this binary.
func eventSource() string {
	if source.Supported {
		return "/dev/fsevents"
	}
	return "none on " + runtime.GOOS
}

// String formats b for -version, the usage text, and the status page.
func (b BuildInfo) String() string {
	return fmt.Sprintf(
		"xnotifywait %s (branch %s, revision %s) built with %s for %s/%s; event source: %s",
		b.Version,
		b.Branch,
		b.Revision,
		runtime.Version(),
		runtime.GOOS,
		runtime.GOARCH,
		eventSource(),
	)
}
