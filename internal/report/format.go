// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

// Package report turns correlated events into inotifywait-style output
// lines and writes them out.
package report

import (
	"github.com/google/xnotifywait/internal/fsevents"
	"github.com/google/xnotifywait/internal/roots"
)

const (
	movedFrom = "MOVED_FROM"
	movedTo   = "MOVED_TO"
	isDir     = ":ISDIR"
)

// Formatter renders events whose paths fall under a RootSet.
type Formatter struct {
	roots *roots.RootSet
}

// NewFormatter returns a Formatter for rs.
func NewFormatter(rs *roots.RootSet) *Formatter {
	return &Formatter{roots: rs}
}

// Append appends the lines for c to dst and returns the extended slice.
//
// A rename yields a MOVED_FROM line when its source is watched and a
// MOVED_TO line when its destination is watched, in that order; a rename
// inside the watched tree is not merged into one line.  Other kinds yield
// one line when their path is watched.  Kinds without paths yield nothing.
func (f *Formatter) Append(dst []string, c fsevents.Correlated) []string {
	suffix := ""
	if c.IsDir {
		suffix = isDir
	}
	switch c.Kind {
	case fsevents.EventsDropped:
		return dst
	case fsevents.Rename:
		if c.HasSrc && f.roots.IsWatched(c.Source) {
			dst = append(dst, c.Source+" "+movedFrom+suffix)
		}
		if c.HasDest && f.roots.IsWatched(c.Dest) {
			dst = append(dst, c.Dest+" "+movedTo+suffix)
		}
		return dst
	}
	if c.HasSrc && f.roots.IsWatched(c.Source) {
		dst = append(dst, c.Source+" "+c.Kind.String()+suffix)
	}
	return dst
}

// Lines returns the lines for c.
func (f *Formatter) Lines(c fsevents.Correlated) []string {
	return f.Append(nil, c)
}
