// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package fsevents

// Correlated is the path view of an Event.  Its strings are copies, so it
// stays valid after the read buffer is refilled.
type Correlated struct {
	Kind    Kind
	Pid     int32
	Source  string
	HasSrc  bool
	Dest    string // Only set for Rename.
	HasDest bool
	IsDir   bool
}

// Paths returns how many paths Correlate extracts for events of kind k.
func Paths(k Kind) int {
	switch k {
	case Create, Delete, StatChanged, ContentModified, Chown:
		return 1
	case Rename:
		return 2
	}
	return 0
}

// Correlate extracts the paths of ev.  Single-path kinds take the first path
// argument and ignore any later ones.  Rename takes the first path as the
// source and the second, if present, as the destination.  Kinds that carry
// no path yield neither.
//
// For path-bearing kinds the first mode argument decides IsDir and any later
// mode arguments are ignored, even when they disagree.  With extended info
// the first mode is the one that follows the primary path.
func Correlate(ev *Event) Correlated {
	c := Correlated{Kind: ev.Kind, Pid: ev.Pid}
	want := Paths(ev.Kind)
	if want == 0 {
		return c
	}
	seenMode := false
	for _, a := range ev.Args {
		switch {
		case a.IsPath():
			switch {
			case !c.HasSrc:
				c.Source, c.HasSrc = a.Path(), true
			case want == 2 && !c.HasDest:
				c.Dest, c.HasDest = a.Path(), true
			}
		case a.Type == ArgMode && !seenMode:
			c.IsDir = a.Mode().IsDir()
			seenMode = true
		}
	}
	return c
}
