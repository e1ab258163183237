// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

// Package roots holds the set of watched root paths and decides whether an
// event path falls under one of them.
package roots

import (
	"slices"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrNoRoots   = errors.New("no watch roots given")
	ErrEmptyRoot = errors.New("empty watch root")
)

// RootSet is a sorted, immutable set of root paths.  It is safe for
// concurrent use.
type RootSet struct {
	roots []string
}

// New returns a RootSet of the given roots, sorted and without duplicates.
func New(roots ...string) (*RootSet, error) {
	if len(roots) == 0 {
		return nil, ErrNoRoots
	}
	s := slices.Clone(roots)
	for i, r := range s {
		if r == "" {
			return nil, errors.Wrapf(ErrEmptyRoot, "argument %d", i+1)
		}
	}
	slices.Sort(s)
	return &RootSet{roots: slices.Compact(s)}, nil
}

// Roots returns a copy of the sorted roots.
func (s *RootSet) Roots() []string { return slices.Clone(s.roots) }

// IsWatched reports whether path starts with any root.  The comparison is a
// literal byte prefix, not a path segment match: a root of /a/b also
// watches /a/bc.
func (s *RootSet) IsWatched(path string) bool {
	for _, r := range s.roots {
		if strings.HasPrefix(path, r) {
			return true
		}
	}
	return false
}

// PathMatch is a path with its watched status.
type PathMatch struct {
	Path      string
	IsWatched bool
}

// Match returns the PathMatch for path.
func (s *RootSet) Match(path string) PathMatch {
	return PathMatch{Path: path, IsWatched: s.IsWatched(path)}
}
