// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package roots

import (
	"errors"
	"testing"

	"github.com/google/xnotifywait/internal/testutil"
)

func TestIsWatched(t *testing.T) {
	for _, tc := range []struct {
		name  string
		roots []string
		path  string
		want  bool
	}{
		{"under root", []string{"/Users/a"}, "/Users/a/file.txt", true},
		{"prefix looseness", []string{"/Users/a"}, "/Users/ab/file.txt", true},
		{"other tree", []string{"/Users/a"}, "/Users/b", false},
		{"root itself", []string{"/Users/a"}, "/Users/a", true},
		{"parent of root", []string{"/Users/a"}, "/Users", false},
		{"second root", []string{"/tmp", "/Users/b"}, "/Users/b/new", true},
		{"trailing slash root", []string{"/Users/a/"}, "/Users/ab", false},
		{"case sensitive", []string{"/Users/a"}, "/users/a/x", false},
		{"empty path", []string{"/Users/a"}, "", false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s, err := New(tc.roots...)
			testutil.FatalIfErr(t, err)
			if got := s.IsWatched(tc.path); got != tc.want {
				t.Errorf("IsWatched(%q) = %v, want %v", tc.path, got, tc.want)
			}
			// Same inputs, same answer.
			if got := s.IsWatched(tc.path); got != tc.want {
				t.Errorf("second IsWatched(%q) = %v, want %v", tc.path, got, tc.want)
			}
			testutil.ExpectNoDiff(t, PathMatch{tc.path, tc.want}, s.Match(tc.path))
		})
	}
}

func TestNewSortsAndCopies(t *testing.T) {
	in := []string{"/z", "/a", "/m", "/a"}
	s, err := New(in...)
	testutil.FatalIfErr(t, err)
	testutil.ExpectNoDiff(t, []string{"/a", "/m", "/z"}, s.Roots())
	in[0] = "/changed"
	testutil.ExpectNoDiff(t, []string{"/a", "/m", "/z"}, s.Roots())
	r := s.Roots()
	r[0] = "/changed"
	testutil.ExpectNoDiff(t, []string{"/a", "/m", "/z"}, s.Roots())
}

func TestNewRejects(t *testing.T) {
	if _, err := New(); !errors.Is(err, ErrNoRoots) {
		t.Errorf("New() error = %v, want %v", err, ErrNoRoots)
	}
	if _, err := New("/a", ""); !errors.Is(err, ErrEmptyRoot) {
		t.Errorf("New with empty root error = %v, want %v", err, ErrEmptyRoot)
	}
}
