// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/xnotifywait/internal/testutil"
)

func TestAbsRoots(t *testing.T) {
	wd, err := os.Getwd()
	testutil.FatalIfErr(t, err)
	got, err := absRoots([]string{"/Users/a", "rel", "./b/../c"})
	testutil.FatalIfErr(t, err)
	testutil.ExpectNoDiff(t, []string{"/Users/a", filepath.Join(wd, "rel"), filepath.Join(wd, "c")}, got)
}

func TestSeqStringFlag(t *testing.T) {
	var f seqStringFlag
	testutil.FatalIfErr(t, f.Set("CREATE, DELETE"))
	testutil.FatalIfErr(t, f.Set("RENAME,"))
	testutil.ExpectNoDiff(t, seqStringFlag{"CREATE", "DELETE", "RENAME"}, f)
}
