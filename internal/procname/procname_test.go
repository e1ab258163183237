// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package procname

import (
	"errors"
	"os"
	"runtime"
	"testing"
	"time"

	"github.com/google/xnotifywait/internal/testutil"
)

type fakeLookup struct {
	names map[int32]string
	calls map[int32]int
}

func (f *fakeLookup) lookup(pid int32) (string, error) {
	f.calls[pid]++
	name, ok := f.names[pid]
	if !ok {
		return "", errors.New("no such pid")
	}
	return name, nil
}

func newTestCache(size int, names map[int32]string) (*Cache, *fakeLookup, *time.Time) {
	f := &fakeLookup{names: names, calls: map[int32]int{}}
	now := time.Unix(1700000000, 0)
	c := NewCache(size, time.Second)
	c.lookup = f.lookup
	c.now = func() time.Time { return now }
	return c, f, &now
}

func TestName(t *testing.T) {
	c, _, _ := newTestCache(8, map[int32]string{1: "launchd", 2: ""})
	got := []string{c.Name(1), c.Name(2), c.Name(3)}
	testutil.ExpectNoDiff(t, []string{"launchd", "exited?", "?"}, got)
}

func TestNameCachesUntilExpiry(t *testing.T) {
	defer testutil.ExpectExpvarDelta(t, "procname_lookup_errors_total", 2)()
	c, f, now := newTestCache(8, map[int32]string{7: "mds"})
	c.Name(7)
	c.Name(7)
	c.Name(9)
	c.Name(9)
	testutil.ExpectNoDiff(t, map[int32]int{7: 1, 9: 1}, f.calls)

	f.names[7] = "mds_stores"
	*now = now.Add(2 * time.Second)
	if got := c.Name(7); got != "mds_stores" {
		t.Errorf("after expiry got %q", got)
	}
	c.Name(9)
	testutil.ExpectNoDiff(t, map[int32]int{7: 2, 9: 2}, f.calls)
}

func TestNameEvictsOldest(t *testing.T) {
	c, f, _ := newTestCache(2, map[int32]string{1: "a", 2: "b", 3: "c"})
	c.Name(1)
	c.Name(2)
	c.Name(3)
	c.Name(1)
	testutil.ExpectNoDiff(t, map[int32]int{1: 2, 2: 1, 3: 1}, f.calls)
}

func TestLookupSelf(t *testing.T) {
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
		t.Skip("no process name lookup on " + runtime.GOOS)
	}
	name, err := lookup(int32(os.Getpid()))
	testutil.FatalIfErr(t, err)
	if name == "" {
		t.Error("empty name for the running process")
	}
}
