// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package source

import (
	"runtime"
	"testing"
	"time"

	"github.com/google/xnotifywait/internal/fsevents"
	"github.com/google/xnotifywait/internal/testutil"
)

var (
	_ Source = (*Device)(nil)
	_ Cloned = (*Device)(nil)
	_ Source = (*FakeSource)(nil)
)

func TestEventList(t *testing.T) {
	for _, tc := range []struct {
		name  string
		names []string
		want  []int8
	}{
		{
			name: "all",
			want: []int8{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
		},
		{
			name:  "create selects file and dir",
			names: []string{"CREATE"},
			want:  []int8{1, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0},
		},
		{
			name:  "mixed",
			names: []string{"delete", "RENAME", "MODIFY", "FSE_XATTR_REMOVED"},
			want:  []int8{0, 1, 0, 1, 1, 0, 0, 0, 0, 0, 1},
		},
		{
			name:  "repeated",
			names: []string{"FSE_CHOWN", "FSE_CHOWN"},
			want:  []int8{0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := EventList(tc.names)
			testutil.FatalIfErr(t, err)
			testutil.ExpectNoDiff(t, tc.want, got)
		})
	}
}

func TestEventListRejectsUnknown(t *testing.T) {
	_, err := EventList([]string{"CREATE", "CLOSE_WRITE"})
	testutil.ExpectErrorIs(t, err, fsevents.ErrUnknownKindName)
}

func TestOptionValidation(t *testing.T) {
	if _, err := newOptions(Events([]int8{1, 1})); err == nil {
		t.Error("short event list accepted")
	}
	if _, err := newOptions(QueueDepth(0)); err == nil {
		t.Error("zero queue depth accepted")
	}
	o, err := newOptions(QueueDepth(16))
	testutil.FatalIfErr(t, err)
	if o.queueDepth != 16 || len(o.eventList) != fsevents.NumKernelKinds {
		t.Errorf("got %+v", o)
	}
}

func TestOpenUnavailable(t *testing.T) {
	if runtime.GOOS == "darwin" {
		t.Skip("fsevents device may be present")
	}
	_, err := Open()
	testutil.ExpectErrorIs(t, err, ErrSourceUnavailable)
}

func TestFakeSourceReads(t *testing.T) {
	f := NewFakeSource([]byte("abc"), nil, []byte("defgh"))
	buf := make([]byte, 4)
	var got []string
	for i := 0; i < 3; i++ {
		n, err := f.Read(buf)
		testutil.FatalIfErr(t, err)
		got = append(got, string(buf[:n]))
	}
	testutil.ExpectNoDiff(t, []string{"abc", "", "defg"}, got)
}

func TestFakeSourceCloseUnblocksRead(t *testing.T) {
	f := NewFakeSource()
	errc := make(chan error, 1)
	go func() {
		_, err := f.Read(make([]byte, 8))
		errc <- err
	}()
	f.Inject([]byte("x"))
	testutil.FatalIfErr(t, <-errc)

	go func() {
		_, err := f.Read(make([]byte, 8))
		errc <- err
	}()
	testutil.FatalIfErr(t, f.Close())
	select {
	case err := <-errc:
		testutil.ExpectErrorIs(t, err, ErrClosed)
	case <-time.After(5 * time.Second):
		t.Fatal("Read did not return after Close")
	}
	// Closing twice is fine.
	testutil.FatalIfErr(t, f.Close())
}
