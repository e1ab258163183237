// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package fsevents

import (
	"testing"

	"github.com/google/xnotifywait/internal/testutil"
)

func TestCorrelate(t *testing.T) {
	for _, tc := range []struct {
		name string
		raw  int32
		args []Argument
		want Correlated
	}{
		{
			name: "create file",
			raw:  FSECreateFile,
			args: append([]Argument{PathArg("/Users/a/f")}, ExtendedArgs(0o100644)...),
			want: Correlated{Kind: Create, Pid: 5, Source: "/Users/a/f", HasSrc: true},
		},
		{
			name: "create dir by mode",
			raw:  FSECreateDir,
			args: append([]Argument{PathArg("/Users/a/d")}, ExtendedArgs(0o40755)...),
			want: Correlated{Kind: Create, Pid: 5, Source: "/Users/a/d", HasSrc: true, IsDir: true},
		},
		{
			name: "single path kinds take the first path",
			raw:  FSEDelete,
			args: []Argument{PathArg("/first"), PathArg("/second")},
			want: Correlated{Kind: Delete, Pid: 5, Source: "/first", HasSrc: true},
		},
		{
			name: "first mode wins",
			raw:  FSEStatChanged,
			args: []Argument{PathArg("/s"), ModeArg(0o100644), ModeArg(0o40755)},
			want: Correlated{Kind: StatChanged, Pid: 5, Source: "/s", HasSrc: true},
		},
		{
			name: "later disagreeing mode is ignored",
			raw:  FSERename,
			args: []Argument{PathArg("/Users/a/old"), ModeArg(0o40755), PathArg("/Users/a/new"), ModeArg(0o100644)},
			want: Correlated{Kind: Rename, Pid: 5, Source: "/Users/a/old", HasSrc: true, Dest: "/Users/a/new", HasDest: true, IsDir: true},
		},
		{
			name: "rename two sides",
			raw:  FSERename,
			args: []Argument{PathArg("/Users/a/old"), ModeArg(0o40755), PathArg("/Users/b/new")},
			want: Correlated{Kind: Rename, Pid: 5, Source: "/Users/a/old", HasSrc: true, Dest: "/Users/b/new", HasDest: true, IsDir: true},
		},
		{
			name: "rename source only",
			raw:  FSERename,
			args: []Argument{PathArg("/Users/a/old")},
			want: Correlated{Kind: Rename, Pid: 5, Source: "/Users/a/old", HasSrc: true},
		},
		{
			name: "rename ignores a third path",
			raw:  FSERename,
			args: []Argument{PathArg("/a"), PathArg("/b"), PathArg("/c")},
			want: Correlated{Kind: Rename, Pid: 5, Source: "/a", HasSrc: true, Dest: "/b", HasDest: true},
		},
		{
			name: "modify and chown",
			raw:  FSEChown,
			args: []Argument{Int32Arg(ArgUID, 0), PathArg("/c")},
			want: Correlated{Kind: Chown, Pid: 5, Source: "/c", HasSrc: true},
		},
		{
			name: "exchange carries no paths",
			raw:  FSEExchange,
			args: []Argument{PathArg("/a"), ModeArg(0o40755), PathArg("/b")},
			want: Correlated{Kind: Exchange, Pid: 5},
		},
		{
			name: "xattr carries no paths",
			raw:  FSEXattrRemoved,
			args: []Argument{PathArg("/a")},
			want: Correlated{Kind: XattrRemoved, Pid: 5},
		},
		{
			name: "no path argument",
			raw:  FSEContentModified,
			args: []Argument{ModeArg(0o40755)},
			want: Correlated{Kind: ContentModified, Pid: 5, IsDir: true},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			evs := decodeAll(t, (&Builder{}).Record(tc.raw, 5, tc.args...).Bytes())
			testutil.ExpectNoDiff(t, tc.want, Correlate(&evs[0]))
		})
	}
}

func TestCorrelatedOutlivesBuffer(t *testing.T) {
	buf := (&Builder{}).Record(FSERename, 1, PathArg("/Users/a/old"), PathArg("/Users/a/new")).Bytes()
	c := NewCursor(buf, len(buf))
	if !c.Next() {
		t.Fatal(c.Err())
	}
	ev, err := NewDecoder().Decode(c.Record())
	testutil.FatalIfErr(t, err)
	got := Correlate(ev)
	for i := range buf {
		buf[i] = 'X'
	}
	if got.Source != "/Users/a/old" || got.Dest != "/Users/a/new" {
		t.Errorf("paths changed with the buffer: %+v", got)
	}
}
