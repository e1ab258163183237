// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package fsevents

import (
	"errors"
	"testing"
)

func FuzzDecode(f *testing.F) {
	f.Add((&Builder{}).
		Record(FSERename, 7, PathArg("/Users/a/old"), ModeArg(0o100644), PathArg("/Users/b/new")).
		Dropped().
		Record(FSECreateFile, 8, append([]Argument{PathArg("/Users/a/x")}, ExtendedArgs(0o40755)...)...).
		Bytes())
	f.Add([]byte{})
	f.Add([]byte{0xe7, 0x03, 0, 0, 0, 0, 0x3f})
	f.Fuzz(func(t *testing.T, buf []byte) {
		d := NewDecoder()
		c := NewCursor(buf, len(buf))
		consumed := 0
		for c.Next() {
			r := c.Record()
			if r.Offset != consumed {
				t.Fatalf("record at %d, want %d", r.Offset, consumed)
			}
			consumed += len(r.Data)
			ev, err := d.Decode(r)
			if err != nil {
				if !errors.Is(err, ErrKindOutOfRange) {
					t.Fatalf("Decode of a cursor record: %v", err)
				}
				continue
			}
			Correlate(ev)
		}
		if err := c.Err(); err != nil {
			if !errors.Is(err, ErrProtocolDesync) {
				t.Fatalf("unexpected cursor error %v", err)
			}
			return
		}
		if consumed != len(buf) {
			t.Fatalf("consumed %d of %d bytes without error", consumed, len(buf))
		}
	})
}
