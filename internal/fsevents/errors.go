// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package fsevents

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrProtocolDesync means the decoder can no longer trust its offset into
	// the buffer.  There is no safe way to resynchronise.
	ErrProtocolDesync = errors.New("fsevents protocol desync")

	// ErrTruncated is a desync caused by a header or argument length running
	// past the valid length of the buffer.
	ErrTruncated = errors.New("record truncated")

	// ErrKindOutOfRange is a desync caused by an event type outside the known
	// range.
	ErrKindOutOfRange = errors.New("event type out of range")
)

// ProtocolError describes where and why decoding lost synchronisation.
type ProtocolError struct {
	Offset  int   // Byte offset of the record in the buffer.
	RawKind int32 // Event type as read, flags included.
	Err     error // ErrTruncated or ErrKindOutOfRange.
	Detail  string
}

func (e *ProtocolError) Error() string {
	s := fmt.Sprintf("%s at offset %d: %s", ErrProtocolDesync, e.Offset, e.Err)
	if e.Err == ErrKindOutOfRange {
		s += fmt.Sprintf(" (type = %d)", e.RawKind)
	}
	if e.Detail != "" {
		s += ": " + e.Detail
	}
	return s
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// Is makes every ProtocolError match ErrProtocolDesync.
func (e *ProtocolError) Is(target error) bool { return target == ErrProtocolDesync }

func truncated(offset int, raw int32, format string, args ...interface{}) error {
	return &ProtocolError{Offset: offset, RawKind: raw, Err: ErrTruncated, Detail: fmt.Sprintf(format, args...)}
}
