// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

// Package fsevents decodes the binary record stream read from a darwin
// /dev/fsevents clone device into Events, and correlates the paths each
// Event carries.
package fsevents

import (
	"strings"

	"github.com/pkg/errors"
)

// Kernel event type values, as written in the record header.
const (
	FSECreateFile        int32 = 0
	FSEDelete            int32 = 1
	FSEStatChanged       int32 = 2
	FSERename            int32 = 3
	FSEContentModified   int32 = 4
	FSEExchange          int32 = 5
	FSEFinderInfoChanged int32 = 6
	FSECreateDir         int32 = 7
	FSEChown             int32 = 8
	FSEXattrModified     int32 = 9
	FSEXattrRemoved      int32 = 10

	// FSEEventsDropped marks a zero-argument record announcing that the
	// kernel discarded events before they could be read.
	FSEEventsDropped int32 = 999
)

// NumKernelKinds is the number of kernel event types this decoder accepts.
// It is also the length of the event list handed to the device at clone
// time.
const NumKernelKinds = 11

const (
	typeMask  = 0x0fff
	flagShift = 12
	flagMask  = 0x000f
)

// Flags are the bits the kernel stores above the event type.
type Flags uint8

const (
	FlagCombinedEvents        Flags = 0x1
	FlagContainsDroppedEvents Flags = 0x2
)

// Kind is the canonical kind of a decoded event.
type Kind int

const (
	Create Kind = iota
	Delete
	StatChanged
	Rename
	ContentModified
	Exchange
	FinderInfoChanged
	Chown
	XattrModified
	XattrRemoved
	EventsDropped
)

// kernelKinds maps a masked kernel event type onto its Kind.  File and
// directory creation share a Kind.
var kernelKinds = [NumKernelKinds]Kind{
	FSECreateFile:        Create,
	FSEDelete:            Delete,
	FSEStatChanged:       StatChanged,
	FSERename:            Rename,
	FSEContentModified:   ContentModified,
	FSEExchange:          Exchange,
	FSEFinderInfoChanged: FinderInfoChanged,
	FSECreateDir:         Create,
	FSEChown:             Chown,
	FSEXattrModified:     XattrModified,
	FSEXattrRemoved:      XattrRemoved,
}

var kindNames = map[Kind]string{
	Create:            "CREATE",
	Delete:            "DELETE",
	StatChanged:       "FSE_STAT_CHANGED",
	Rename:            "RENAME",
	ContentModified:   "MODIFY",
	Exchange:          "FSE_EXCHANGE",
	FinderInfoChanged: "FSE_FINDER_INFO_CHANGED",
	Chown:             "FSE_CHOWN",
	XattrModified:     "FSE_XATTR_MODIFIED",
	XattrRemoved:      "FSE_XATTR_REMOVED",
	EventsDropped:     "EVENTS_DROPPED",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// ErrUnknownKindName is returned by ParseKind for names that do not denote a
// subscribable kind.
var ErrUnknownKindName = errors.New("unknown event kind name")

// ParseKind returns the Kind named by s, case-insensitively.  EVENTS_DROPPED
// is not a subscribable kind and is rejected.
func ParseKind(s string) (Kind, error) {
	u := strings.ToUpper(strings.TrimSpace(s))
	for k, name := range kindNames {
		if k != EventsDropped && name == u {
			return k, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownKindName, "%q", s)
}

// KernelKind returns the Kind for a raw kernel event type, after masking off
// the flag bits.  ok is false when the type is outside the accepted range.
func KernelKind(raw int32) (k Kind, ok bool) {
	t := raw & typeMask
	if t >= NumKernelKinds {
		return 0, false
	}
	return kernelKinds[t], true
}

func flagsOf(raw int32) Flags {
	return Flags((raw >> flagShift) & flagMask)
}
