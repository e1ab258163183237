// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package fsevents

import (
	"expvar"
	"fmt"

	"github.com/golang/glog"
)

// unknownArgs counts arguments skipped by length because their type is not
// interpreted, keyed by type tag.
var unknownArgs = expvar.NewMap("fsevents_unknown_args_total")

// Event is one decoded record.  Args alias the read buffer, and the slice
// itself is reused by the next Decode call on the same Decoder.
type Event struct {
	Kind    Kind
	RawKind int32 // Kernel event type with the flag bits cleared.
	Flags   Flags
	Pid     int32
	Args    []Argument
}

// Decoder turns Records into Events.  It is not safe for concurrent use.
type Decoder struct {
	args []Argument
}

// NewDecoder returns a Decoder.
func NewDecoder() *Decoder {
	return &Decoder{args: make([]Argument, 0, 16)}
}

// Decode decodes r.  An event type outside the known range is a
// ProtocolError.
//
// An events-dropped marker is not a filesystem event.  It decodes to a bare
// marker Event of kind EventsDropped with no arguments, so the caller can
// count the loss and skip it.  Correlate extracts no paths from it, and
// it never produces an output line.
func (d *Decoder) Decode(r Record) (*Event, error) {
	if len(r.Data) < headerSize {
		return nil, truncated(r.Offset, 0, "record is %d bytes", len(r.Data))
	}
	raw := r.RawKind()
	ev := &Event{RawKind: raw, Pid: r.Pid(), Args: d.args[:0]}
	if raw == FSEEventsDropped {
		ev.Kind = EventsDropped
		return ev, nil
	}
	k, ok := KernelKind(raw)
	if !ok {
		return nil, &ProtocolError{Offset: r.Offset, RawKind: raw, Err: ErrKindOutOfRange}
	}
	ev.Kind = k
	ev.RawKind = raw & typeMask
	ev.Flags = flagsOf(raw)

	b := r.Data
	off := headerSize
	for {
		if len(b)-off < tagSize {
			return nil, truncated(r.Offset, raw, "argument list not terminated")
		}
		t := ArgType(order.Uint16(b[off:]))
		if t == ArgDone {
			break
		}
		if len(b)-off < argHeaderSize {
			return nil, truncated(r.Offset, raw, "argument header cut short")
		}
		l := int(order.Uint16(b[off+tagSize:]))
		start := off + argHeaderSize
		if len(b)-start < l {
			return nil, truncated(r.Offset, raw, "argument declares %d bytes, %d remain", l, len(b)-start)
		}
		a := Argument{Type: t, Data: b[start : start+l : start+l]}
		if !t.Known() {
			unknownArgs.Add(fmt.Sprintf("%#04x", uint16(t)), 1)
		}
		if glog.V(2) {
			glog.Infof("pid %d %s arg %s", ev.Pid, ev.Kind, a)
		}
		ev.Args = append(ev.Args, a)
		off = start + l
	}
	d.args = ev.Args
	return ev, nil
}
