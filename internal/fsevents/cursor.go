// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package fsevents

const (
	headerSize    = 8 // int32 type, int32 pid
	tagSize       = 2
	argHeaderSize = 4 // uint16 type, uint16 len
)

// Record is the byte span of one raw record inside a read buffer: the
// header, every argument, and the terminator.  It aliases the buffer.
type Record struct {
	Offset int
	Data   []byte
}

// RawKind returns the event type field as written, flags included.
func (r Record) RawKind() int32 { return int32(order.Uint32(r.Data)) }

// Pid returns the id of the process that caused the event.
func (r Record) Pid() int32 { return int32(order.Uint32(r.Data[4:])) }

// IsDropped reports whether this is an events-dropped marker.
func (r Record) IsDropped() bool { return r.RawKind() == FSEEventsDropped }

// Cursor walks the records of one buffer fill.  Each step advances by the
// header size plus the declared length of every argument, so it never
// interprets payloads.  A Cursor is not restartable.
type Cursor struct {
	buf []byte // valid bytes only
	off int
	rec Record
	err error
}

// NewCursor returns a Cursor over the first n bytes of buf.
func NewCursor(buf []byte, n int) *Cursor {
	if n > len(buf) {
		n = len(buf)
	}
	if n < 0 {
		n = 0
	}
	return &Cursor{buf: buf[:n]}
}

// Next advances to the next record, which is then available from Record.
// It returns false at the end of the valid bytes or on error.
func (c *Cursor) Next() bool {
	if c.err != nil || c.off >= len(c.buf) {
		return false
	}
	end, err := c.recordEnd(c.off)
	if err != nil {
		c.err = err
		return false
	}
	c.rec = Record{Offset: c.off, Data: c.buf[c.off:end]}
	c.off = end
	return true
}

// Record returns the record found by the last call to Next.
func (c *Cursor) Record() Record { return c.rec }

// Err returns the error, if any, that stopped the Cursor.  Reaching the end
// of the valid bytes is not an error.
func (c *Cursor) Err() error { return c.err }

// Consumed is the number of bytes covered by the records returned so far.
func (c *Cursor) Consumed() int { return c.off }

// recordEnd returns the offset one past the record starting at start.
func (c *Cursor) recordEnd(start int) (int, error) {
	b := c.buf
	if len(b)-start < headerSize {
		return 0, truncated(start, 0, "%d bytes left for a %d byte header", len(b)-start, headerSize)
	}
	raw := int32(order.Uint32(b[start:]))
	off := start + headerSize
	if raw == FSEEventsDropped {
		if len(b)-off < tagSize {
			return 0, truncated(start, raw, "events dropped marker has no terminator")
		}
		return off + tagSize, nil
	}
	for {
		if len(b)-off < tagSize {
			return 0, truncated(start, raw, "argument list not terminated")
		}
		if ArgType(order.Uint16(b[off:])) == ArgDone {
			return off + tagSize, nil
		}
		if len(b)-off < argHeaderSize {
			return 0, truncated(start, raw, "argument header at offset %d cut short", off)
		}
		l := int(order.Uint16(b[off+tagSize:]))
		if len(b)-off-argHeaderSize < l {
			return 0, truncated(start, raw, "argument at offset %d declares %d bytes, %d remain", off, l, len(b)-off-argHeaderSize)
		}
		off += argHeaderSize + l
	}
}
