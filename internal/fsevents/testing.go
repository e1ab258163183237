// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package fsevents

// Builder assembles a record stream in the layout the device writes it.  It
// is used to construct test input.
type Builder struct {
	buf []byte
}

// Record appends a record with the given raw type, pid, and arguments, then
// the terminator.
func (b *Builder) Record(raw, pid int32, args ...Argument) *Builder {
	b.buf = order.AppendUint32(b.buf, uint32(raw))
	b.buf = order.AppendUint32(b.buf, uint32(pid))
	for _, a := range args {
		b.buf = order.AppendUint16(b.buf, uint16(a.Type))
		b.buf = order.AppendUint16(b.buf, uint16(len(a.Data)))
		b.buf = append(b.buf, a.Data...)
	}
	b.buf = order.AppendUint16(b.buf, uint16(ArgDone))
	return b
}

// Dropped appends an events-dropped marker.
func (b *Builder) Dropped() *Builder {
	b.buf = order.AppendUint32(b.buf, uint32(FSEEventsDropped))
	b.buf = order.AppendUint32(b.buf, 0)
	b.buf = order.AppendUint16(b.buf, uint16(ArgDone))
	return b
}

// Bytes returns the stream built so far.
func (b *Builder) Bytes() []byte { return b.buf }

// Len returns the length of the stream built so far.
func (b *Builder) Len() int { return len(b.buf) }

// PathArg returns a string argument holding p and its NUL terminator.
func PathArg(p string) Argument {
	d := make([]byte, len(p)+1)
	copy(d, p)
	return Argument{Type: ArgString, Data: d}
}

// ModeArg returns a mode argument.
func ModeArg(m Mode) Argument {
	return Argument{Type: ArgMode, Data: order.AppendUint32(nil, uint32(m))}
}

// Int32Arg returns a four byte argument of type t.
func Int32Arg(t ArgType, v int32) Argument {
	return Argument{Type: t, Data: order.AppendUint32(nil, uint32(v))}
}

// Int64Arg returns an eight byte argument of type t.
func Int64Arg(t ArgType, v int64) Argument {
	return Argument{Type: t, Data: order.AppendUint64(nil, uint64(v))}
}

// RawArg returns an argument of type t with payload data.
func RawArg(t ArgType, data []byte) Argument {
	return Argument{Type: t, Data: append([]byte(nil), data...)}
}

// ExtendedArgs returns the attribute arguments the device appends after a
// path when extended info is requested: device, inode, mode, uid, gid.
func ExtendedArgs(m Mode) []Argument {
	return []Argument{
		Int32Arg(ArgDev, 16777220),
		Int64Arg(ArgIno, 1234567),
		ModeArg(m),
		Int32Arg(ArgUID, 501),
		Int32Arg(ArgGID, 20),
	}
}
