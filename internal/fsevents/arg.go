// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package fsevents

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// order is the byte order of the record stream, which the kernel writes in
// host order.
var order = binary.NativeEndian

// ArgType is the tag of one event argument.
type ArgType uint16

const (
	ArgVnode      ArgType = 0x0001
	ArgString     ArgType = 0x0002
	ArgPath       ArgType = 0x0003
	ArgInt32      ArgType = 0x0004
	ArgInt64      ArgType = 0x0005
	ArgRaw        ArgType = 0x0006
	ArgIno        ArgType = 0x0007
	ArgUID        ArgType = 0x0008
	ArgDev        ArgType = 0x0009
	ArgMode       ArgType = 0x000a
	ArgGID        ArgType = 0x000b
	ArgFinderInfo ArgType = 0x000c

	// ArgDone terminates the argument list of a record.  It has no length
	// field.
	ArgDone ArgType = 0xb33f
)

var argTypeNames = map[ArgType]string{
	ArgVnode:      "FSE_ARG_VNODE",
	ArgString:     "FSE_ARG_STRING",
	ArgPath:       "FSE_ARG_PATH",
	ArgInt32:      "FSE_ARG_INT32",
	ArgInt64:      "FSE_ARG_INT64",
	ArgRaw:        "FSE_ARG_RAW",
	ArgIno:        "FSE_ARG_INO",
	ArgUID:        "FSE_ARG_UID",
	ArgDev:        "FSE_ARG_DEV",
	ArgMode:       "FSE_ARG_MODE",
	ArgGID:        "FSE_ARG_GID",
	ArgFinderInfo: "FSE_ARG_FINFO",
	ArgDone:       "FSE_ARG_DONE",
}

func (t ArgType) String() string {
	if s, ok := argTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("FSE_ARG_UNKNOWN(%#04x)", uint16(t))
}

// Known reports whether the decoder interprets arguments of this type.
// Vnode and path arguments are kernel-internal and never interpreted.
func (t ArgType) Known() bool {
	switch t {
	case ArgString, ArgInt32, ArgInt64, ArgRaw, ArgIno, ArgUID, ArgDev, ArgMode, ArgGID, ArgFinderInfo:
		return true
	}
	return false
}

// Argument is one tagged, length-prefixed field of a record.  Data aliases
// the read buffer and is only valid until the buffer is next filled; the
// accessors copy what they return.
type Argument struct {
	Type ArgType
	Data []byte
}

// Len is the declared payload length.
func (a Argument) Len() int { return len(a.Data) }

// IsPath reports whether the argument carries a path.
func (a Argument) IsPath() bool { return a.Type == ArgString }

// Path returns the NUL-terminated string payload as a new string.
func (a Argument) Path() string {
	if i := bytes.IndexByte(a.Data, 0); i >= 0 {
		return string(a.Data[:i])
	}
	return string(a.Data)
}

// Int returns fixed-width integer payloads of 4 or 8 bytes.
func (a Argument) Int() (int64, bool) {
	switch len(a.Data) {
	case 4:
		return int64(int32(order.Uint32(a.Data))), true
	case 8:
		return int64(order.Uint64(a.Data)), true
	}
	return 0, false
}

// Mode returns the payload of a mode argument.  Malformed payloads yield 0.
func (a Argument) Mode() Mode {
	if a.Type != ArgMode || len(a.Data) != 4 {
		return 0
	}
	return Mode(order.Uint32(a.Data))
}

func (a Argument) String() string {
	switch a.Type {
	case ArgString:
		return fmt.Sprintf("%s(%d) %q", a.Type, len(a.Data), a.Path())
	case ArgMode:
		m := a.Mode()
		return fmt.Sprintf("%s(%d) %#o %s", a.Type, len(a.Data), uint32(m), m.FileType())
	case ArgInt32, ArgInt64, ArgIno, ArgUID, ArgDev, ArgGID:
		if v, ok := a.Int(); ok {
			return fmt.Sprintf("%s(%d) %d", a.Type, len(a.Data), v)
		}
	}
	return fmt.Sprintf("%s(%d)", a.Type, len(a.Data))
}

// Mode is a file mode word: permission bits plus the S_IFMT file type.
type Mode uint32

const (
	modeTypeMask Mode = 0o170000
	modeDir      Mode = 0o040000
)

// IsDir reports whether the directory bit is set.  This is a bit test, not
// a comparison of the whole S_IFMT field.
func (m Mode) IsDir() bool { return m&modeDir != 0 }

// VType is a vnode type.
type VType int

const (
	VNon VType = iota
	VReg
	VDir
	VBlk
	VChr
	VLnk
	VSock
	VFifo
	VBad
	VStr
	VCplx
)

var vtypeNames = [...]string{"VNON", "VREG", "VDIR", "VBLK", "VCHR", "VLNK", "VSOCK", "VFIFO", "VBAD", "VSTR", "VCPLX"}

func (v VType) String() string {
	if v < 0 || int(v) >= len(vtypeNames) {
		return "VBAD"
	}
	return vtypeNames[v]
}

// iftovt maps S_IFMT>>12 onto a vnode type.
var iftovt = [16]VType{
	VNon, VFifo, VChr, VNon, VDir, VNon, VBlk, VNon,
	VReg, VNon, VLnk, VNon, VSock, VNon, VNon, VBad,
}

// FileType returns the vnode type encoded in the mode's S_IFMT bits.
func (m Mode) FileType() VType {
	return iftovt[(m&modeTypeMask)>>12]
}
