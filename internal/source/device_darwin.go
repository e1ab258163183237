// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

//go:build darwin

package source

import (
	"os"
	"runtime"
	"strconv"
	"unsafe"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const devFsevents = "/dev/fsevents"

// Supported reports whether Open can succeed on this platform.
const Supported = true

// ioctl requests from <sys/fsevents.h>.
const (
	fseventsClone            = 0x80187301 // _IOW('s', 1, fsevent_clone_args)
	fseventsWantExtendedInfo = 0x20007366 // _IO('s', 102)
)

// cloneArgs is struct fsevent_clone_args.
type cloneArgs struct {
	eventList  *int8
	numEvents  int32
	queueDepth int32
	fd         *int32
}

// Device is a cloned /dev/fsevents descriptor.
type Device struct {
	f  *os.File
	fd int
}

// Open clones the fsevents device with the given options and asks for
// extended event info.
func Open(opts ...Option) (*Device, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	fd, err := unix.Open(devFsevents, unix.O_RDONLY, 0)
	if err != nil {
		return nil, errors.Wrapf(ErrSourceUnavailable, "open %s: %v", devFsevents, err)
	}
	// The clone stays valid after the device fd is closed.
	defer unix.Close(fd)

	clonefd := int32(-1)
	args := cloneArgs{
		eventList:  &o.eventList[0],
		numEvents:  int32(len(o.eventList)),
		queueDepth: o.queueDepth,
		fd:         &clonefd,
	}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), fseventsClone, uintptr(unsafe.Pointer(&args)))
	runtime.KeepAlive(o.eventList)
	if errno != 0 {
		return nil, errors.Wrapf(ErrSourceUnavailable, "ioctl FSEVENTS_CLONE: %v", errno)
	}
	glog.Infof("fsevents device cloned (fd %d)", clonefd)

	if err := unix.IoctlSetInt(int(clonefd), fseventsWantExtendedInfo, 0); err != nil {
		unix.Close(int(clonefd))
		return nil, errors.Wrapf(ErrSourceUnavailable, "ioctl FSEVENTS_WANT_EXTENDED_INFO: %v", err)
	}
	// A non-blocking descriptor is registered with the runtime poller, so
	// Close unblocks a pending Read.
	if err := unix.SetNonblock(int(clonefd), true); err != nil {
		glog.Warningf("fsevents fd %d stays blocking: %v", clonefd, err)
	}
	return &Device{
		f:  os.NewFile(uintptr(clonefd), devFsevents+"#"+strconv.Itoa(int(clonefd))),
		fd: int(clonefd),
	}, nil
}

// ClonedFd implements Cloned.
func (d *Device) ClonedFd() int { return d.fd }

// Read implements Source.
func (d *Device) Read(buf []byte) (int, error) {
	n, err := d.f.Read(buf)
	if errors.Is(err, os.ErrClosed) {
		return n, ErrClosed
	}
	return n, err
}

// Close implements Source.
func (d *Device) Close() error {
	err := d.f.Close()
	if errors.Is(err, os.ErrClosed) {
		return nil
	}
	return err
}
