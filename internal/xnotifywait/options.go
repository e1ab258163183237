// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package xnotifywait

import (
	"net"

	"contrib.go.opencensus.io/exporter/jaeger"
	"github.com/google/xnotifywait/internal/procname"
	"github.com/google/xnotifywait/internal/waker"
	"github.com/pkg/errors"
	"go.opencensus.io/trace"
)

// Option configures xnotifywait.Server
type Option interface {
	apply(*Server) error
}

// BindAddress sets the HTTP server address in Server.  An empty port
// leaves the HTTP server off.
func BindAddress(address, port string) Option {
	return &bindAddress{address, port}
}

type bindAddress struct {
	address, port string
}

func (opt bindAddress) apply(m *Server) error {
	if opt.port == "" {
		return nil
	}
	if m.listener != nil {
		return errors.New("HTTP server bind address already supplied")
	}
	var err error
	m.listener, err = net.Listen("tcp", net.JoinHostPort(opt.address, opt.port))
	return err
}

// BindListener serves HTTP on an existing listener.
func BindListener(l net.Listener) Option {
	return &bindListener{l}
}

type bindListener struct {
	net.Listener
}

func (opt bindListener) apply(m *Server) error {
	if m.listener != nil {
		return errors.New("HTTP server bind address already supplied")
	}
	m.listener = opt.Listener
	return nil
}

// SetBuildInfo sets the xnotifywait program build information in the Server.
type SetBuildInfo BuildInfo

func (opt SetBuildInfo) apply(m *Server) error {
	m.buildInfo = BuildInfo(opt)
	return nil
}

// BufferSize sets the size of the read buffer.
type BufferSize int

func (opt BufferSize) apply(m *Server) error {
	if opt <= 0 {
		return errors.Errorf("buffer size must be positive, got %d", int(opt))
	}
	m.buf = make([]byte, int(opt))
	return nil
}

// EmptyReadWaker sets the Waker the read loop waits on after a zero byte
// read or a failed read.
func EmptyReadWaker(w waker.Waker) Option {
	return &emptyReadWaker{w}
}

type emptyReadWaker struct {
	waker.Waker
}

func (opt emptyReadWaker) apply(m *Server) error {
	m.emptyReadWaker = opt.Waker
	return nil
}

// ProcessNames sets the cache used to name pids in diagnostics.
func ProcessNames(c *procname.Cache) Option {
	return &processNames{c}
}

type processNames struct {
	*procname.Cache
}

func (opt processNames) apply(m *Server) error {
	m.procnames = opt.Cache
	return nil
}

type niladicOption struct {
	applyfunc func(m *Server) error
}

func (n *niladicOption) apply(m *Server) error {
	return n.applyfunc(m)
}

// Quiet stops the Server from printing the clone and ready banners.
var Quiet = &niladicOption{
	func(m *Server) error {
		m.quiet = true
		return nil
	}}

// SilenceDropped stops the Server from logging a warning for each
// events-dropped marker.  Drops are still counted.
var SilenceDropped = &niladicOption{
	func(m *Server) error {
		m.silenceDropped = true
		return nil
	}}

// JaegerReporter creates a new jaeger reporter that sends to the given Jaeger endpoint address.
type JaegerReporter string

func (opt JaegerReporter) apply(m *Server) error {
	je, err := jaeger.NewExporter(jaeger.Options{
		CollectorEndpoint: string(opt),
		Process: jaeger.Process{
			ServiceName: "xnotifywait",
		},
	})
	if err != nil {
		return err
	}
	trace.RegisterExporter(je)
	return nil
}
