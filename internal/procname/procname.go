// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

// Package procname maps pids to short process names for diagnostics.
package procname

import (
	"expvar"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/golang/groupcache/lru"
)

var lookupErrors = expvar.NewInt("procname_lookup_errors_total")

const (
	unknownName = "?"
	exitedName  = "exited?"
)

// Default cache parameters.  Pids are recycled, so entries expire quickly.
const (
	DefaultSize = 256
	DefaultTTL  = 2 * time.Second
)

type entry struct {
	name string
	at   time.Time
}

// Cache is a bounded, expiring memo of pid lookups.  It is safe for
// concurrent use.
type Cache struct {
	mu     sync.Mutex
	c      *lru.Cache // pid -> entry
	ttl    time.Duration
	lookup func(pid int32) (string, error)
	now    func() time.Time
}

// NewCache returns a Cache holding up to size names for ttl each.
func NewCache(size int, ttl time.Duration) *Cache {
	return &Cache{
		c:      lru.New(size),
		ttl:    ttl,
		lookup: lookup,
		now:    time.Now,
	}
}

// Name returns the short name of pid: "?" if the lookup failed and
// "exited?" if the process has no name, usually because it is gone.
func (c *Cache) Name(pid int32) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if v, ok := c.c.Get(pid); ok {
		e := v.(entry)
		if now.Sub(e.at) < c.ttl {
			return e.name
		}
		c.c.Remove(pid)
	}
	name, err := c.lookup(pid)
	switch {
	case err != nil:
		glog.V(2).Infof("pid %d: %s", pid, err)
		lookupErrors.Add(1)
		name = unknownName
	case name == "":
		name = exitedName
	}
	c.c.Add(pid, entry{name, now})
	return name
}
