// Copyright 2024 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package waker_test

import (
	"testing"

	"github.com/google/xnotifywait/internal/waker"
)

func TestTestWakerWakes(t *testing.T) {
	w := waker.NewTest()
	c := w.Wake()
	<-w.Called()
	select {
	case x := <-c:
		t.Errorf("<-w.Wake() == %v, expected nothing (should block)", x)
	default:
	}
	w.Broadcast()
	select {
	case <-c:
	default:
		t.Errorf("<-w.Wake() blocked, expected close")
	}
	d := w.Wake()
	if d == c {
		t.Errorf("wake channel was not reset after Broadcast")
	}
	select {
	case <-d:
		t.Errorf("new wake channel is already closed")
	default:
	}
}
