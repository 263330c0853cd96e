package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeFiresInDeadlineOrder(t *testing.T) {
	c := NewFake(epoch)
	var order []string

	c.AfterFunc(30*time.Millisecond, func() { order = append(order, "c") })
	c.AfterFunc(10*time.Millisecond, func() { order = append(order, "a") })
	c.AfterFunc(20*time.Millisecond, func() { order = append(order, "b") })

	c.Advance(15 * time.Millisecond)
	if len(order) != 1 || order[0] != "a" {
		t.Fatalf("after 15ms fired %v, expected [a]", order)
	}

	c.Advance(15 * time.Millisecond)
	if len(order) != 3 || order[1] != "b" || order[2] != "c" {
		t.Fatalf("after 30ms fired %v, expected [a b c]", order)
	}

	if got := c.Now().Sub(epoch); got != 30*time.Millisecond {
		t.Errorf("Now() advanced by %v, expected 30ms", got)
	}
}

func TestFakeStop(t *testing.T) {
	c := NewFake(epoch)
	fired := false

	timer := c.AfterFunc(time.Second, func() { fired = true })
	if !timer.Stop() {
		t.Error("first Stop should report true")
	}
	if timer.Stop() {
		t.Error("second Stop should report false")
	}

	c.Advance(2 * time.Second)
	if fired {
		t.Error("stopped timer should not fire")
	}
	if c.Pending() != 0 {
		t.Errorf("Pending() = %d, expected 0", c.Pending())
	}
}

func TestFakeChainedTimers(t *testing.T) {
	c := NewFake(epoch)
	count := 0

	var rearm func()
	rearm = func() {
		count++
		c.AfterFunc(100*time.Millisecond, rearm)
	}
	c.AfterFunc(100*time.Millisecond, rearm)

	c.Advance(550 * time.Millisecond)
	if count != 5 {
		t.Errorf("periodic callback fired %d times, expected 5", count)
	}

	d, ok := c.NextDeadline()
	if !ok || d != 50*time.Millisecond {
		t.Errorf("NextDeadline() = %v, %v; expected 50ms, true", d, ok)
	}
}

func TestRealDispatchesThroughPost(t *testing.T) {
	posted := make(chan func(), 1)
	c := NewReal(func(fn func()) bool {
		posted <- fn
		return true
	})

	fired := false
	c.AfterFunc(time.Millisecond, func() { fired = true })

	select {
	case fn := <-posted:
		if fired {
			t.Fatal("callback ran before the loop executed it")
		}
		fn()
		if !fired {
			t.Error("posted func should run the callback")
		}
	case <-time.After(time.Second):
		t.Fatal("timer callback was never posted")
	}
}

func TestRealStopAfterPost(t *testing.T) {
	posted := make(chan func(), 1)
	c := NewReal(func(fn func()) bool {
		posted <- fn
		return true
	})

	fired := false
	timer := c.AfterFunc(time.Millisecond, func() { fired = true })

	fn := <-posted
	timer.Stop()
	fn()

	if fired {
		t.Error("callback queued before Stop must not run")
	}
}
