package engine

import (
	"reflect"
	"testing"
	"time"

	"github.com/maxwellito/tetrispad/internal/clock"
)

func TestSequenceRunsStepsInOrder(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	var got []string
	done := false

	seq := NewSequence(fake, []Step{
		{Wait: 0, Run: func() { got = append(got, "a") }},
		{Wait: 10 * time.Millisecond, Run: func() { got = append(got, "b") }},
		{Wait: 10 * time.Millisecond, Run: func() { got = append(got, "c") }},
	}, func() { done = true })

	seq.Start()
	if !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("after Start got %v, expected the zero-wait step only", got)
	}

	fake.Advance(9 * time.Millisecond)
	if len(got) != 1 {
		t.Errorf("step ran early: %v", got)
	}

	fake.Advance(1 * time.Millisecond)
	fake.Advance(10 * time.Millisecond)
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("got %v, expected [a b c]", got)
	}
	if !done {
		t.Error("completion callback did not run")
	}
	if seq.Running() {
		t.Error("finished sequence still reports Running")
	}
}

func TestSequenceSuspendKeepsRemainingWait(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	ran := 0

	seq := NewSequence(fake, []Step{
		{Wait: 100 * time.Millisecond, Run: func() { ran++ }},
	}, nil)
	seq.Start()

	fake.Advance(60 * time.Millisecond)
	if !seq.Suspend() {
		t.Fatal("Suspend() = false on a running sequence")
	}
	fake.Advance(time.Second)
	if ran != 0 {
		t.Fatal("suspended step ran")
	}
	if !seq.Running() || !seq.Suspended() {
		t.Error("suspended sequence should still be running")
	}

	seq.Resume()
	fake.Advance(39 * time.Millisecond)
	if ran != 0 {
		t.Error("resumed step ran before its remaining wait")
	}
	fake.Advance(1 * time.Millisecond)
	if ran != 1 {
		t.Errorf("step ran %d times after remaining wait, expected 1", ran)
	}
}

func TestSequenceCancel(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	ran, done := 0, false

	seq := NewSequence(fake, []Step{
		{Wait: 10 * time.Millisecond, Run: func() { ran++ }},
		{Wait: 10 * time.Millisecond, Run: func() { ran++ }},
	}, func() { done = true })
	seq.Start()
	fake.Advance(10 * time.Millisecond)
	seq.Cancel()
	fake.Advance(time.Second)

	if ran != 1 {
		t.Errorf("ran = %d, expected 1", ran)
	}
	if done {
		t.Error("completion callback ran after Cancel")
	}
	if fake.Pending() != 0 {
		t.Errorf("Pending() = %d, expected 0", fake.Pending())
	}
	if seq.Resume() {
		t.Error("Resume() on a cancelled sequence should report false")
	}
}

func TestSequenceStepCancelsItself(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	ran := 0
	var seq *Sequence
	seq = NewSequence(fake, []Step{
		{Run: func() { ran++; seq.Cancel() }},
		{Run: func() { ran++ }},
	}, nil)

	seq.Start()

	if ran != 1 {
		t.Errorf("ran = %d, expected the cancelling step only", ran)
	}
}
