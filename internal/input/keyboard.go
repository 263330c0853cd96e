package input

import (
	"time"

	"github.com/maxwellito/tetrispad/internal/clock"
	"github.com/maxwellito/tetrispad/internal/core"
)

// DefaultKeyMap binds terminal key names (as reported by Bubble Tea) to
// intents. "up" is deliberately unbound: the game has no upward move.
func DefaultKeyMap() map[string]core.Intent {
	return map[string]core.Intent{
		"left":  core.Move(core.DirLeft),
		"right": core.Move(core.DirRight),
		"down":  core.Move(core.DirDown),
		"a":     core.Rotate(core.DirLeft),
		"s":     core.Rotate(core.DirRight),
		" ":     core.PauseIntent(),
		"enter": core.StartIntent(),
	}
}

// Keyboard translates key presses into intents.
//
// Terminals report key repeats but never key releases, so when a release
// window is configured the keyboard releases the held key by itself once no
// event for it has arrived within the window. Methods must be called from
// the event loop the clock dispatches on.
type Keyboard struct {
	keys         map[string]core.Intent
	emit         func(core.Intent)
	guard        Guard[string]
	clock        clock.Clock
	releaseAfter time.Duration
	releaseTimer clock.Timer
}

// KeyboardOption configures a Keyboard.
type KeyboardOption func(*Keyboard)

// WithKeyMap replaces the default bindings.
func WithKeyMap(keys map[string]core.Intent) KeyboardOption {
	return func(k *Keyboard) {
		k.keys = keys
	}
}

// WithAutoRelease releases a held key after d without further events for it.
func WithAutoRelease(c clock.Clock, d time.Duration) KeyboardOption {
	return func(k *Keyboard) {
		k.clock = c
		k.releaseAfter = d
	}
}

// NewKeyboard creates a keyboard origin sending intents to emit.
func NewKeyboard(emit func(core.Intent), opts ...KeyboardOption) *Keyboard {
	k := &Keyboard{
		keys: DefaultKeyMap(),
		emit: emit,
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Press handles a key down (or key repeat) event. Unbound keys still count
// as the held key, so they release a previously held binding.
func (k *Keyboard) Press(key string) {
	fire := k.guard.Press(key)
	k.armRelease()
	if !fire {
		return
	}
	if in, ok := k.keys[key]; ok {
		k.emit(in)
	}
}

// Release handles a key up event.
func (k *Keyboard) Release() {
	if k.releaseTimer != nil {
		k.releaseTimer.Stop()
		k.releaseTimer = nil
	}
	k.guard.Release()
}

// Bound reports whether key maps to an intent.
func (k *Keyboard) Bound(key string) bool {
	_, ok := k.keys[key]
	return ok
}

func (k *Keyboard) armRelease() {
	if k.clock == nil || k.releaseAfter <= 0 {
		return
	}
	if k.releaseTimer != nil {
		k.releaseTimer.Stop()
	}
	k.releaseTimer = k.clock.AfterFunc(k.releaseAfter, func() {
		k.releaseTimer = nil
		k.guard.Release()
	})
}
