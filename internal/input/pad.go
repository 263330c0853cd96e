package input

import "github.com/maxwellito/tetrispad/internal/core"

const statusNoteOn = 0x90

// DefaultPadMap binds Launchpad pad numbers to intents. The pads are the
// left part of the bottom grid row.
func DefaultPadMap() map[byte]core.Intent {
	return map[byte]core.Intent{
		112: core.Move(core.DirLeft),
		113: core.Move(core.DirRight),
		114: core.Move(core.DirDown),
		118: core.Rotate(core.DirLeft),
		119: core.Rotate(core.DirRight),
	}
}

// Pad translates raw Launchpad note messages into intents. Pressing a pad
// without a binding pauses the game.
type Pad struct {
	pads  map[byte]core.Intent
	emit  func(core.Intent)
	guard Guard[byte]
}

// NewPad creates a pad origin sending intents to emit. A nil map uses
// DefaultPadMap.
func NewPad(emit func(core.Intent), pads map[byte]core.Intent) *Pad {
	if pads == nil {
		pads = DefaultPadMap()
	}
	return &Pad{pads: pads, emit: emit}
}

// Handle processes one three-byte message. Velocity 0 (or a note-off)
// releases the pad; other statuses are ignored.
func (p *Pad) Handle(status, key, velocity byte) {
	switch status & 0xF0 {
	case statusNoteOn:
	case 0x80:
		p.release(key)
		return
	default:
		return
	}

	if velocity == 0 {
		p.release(key)
		return
	}
	if !p.guard.Press(key) {
		return
	}

	in, ok := p.pads[key]
	if !ok {
		in = core.PauseIntent()
	}
	p.emit(in)
}

func (p *Pad) release(key byte) {
	if held, ok := p.guard.Held(); ok && held == key {
		p.guard.Release()
	}
}
