// Package launchpad drives a Novation Launchpad (the original two-color
// model) over MIDI. The device speaks three-byte messages: note-on to light
// a pad, a rapid-update mode that takes two pads per message, and control
// change 0 for reset and brightness tests.
package launchpad

import (
	"fmt"

	"github.com/maxwellito/tetrispad/internal/core"
)

// Status bytes understood by the device.
const (
	StatusNoteOff byte = 0x80
	StatusNoteOn  byte = 0x90 // 144
	StatusRapid   byte = 0x92 // 146, note-on on channel 3
	StatusControl byte = 0xB0 // 176
)

// GridSize is the width and height of the Launchpad's pad grid.
const GridSize = 8

// rowStride is the key distance between two grid rows.
const rowStride = 16

// Message is one raw MIDI message: status, key (or controller), velocity
// (or value).
type Message [3]byte

func (m Message) Status() byte   { return m[0] }
func (m Message) Key() byte      { return m[1] }
func (m Message) Velocity() byte { return m[2] }

func (m Message) String() string {
	return fmt.Sprintf("[%d,%d,%d]", m[0], m[1], m[2])
}

// Key maps a row-major grid index to the device key address. Rows are 16
// keys apart; the upper 8 of each row are the round scene buttons and
// unused pads.
func Key(index, width int) byte {
	return byte((index/width)*rowStride + index%width)
}

// Index is the inverse of Key. It reports false for keys outside a
// width-column grid.
func Index(key byte, width int) (int, bool) {
	row, col := int(key)/rowStride, int(key)%rowStride
	if col >= width {
		return 0, false
	}
	return row*width + col, true
}

// NoteOn lights key with c.
func NoteOn(key byte, c core.Color) Message {
	return Message{StatusNoteOn, key, byte(c)}
}

// Rapid sets the next two pads of the rapid-update sequence.
func Rapid(a, b core.Color) Message {
	return Message{StatusRapid, byte(a), byte(b)}
}

// Reset turns every LED off and leaves rapid-update mode.
func Reset() Message {
	return Message{StatusControl, 0, 0}
}

// Brightness selects the all-LEDs-on test level.
type Brightness byte

const (
	BrightnessLow    Brightness = 125
	BrightnessMedium Brightness = 126
	BrightnessFull   Brightness = 127
)

// AllOn lights every LED at the given level.
func AllOn(level Brightness) Message {
	return Message{StatusControl, 0, byte(level)}
}
