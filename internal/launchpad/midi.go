package launchpad

import (
	"fmt"
	"strings"
	"sync"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// DefaultName matches every Launchpad model's port name.
const DefaultName = "Launchpad"

// MIDITransport is a Transport over a pair of system MIDI ports. A MIDI
// backend must be registered by importing a gomidi driver package.
type MIDITransport struct {
	in   drivers.In
	out  drivers.Out
	send func(midi.Message) error

	mu     sync.Mutex
	closed bool
	stops  []func()
}

var _ Transport = (*MIDITransport)(nil)

// Open finds the input and output ports whose names contain name.
func Open(name string) (*MIDITransport, error) {
	if name == "" {
		name = DefaultName
	}
	if drivers.Get() == nil {
		return nil, ErrUnsupportedProtocol
	}

	in, err := findIn(name)
	if err != nil {
		return nil, err
	}
	out, err := findOut(name)
	if err != nil {
		return nil, err
	}

	send, err := midi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("launchpad: open output %q: %w", out.String(), err)
	}
	return &MIDITransport{in: in, out: out, send: send}, nil
}

func findIn(name string) (drivers.In, error) {
	for _, p := range midi.GetInPorts() {
		if strings.Contains(p.String(), name) {
			return p, nil
		}
	}
	return nil, &DeviceNotFoundError{Name: name, Direction: "input"}
}

func findOut(name string) (drivers.Out, error) {
	for _, p := range midi.GetOutPorts() {
		if strings.Contains(p.String(), name) {
			return p, nil
		}
	}
	return nil, &DeviceNotFoundError{Name: name, Direction: "output"}
}

// Name returns the output port name.
func (t *MIDITransport) Name() string {
	return t.out.String()
}

// Send writes one message to the output port.
func (t *MIDITransport) Send(m Message) error {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return ErrClosed
	}
	return t.send(midi.Message(m[:]))
}

// Listen delivers three-byte messages from the input port. Shorter
// messages (clock, active sensing) are dropped.
func (t *MIDITransport) Listen(fn func(Message)) (func(), error) {
	stop, err := midi.ListenTo(t.in, func(msg midi.Message, _ int32) {
		if len(msg) < 3 {
			return
		}
		fn(Message{msg[0], msg[1], msg[2]})
	})
	if err != nil {
		return nil, fmt.Errorf("listen on %q: %w", t.in.String(), err)
	}

	t.mu.Lock()
	t.stops = append(t.stops, stop)
	t.mu.Unlock()
	return stop, nil
}

// Close stops every listener and closes both ports.
func (t *MIDITransport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	stops := t.stops
	t.stops = nil
	t.mu.Unlock()

	for _, stop := range stops {
		stop()
	}
	inErr := t.in.Close()
	if err := t.out.Close(); err != nil {
		return err
	}
	return inErr
}

// Ports lists the input and output port names of the MIDI backend.
func Ports() (ins, outs []string, err error) {
	if drivers.Get() == nil {
		return nil, nil, ErrUnsupportedProtocol
	}
	for _, p := range midi.GetInPorts() {
		ins = append(ins, p.String())
	}
	for _, p := range midi.GetOutPorts() {
		outs = append(outs, p.String())
	}
	return ins, outs, nil
}

// CloseBackend releases the MIDI backend. Call it once on exit.
func CloseBackend() {
	midi.CloseDriver()
}
