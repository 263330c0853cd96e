package launchpad

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/maxwellito/tetrispad/internal/core"
	"github.com/maxwellito/tetrispad/internal/grid"
)

// Transport moves raw messages to and from the device.
type Transport interface {
	Send(m Message) error
	// Listen delivers incoming messages to fn, possibly on another
	// goroutine, until stop is called.
	Listen(fn func(Message)) (stop func(), err error)
	Close() error
}

// Device renders a grid onto the Launchpad. It implements grid.Driver.
type Device struct {
	transport Transport
	width     int
	height    int
	logger    *log.Logger
}

var _ grid.Driver = (*Device)(nil)

// DeviceOption configures a Device.
type DeviceOption func(*Device)

// WithLogger sets the device logger.
func WithLogger(l *log.Logger) DeviceOption {
	return func(d *Device) {
		d.logger = l
	}
}

// NewDevice wraps an open transport for a width x height grid.
func NewDevice(t Transport, width, height int, opts ...DeviceOption) *Device {
	d := &Device{
		transport: t,
		width:     width,
		height:    height,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Device) send(m Message) error {
	if err := d.transport.Send(m); err != nil {
		return fmt.Errorf("launchpad: send %v: %w", m, err)
	}
	return nil
}

// ClearAll sets every pad to c. Off uses the device reset; any other color
// is written pad by pad.
func (d *Device) ClearAll(c core.Color) error {
	if c.IsOff() {
		return d.send(Reset())
	}
	for i := 0; i < d.width*d.height; i++ {
		if err := d.WriteOne(i, c); err != nil {
			return err
		}
	}
	return nil
}

// WriteOne lights a single pad.
func (d *Device) WriteOne(index int, c core.Color) error {
	return d.send(NoteOn(Key(index, d.width), c))
}

// WriteBatch sends a set of pad writes. A complete 8x8 frame in index
// order goes out in rapid-update mode, two pads per message, followed by a
// plain note-on for pad 0 that drops the device out of rapid mode. Anything
// else is written pad by pad.
func (d *Device) WriteBatch(writes []grid.Write) error {
	if d.isFullFrame(writes) {
		d.logger.Debug("rapid frame", "pads", len(writes))
		for i := 0; i < len(writes); i += 2 {
			if err := d.send(Rapid(writes[i].Color, writes[i+1].Color)); err != nil {
				return err
			}
		}
		return d.WriteOne(0, writes[0].Color)
	}

	for _, w := range writes {
		if err := d.WriteOne(w.Index, w.Color); err != nil {
			return err
		}
	}
	return nil
}

func (d *Device) isFullFrame(writes []grid.Write) bool {
	if d.width != GridSize || d.height != GridSize || len(writes) != GridSize*GridSize {
		return false
	}
	for i, w := range writes {
		if w.Index != i {
			return false
		}
	}
	return true
}

// AllOn lights every LED at level.
func (d *Device) AllOn(level Brightness) error {
	return d.send(AllOn(level))
}

// Listen forwards pad presses and releases to fn as (status, key,
// velocity). fn may run on the transport's goroutine.
func (d *Device) Listen(fn func(status, key, velocity byte)) (stop func(), err error) {
	stop, err = d.transport.Listen(func(m Message) {
		fn(m.Status(), m.Key(), m.Velocity())
	})
	if err != nil {
		return nil, fmt.Errorf("launchpad: listen: %w", err)
	}
	return stop, nil
}

// Close resets the pads and releases the transport.
func (d *Device) Close() error {
	resetErr := d.send(Reset())
	if err := d.transport.Close(); err != nil {
		return fmt.Errorf("launchpad: close: %w", err)
	}
	return resetErr
}
