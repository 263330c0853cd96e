package launchpad

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxwellito/tetrispad/internal/core"
	"github.com/maxwellito/tetrispad/internal/grid"
)

// fakeTransport records sent messages and lets tests inject input.
type fakeTransport struct {
	sent     []Message
	listener func(Message)
	failAt   int // fail the n-th send (1-based), 0 = never
	closed   bool
}

func (f *fakeTransport) Send(m Message) error {
	f.sent = append(f.sent, m)
	if f.failAt > 0 && len(f.sent) == f.failAt {
		return errors.New("cable pulled")
	}
	return nil
}

func (f *fakeTransport) Listen(fn func(Message)) (func(), error) {
	f.listener = fn
	return func() { f.listener = nil }, nil
}

func (f *fakeTransport) Close() error {
	f.closed = true
	return nil
}

func TestKeyMapping(t *testing.T) {
	tests := []struct {
		index    int
		expected byte
	}{
		{0, 0},
		{7, 7},
		{8, 16},
		{9, 17},
		{63, 119},
		{56, 112},
	}

	for _, tc := range tests {
		got := Key(tc.index, 8)
		assert.Equal(t, tc.expected, got, "Key(%d, 8)", tc.index)

		back, ok := Index(got, 8)
		assert.True(t, ok)
		assert.Equal(t, tc.index, back, "Index(%d, 8)", got)
	}

	_, ok := Index(8, 8) // first scene button
	assert.False(t, ok)
}

func TestClearAll(t *testing.T) {
	tr := &fakeTransport{}
	d := NewDevice(tr, 8, 8)

	require.NoError(t, d.ClearAll(core.ColorOff))
	assert.Equal(t, []Message{{176, 0, 0}}, tr.sent)

	tr.sent = nil
	require.NoError(t, d.ClearAll(core.ColorRedFull))
	require.Len(t, tr.sent, 64)
	assert.Equal(t, Message{144, 119, byte(core.ColorRedFull)}, tr.sent[63])
}

func TestWriteOne(t *testing.T) {
	tr := &fakeTransport{}
	d := NewDevice(tr, 8, 8)

	require.NoError(t, d.WriteOne(10, core.ColorGreenFull))
	assert.Equal(t, []Message{{144, 18, byte(core.ColorGreenFull)}}, tr.sent)
}

func fullFrame() []grid.Write {
	writes := make([]grid.Write, 64)
	for i := range writes {
		c := core.ColorOff
		if i%3 == 0 {
			c = core.ColorAmberFull
		}
		writes[i] = grid.Write{Index: i, Color: c}
	}
	return writes
}

func TestWriteBatchFullFrameUsesRapidUpdate(t *testing.T) {
	tr := &fakeTransport{}
	d := NewDevice(tr, 8, 8)
	frame := fullFrame()

	require.NoError(t, d.WriteBatch(frame))

	require.Len(t, tr.sent, 33)
	for i := 0; i < 32; i++ {
		expected := Message{146, byte(frame[2*i].Color), byte(frame[2*i+1].Color)}
		assert.Equal(t, expected, tr.sent[i], "rapid message %d", i)
	}
	assert.Equal(t, Message{144, 0, byte(frame[0].Color)}, tr.sent[32])
}

func TestWriteBatchPartial(t *testing.T) {
	tests := []struct {
		name   string
		writes []grid.Write
	}{
		{"sparse", []grid.Write{{Index: 9, Color: core.ColorYellow}, {Index: 0, Color: core.ColorRedLow}}},
		{"full but reordered", func() []grid.Write {
			f := fullFrame()
			f[0], f[1] = f[1], f[0]
			return f
		}()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr := &fakeTransport{}
			d := NewDevice(tr, 8, 8)

			require.NoError(t, d.WriteBatch(tc.writes))
			require.Len(t, tr.sent, len(tc.writes))
			for i, w := range tc.writes {
				assert.Equal(t, NoteOn(Key(w.Index, 8), w.Color), tr.sent[i])
			}
		})
	}
}

func TestWriteBatchNonStandardGridNeverUsesRapid(t *testing.T) {
	tr := &fakeTransport{}
	d := NewDevice(tr, 4, 16)
	writes := make([]grid.Write, 64)
	for i := range writes {
		writes[i] = grid.Write{Index: i, Color: core.ColorGreenLow}
	}

	require.NoError(t, d.WriteBatch(writes))
	assert.Len(t, tr.sent, 64)
	assert.Equal(t, StatusNoteOn, tr.sent[0].Status())
	assert.Equal(t, byte(16), tr.sent[4].Key())
}

func TestSendErrorsStopTheBatch(t *testing.T) {
	tr := &fakeTransport{failAt: 2}
	d := NewDevice(tr, 8, 8)

	err := d.WriteBatch([]grid.Write{{Index: 0}, {Index: 1}, {Index: 2}})
	require.Error(t, err)
	assert.Len(t, tr.sent, 2)
	assert.Contains(t, err.Error(), "cable pulled")
}

func TestAllOn(t *testing.T) {
	tr := &fakeTransport{}
	d := NewDevice(tr, 8, 8)

	for _, level := range []Brightness{BrightnessLow, BrightnessMedium, BrightnessFull} {
		require.NoError(t, d.AllOn(level))
	}
	assert.Equal(t, []Message{{176, 0, 125}, {176, 0, 126}, {176, 0, 127}}, tr.sent)
}

func TestListenForwardsMessages(t *testing.T) {
	tr := &fakeTransport{}
	d := NewDevice(tr, 8, 8)

	var got []string
	stop, err := d.Listen(func(status, key, velocity byte) {
		got = append(got, fmt.Sprint(status, key, velocity))
	})
	require.NoError(t, err)

	tr.listener(Message{144, 112, 127})
	tr.listener(Message{144, 112, 0})
	assert.Equal(t, []string{"144 112 127", "144 112 0"}, got)

	stop()
	assert.Nil(t, tr.listener)
}

func TestCloseResetsAndCloses(t *testing.T) {
	tr := &fakeTransport{}
	d := NewDevice(tr, 8, 8)

	require.NoError(t, d.Close())
	assert.Equal(t, []Message{Reset()}, tr.sent)
	assert.True(t, tr.closed)
}

func TestDeviceNotFoundError(t *testing.T) {
	var err error = &DeviceNotFoundError{Name: "Launchpad", Direction: "output"}

	assert.True(t, errors.Is(err, ErrDeviceNotFound))
	var nf *DeviceNotFoundError
	require.True(t, errors.As(fmt.Errorf("wrap: %w", err), &nf))
	assert.Equal(t, "Launchpad", nf.Name)
	assert.Contains(t, err.Error(), "output")
}
