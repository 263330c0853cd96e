package core

import (
	"fmt"
	"sort"
	"strings"
)

// Color is a Launchpad LED velocity byte.
// Bits 0-1 carry red brightness, bits 4-5 green brightness and bits 2-3 the
// copy/clear flags the device expects on every write.
type Color uint8

// Palette understood by the two-color Launchpad grid.
const (
	ColorOff       Color = 0b001100
	ColorRedLow    Color = 0b001101
	ColorRedMed    Color = 0b001110
	ColorRedFull   Color = 0b001111
	ColorAmberLow  Color = 0b011101
	ColorAmberMed  Color = 0b101110
	ColorAmberFull Color = 0b111111
	ColorYellow    Color = 0b111110
	ColorGreenLow  Color = 0b011100
	ColorGreenMed  Color = 0b101100
	ColorGreenFull Color = 0b111100
)

var colorNames = map[Color]string{
	ColorOff:       "off",
	ColorRedLow:    "red-low",
	ColorRedMed:    "red-med",
	ColorRedFull:   "red",
	ColorAmberLow:  "amber-low",
	ColorAmberMed:  "amber-med",
	ColorAmberFull: "amber",
	ColorYellow:    "yellow",
	ColorGreenLow:  "green-low",
	ColorGreenMed:  "green-med",
	ColorGreenFull: "green",
}

// IsOff reports whether the color is the reserved empty value.
func (c Color) IsOff() bool {
	return c == ColorOff
}

// Red returns the red brightness level (0-3).
func (c Color) Red() int {
	return int(c & 0b11)
}

// Green returns the green brightness level (0-3).
func (c Color) Green() int {
	return int(c>>4) & 0b11
}

// String returns the palette name, or the raw velocity for unnamed values.
func (c Color) String() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return fmt.Sprintf("velocity(%d)", uint8(c))
}

// ParseColor resolves a palette name such as "amber" or "green-low".
func ParseColor(name string) (Color, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for c, n := range colorNames {
		if n == name {
			return c, nil
		}
	}
	return ColorOff, fmt.Errorf("core: unknown color %q (known: %s)", name, strings.Join(ColorNames(), ", "))
}

// ColorNames returns all palette names, sorted.
func ColorNames() []string {
	names := make([]string, 0, len(colorNames))
	for _, n := range colorNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
