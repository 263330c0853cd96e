package core

import "fmt"

// IntentKind discriminates the semantic actions a player can request.
// Raw key codes and pad messages are translated into intents by the input
// origins; the engine only ever sees intents.
type IntentKind int

const (
	IntentNone   IntentKind = iota
	IntentMove              // Shift the active piece by one cell
	IntentRotate            // Rotate the active piece by 90 degrees
	IntentPause             // Toggle pause
	IntentStart             // Start a game, or restart after game over
)

// String returns a human-readable name for the intent kind.
func (k IntentKind) String() string {
	switch k {
	case IntentNone:
		return "None"
	case IntentMove:
		return "Move"
	case IntentRotate:
		return "Rotate"
	case IntentPause:
		return "Pause"
	case IntentStart:
		return "Start"
	default:
		return "Unknown"
	}
}

// Direction qualifies Move and Rotate intents.
type Direction int

const (
	DirNone Direction = iota
	DirLeft
	DirRight
	DirDown
)

// String returns a human-readable name for the direction.
func (d Direction) String() string {
	switch d {
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	case DirDown:
		return "down"
	default:
		return "none"
	}
}

// Delta returns the anchor offset for a move in this direction.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	case DirDown:
		return 0, 1
	default:
		return 0, 0
	}
}

// Intent is a tagged variant: Move(left|right|down), Rotate(left|right),
// Pause or Start. Intents are comparable, which the repeat guards rely on.
type Intent struct {
	Kind      IntentKind
	Direction Direction
}

// Move returns a Move intent.
func Move(d Direction) Intent {
	return Intent{Kind: IntentMove, Direction: d}
}

// Rotate returns a Rotate intent.
func Rotate(d Direction) Intent {
	return Intent{Kind: IntentRotate, Direction: d}
}

// PauseIntent returns a Pause intent.
func PauseIntent() Intent {
	return Intent{Kind: IntentPause}
}

// StartIntent returns a Start intent.
func StartIntent() Intent {
	return Intent{Kind: IntentStart}
}

// Valid reports whether the intent is one of the supported variants.
func (i Intent) Valid() bool {
	switch i.Kind {
	case IntentMove:
		return i.Direction == DirLeft || i.Direction == DirRight || i.Direction == DirDown
	case IntentRotate:
		return i.Direction == DirLeft || i.Direction == DirRight
	case IntentPause, IntentStart:
		return i.Direction == DirNone
	default:
		return false
	}
}

// String returns e.g. "Move(left)" or "Pause".
func (i Intent) String() string {
	if i.Direction == DirNone {
		return i.Kind.String()
	}
	return i.Kind.String() + "(" + i.Direction.String() + ")"
}

var intentNames = map[string]Intent{
	"move-left":    Move(DirLeft),
	"move-right":   Move(DirRight),
	"move-down":    Move(DirDown),
	"rotate-left":  Rotate(DirLeft),
	"rotate-right": Rotate(DirRight),
	"pause":        PauseIntent(),
	"start":        StartIntent(),
}

// ParseIntent resolves an action name such as "move-left" or "pause", as
// used in key binding configuration.
func ParseIntent(name string) (Intent, error) {
	in, ok := intentNames[name]
	if !ok {
		return Intent{}, fmt.Errorf("core: unknown action %q", name)
	}
	return in, nil
}
