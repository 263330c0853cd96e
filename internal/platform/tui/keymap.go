package tui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/maxwellito/tetrispad/internal/core"
)

// KeyMap holds the bindings shown in the help line. Game keys come from
// the same map the keyboard origin uses, so the help always matches what
// the game does.
type KeyMap struct {
	Left        key.Binding
	Right       key.Binding
	Down        key.Binding
	RotateLeft  key.Binding
	RotateRight key.Binding
	Pause       key.Binding
	Start       key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Down, k.RotateLeft, k.RotateRight, k.Pause, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Down},
		{k.RotateLeft, k.RotateRight},
		{k.Pause, k.Start},
		{k.Help, k.Quit},
	}
}

// NewKeyMap builds the help bindings from a keyboard map.
func NewKeyMap(keys map[string]core.Intent) KeyMap {
	byIntent := make(map[core.Intent][]string)
	for k, in := range keys {
		byIntent[in] = append(byIntent[in], k)
	}
	bind := func(in core.Intent, desc string) key.Binding {
		ks := byIntent[in]
		sort.Strings(ks)
		b := key.NewBinding(key.WithKeys(ks...), key.WithHelp(helpKeys(ks), desc))
		if len(ks) == 0 {
			b.SetEnabled(false)
		}
		return b
	}

	quit := []string{"ctrl+c"}
	for _, k := range []string{"q", "esc"} {
		if _, taken := keys[k]; !taken {
			quit = append(quit, k)
		}
	}

	return KeyMap{
		Left:        bind(core.Move(core.DirLeft), "left"),
		Right:       bind(core.Move(core.DirRight), "right"),
		Down:        bind(core.Move(core.DirDown), "down"),
		RotateLeft:  bind(core.Rotate(core.DirLeft), "rotate ccw"),
		RotateRight: bind(core.Rotate(core.DirRight), "rotate cw"),
		Pause:       bind(core.PauseIntent(), "pause"),
		Start:       bind(core.StartIntent(), "start"),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys(quit...),
			key.WithHelp(quit[min(1, len(quit)-1)], "quit"),
		),
	}
}

func helpKeys(keys []string) string {
	names := make([]string, len(keys))
	for i, k := range keys {
		switch k {
		case " ":
			names[i] = "space"
		case "left":
			names[i] = "←"
		case "right":
			names[i] = "→"
		case "down":
			names[i] = "↓"
		default:
			names[i] = k
		}
	}
	return strings.Join(names, "/")
}
