package input

// Guard enforces "one active press per origin": a press identical to the
// one still held is suppressed until Release is observed.
type Guard[K comparable] struct {
	held   K
	active bool
}

// Press records k as held. It reports whether the press is new and should
// fire.
func (g *Guard[K]) Press(k K) bool {
	if g.active && g.held == k {
		return false
	}
	g.held = k
	g.active = true
	return true
}

// Release forgets the held press.
func (g *Guard[K]) Release() {
	var zero K
	g.held = zero
	g.active = false
}

// Held returns the held press, if any.
func (g *Guard[K]) Held() (K, bool) {
	return g.held, g.active
}
