// Package input unifies every origin of player intents (keyboard, Launchpad
// pads) into one subscriber list the engine listens to.
package input

import (
	"sync"

	"github.com/maxwellito/tetrispad/internal/core"
)

// Handler receives intents.
type Handler func(core.Intent)

// Source is a broadcast list of intent handlers.
//
// Unsubscribing nils the handler's slot instead of removing it, so it is
// safe to unsubscribe from inside a handler while Emit is iterating.
type Source struct {
	mu       sync.Mutex
	handlers []Handler
}

// NewSource creates an empty intent source.
func NewSource() *Source {
	return &Source{}
}

// OnIntent registers h and returns the function that unregisters it.
func (s *Source) OnIntent(h Handler) (unsubscribe func()) {
	s.mu.Lock()
	idx := len(s.handlers)
	s.handlers = append(s.handlers, h)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.handlers[idx] = nil
	}
}

// Emit calls every live handler in subscription order.
func (s *Source) Emit(in core.Intent) {
	s.mu.Lock()
	n := len(s.handlers)
	s.mu.Unlock()

	for i := 0; i < n; i++ {
		s.mu.Lock()
		h := s.handlers[i]
		s.mu.Unlock()
		if h != nil {
			h(in)
		}
	}
}

// Subscribers returns the number of live handlers.
func (s *Source) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, h := range s.handlers {
		if h != nil {
			n++
		}
	}
	return n
}
