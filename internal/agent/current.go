package agent

import (
	"sync/atomic"

	"github.com/ziadkadry99/intentlang/internal/schema"
)

// Current holds the agent in use while the language folder is watched.
// A reload swaps it without blocking readers.
type Current struct {
	p atomic.Pointer[Agent]
}

// NewCurrent returns a holder initialized with a.
func NewCurrent(a *Agent) *Current {
	c := &Current{}
	c.p.Store(a)
	return c
}

// Load returns the agent in use.
func (c *Current) Load() *Agent { return c.p.Load() }

// Store replaces the agent in use.
func (c *Current) Store(a *Agent) { c.p.Store(a) }

// Intent looks up name in the agent in use.
func (c *Current) Intent(name string) (schema.Intent, bool) {
	a := c.p.Load()
	if a == nil {
		return schema.Intent{}, false
	}
	return a.Intent(name)
}
