package validator

import "sync/atomic"

// Cell holds a Policy that can be committed exactly once. Reads are
// lock-free and safe from any goroutine.
type Cell struct {
	policy atomic.Pointer[Policy]
}

// Set commits p if nothing was committed before. It reports whether p was
// stored; later calls leave the first value untouched.
func (c *Cell) Set(p Policy) bool {
	if p == nil {
		return false
	}
	return c.policy.CompareAndSwap(nil, &p)
}

// Get returns the committed policy, or false if Set was never called.
func (c *Cell) Get() (Policy, bool) {
	p := c.policy.Load()
	if p == nil {
		return nil, false
	}
	return *p, true
}

// Policy returns the committed policy, treating an empty cell as Disabled.
func (c *Cell) Policy() Policy {
	if p, ok := c.Get(); ok {
		return p
	}
	return Disabled{}
}
