package coresim

import (
	"fmt"
)

// one unit of execution capacity. a core holds at most one proc at a time;
// keeping assignments to free cores only is the scheduler's job, not checked
// here
type Core struct {
	coreId Tid
	proc   *Proc // nil when the core is free
}

func newCore(coreId Tid) *Core {
	return &Core{coreId: coreId, proc: nil}
}

func (c *Core) String() string {
	if c.proc == nil {
		return fmt.Sprintf("{core %d: free}", c.coreId)
	}
	return fmt.Sprintf("{core %d: %v}", c.coreId, c.proc)
}

func (c *Core) free() bool {
	return c.proc == nil
}

// takes ownership of p and starts it running on this core. assigning an
// absent proc is a no-op
func (c *Core) assignProc(p *Proc) {
	if p == nil {
		return
	}
	c.proc = p
	p.startRunning(c.coreId)
}

// evicts the held proc without advancing it. the normal tick flow never
// calls this, it hands ownership back through advanceCore instead; this is
// for external eviction
func (c *Core) releaseProc() {
	if c.proc == nil {
		return
	}
	c.proc.assignedCore = -1
	c.proc = nil
}

// runs the held proc for dt of compute. returns the proc iff it left the
// core on this call: fullyFinished true when its last cycle completed, false
// when it crossed a cycle boundary into Blocked. the proc's state is
// captured before advancing and compared after; that before/after comparison
// is how a cycle boundary is detected, there is no separate callback
func (c *Core) advanceCore(dt Tftick) (*Proc, bool) {
	if c.proc == nil {
		return nil, false
	}
	stateBefore := c.proc.state
	done := c.proc.advanceExecution(dt)
	if done {
		p := c.proc
		c.proc = nil
		return p, true
	}
	if stateBefore == Running && c.proc.state == Blocked {
		p := c.proc
		c.proc = nil
		return p, false
	}
	return nil, false
}
