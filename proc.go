package coresim

import (
	"strconv"
)

const (
	DEFAULT_BLOCK_DURATION = Tftick(2.0)
)

// ------------------------------------------------------------------------------------------------
// PROC STATES
// ------------------------------------------------------------------------------------------------

type ProcState int

const (
	New ProcState = iota
	Ready
	Running
	Blocked
	Finished
)

func (s ProcState) String() string {
	return []string{"new", "ready", "running", "blocked", "finished"}[s]
}

// ------------------------------------------------------------------------------------------------
// PROC STRUCT
// ------------------------------------------------------------------------------------------------

// one schedulable unit: needs totalCycles rounds of timePerCycle compute,
// waiting out blockDuration between consecutive cycles.
// transitions are guarded: an illegal call is a silent no-op, not an error
type Proc struct {
	procId           Tid
	priority         int
	state            ProcState
	totalCycles      int
	currentCycle     int
	timePerCycle     Tftick
	remainingInCycle Tftick
	remainingCpuTime Tftick
	blockDuration    Tftick
	remainingBlock   Tftick
	assignedCore     Tid
}

func newProc(procId Tid, priority int, totalCycles int, timePerCycle Tftick) *Proc {
	if totalCycles < 1 {
		totalCycles = 1
	}
	return &Proc{
		procId:           procId,
		priority:         priority,
		state:            New,
		totalCycles:      totalCycles,
		currentCycle:     1,
		timePerCycle:     timePerCycle,
		remainingInCycle: timePerCycle,
		remainingCpuTime: Tftick(totalCycles) * timePerCycle,
		blockDuration:    DEFAULT_BLOCK_DURATION,
		remainingBlock:   0,
		assignedCore:     -1,
	}
}

func (p *Proc) String() string {
	return strconv.Itoa(int(p.procId)) + ": " +
		"prio " + strconv.Itoa(p.priority) +
		", " + p.state.String() +
		", cycle " + strconv.Itoa(p.currentCycle) + "/" + strconv.Itoa(p.totalCycles) +
		", left in cycle: " + p.remainingInCycle.String() +
		", cpu left: " + p.remainingCpuTime.String() +
		", core: " + strconv.Itoa(int(p.assignedCore))
}

// ------------------------------------------------------------------------------------------------
// READ-ONLY OBSERVATION
// ------------------------------------------------------------------------------------------------

// hosts poll these every tick to render state; they must never mutate a proc
// other than through SetBlockDuration right after creation

func (p *Proc) Id() Tid { return p.procId }

func (p *Proc) Priority() int { return p.priority }

func (p *Proc) State() ProcState { return p.state }

func (p *Proc) CurrentCycle() int { return p.currentCycle }

func (p *Proc) TotalCycles() int { return p.totalCycles }

func (p *Proc) TimePerCycle() Tftick { return p.timePerCycle }

func (p *Proc) RemainingTimeInCycle() Tftick { return p.remainingInCycle }

func (p *Proc) RemainingCpuTime() Tftick { return p.remainingCpuTime }

func (p *Proc) BlockDuration() Tftick { return p.blockDuration }

func (p *Proc) RemainingBlockTime() Tftick { return p.remainingBlock }

func (p *Proc) AssignedCore() Tid { return p.assignedCore }

func (p *Proc) TotalCpuTime() Tftick {
	return Tftick(p.totalCycles) * p.timePerCycle
}

// SetBlockDuration overrides the default wait between cycles. Call it once,
// right after CreateProcess and before the proc is first dispatched; changing
// it while the proc is blocked or running is the caller's problem
func (p *Proc) SetBlockDuration(d Tftick) {
	p.blockDuration = d
}

// ------------------------------------------------------------------------------------------------
// TRANSITIONS
// ------------------------------------------------------------------------------------------------

func (p *Proc) setReady() {
	if p.state != New {
		return
	}
	p.state = Ready
}

func (p *Proc) startRunning(coreId Tid) {
	if p.state == Blocked || p.state == Finished {
		return
	}
	p.assignedCore = coreId
	p.state = Running
}

// runs the proc for dt of compute. returns true only when the proc's last
// cycle completes, at which point it is Finished. on any earlier cycle
// boundary the proc moves to Blocked and false is returned. overshoot past
// the end of a cycle is discarded, never carried into the next one
func (p *Proc) advanceExecution(dt Tftick) bool {
	if p.state != Running {
		return false
	}
	p.remainingInCycle -= dt
	p.remainingCpuTime -= dt
	if p.remainingInCycle <= 0 {
		if p.currentCycle >= p.totalCycles {
			p.finish()
			return true
		}
		p.currentCycle += 1
		p.remainingInCycle = p.timePerCycle
		p.block()
	}
	return false
}

func (p *Proc) block() {
	if p.state != Running && p.state != Ready {
		return
	}
	p.state = Blocked
	p.assignedCore = -1
	p.remainingBlock = p.blockDuration
}

func (p *Proc) advanceBlocked(dt Tftick) {
	if p.state != Blocked {
		return
	}
	p.remainingBlock -= dt
	if p.remainingBlock <= 0 {
		p.remainingBlock = 0
		p.unblock()
	}
}

func (p *Proc) unblock() {
	if p.state != Blocked {
		return
	}
	p.state = Ready
}

// terminal: nothing transitions out of Finished
func (p *Proc) finish() {
	p.state = Finished
	p.assignedCore = -1
	p.remainingInCycle = 0
	p.remainingCpuTime = 0
}
