package coresim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Sched owns the ready/blocked/finished queues and the fixed core array, and
// advances the whole simulation one Update(dt) at a time. single-writer: all
// queue and core mutation happens inside Update/CreateProcess, a
// multi-threaded host has to serialize its calls itself
type Sched struct {
	cores     []*Core
	readyQ    *Queue
	blockedQ  *Queue
	finishedQ *Queue
	nextPid   Tid
	currTime  Tftick
	busyTime  Tftick
	log       *logrus.Logger
}

// log may be nil, in which case events above warning level are dropped
func NewSched(numCores int, log *logrus.Logger) (*Sched, error) {
	if numCores < 1 {
		return nil, fmt.Errorf("sched: core count must be positive, got %d", numCores)
	}
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.WarnLevel)
	}
	sd := &Sched{
		cores:     make([]*Core, numCores),
		readyQ:    newQueue(),
		blockedQ:  newQueue(),
		finishedQ: newQueue(),
		nextPid:   0,
		log:       log,
	}
	for i := range sd.cores {
		sd.cores[i] = newCore(Tid(i))
	}
	return sd, nil
}

func (sd *Sched) String() string {
	str := fmt.Sprintf("{t=%v, ready: %d, blocked: %d, finished: %d, cores: [", sd.currTime, sd.readyQ.qlen(), sd.blockedQ.qlen(), sd.finishedQ.qlen())
	for _, c := range sd.cores {
		str += " " + c.String()
	}
	str += " ]}"
	return str
}

// CreateProcess allocates the next sequential id, readies the proc and puts
// it at the tail of the ready queue. totalCycles below 1 is clamped to 1;
// timePerCycle is taken as given, hosts that can see untrusted values should
// validate them at their own construction surface (SimConfig does)
func (sd *Sched) CreateProcess(priority int, totalCycles int, timePerCycle Tftick) *Proc {
	p := newProc(sd.nextPid, priority, totalCycles, timePerCycle)
	sd.nextPid += 1
	p.setReady()
	sd.readyQ.enq(p)
	sd.log.WithFields(logrus.Fields{
		"proc":         p.procId,
		"priority":     priority,
		"cycles":       p.totalCycles,
		"timePerCycle": float64(timePerCycle),
	}).Debug("proc created")
	return p
}

// fills free cores from the ready queue, lowest priority value first, ties
// by insertion order. cores are visited in index order and each core gets at
// most one proc per pass
func (sd *Sched) dispatch() {
	sd.readyQ.sortByPriority()
	for _, c := range sd.cores {
		if !c.free() || sd.readyQ.qlen() == 0 {
			continue
		}
		p := sd.readyQ.deq()
		c.assignProc(p)
		sd.log.WithFields(logrus.Fields{
			"proc": p.procId,
			"core": c.coreId,
		}).Debug("proc dispatched")
	}
}

// Update advances the whole simulation by dt. the order is load-bearing:
// blocked timers move first so a proc whose wait expires can compete for a
// free core in this same tick, then dispatch, then every busy core runs
func (sd *Sched) Update(dt Tftick) {
	// reverse index order so removing an unblocked proc can't skip its
	// neighbor
	for i := sd.blockedQ.qlen() - 1; i >= 0; i-- {
		p := sd.blockedQ.getQ()[i]
		p.advanceBlocked(dt)
		if p.state == Ready {
			sd.blockedQ.removeAt(i)
			sd.readyQ.enq(p)
			sd.log.WithFields(logrus.Fields{"proc": p.procId}).Debug("proc unblocked")
		}
	}

	sd.dispatch()

	for _, c := range sd.cores {
		if c.free() {
			continue
		}
		sd.busyTime += dt
		changed, fullyFinished := c.advanceCore(dt)
		if changed == nil {
			continue
		}
		if fullyFinished {
			sd.finishedQ.enq(changed)
			sd.log.WithFields(logrus.Fields{
				"proc": changed.procId,
				"core": c.coreId,
			}).Debug("proc finished")
		} else {
			sd.blockedQ.enq(changed)
			sd.log.WithFields(logrus.Fields{
				"proc":  changed.procId,
				"core":  c.coreId,
				"cycle": changed.currentCycle,
			}).Debug("proc blocked")
		}
	}

	sd.currTime += dt
}

// ------------------------------------------------------------------------------------------------
// OBSERVATION
// ------------------------------------------------------------------------------------------------

func (sd *Sched) NumCores() int { return len(sd.cores) }

func (sd *Sched) CurrTime() Tftick { return sd.currTime }

func (sd *Sched) ReadyLen() int { return sd.readyQ.qlen() }

func (sd *Sched) BlockedLen() int { return sd.blockedQ.qlen() }

func (sd *Sched) FinishedLen() int { return sd.finishedQ.qlen() }

func (sd *Sched) NumCreated() int { return int(sd.nextPid) }

func (sd *Sched) numBusyCores() int {
	n := 0
	for _, c := range sd.cores {
		if !c.free() {
			n += 1
		}
	}
	return n
}

// FinishedProcs returns the append-only finished queue; callers must treat
// the procs as read-only
func (sd *Sched) FinishedProcs() []*Proc {
	return sd.finishedQ.getQ()
}

// fraction of available core time spent running procs so far
func (sd *Sched) Utilization() float64 {
	if sd.currTime <= 0 {
		return 0
	}
	return float64(sd.busyTime) / (float64(sd.currTime) * float64(len(sd.cores)))
}
