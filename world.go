package coresim

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// World is the host driver: it owns one Sched outright (no ambient global),
// feeds it generated load, and ticks it. it only ever reads proc state back
// out, all mutation goes through CreateProcess/SetBlockDuration/Update
type World struct {
	currTick     int
	dt           Tftick
	sched        *Sched
	loadGen      LoadGen
	stats        *RunStats
	defaultBlock Tftick
	log          *logrus.Logger
}

func NewWorld(cfg SimConfig, log *logrus.Logger) (*World, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("world: %w", err)
	}
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.WarnLevel)
	}
	sched, err := NewSched(cfg.NumCores, log)
	if err != nil {
		return nil, fmt.Errorf("world: %w", err)
	}
	seed := cfg.seedOption().OrElse(time.Now().UnixNano())
	w := &World{
		dt:           Tftick(cfg.TickLen),
		sched:        sched,
		loadGen:      newLoadGen(cfg.Classes, cfg.ArrivalsPerTick, uint64(seed)),
		stats:        newRunStats(),
		defaultBlock: Tftick(cfg.BlockDuration),
		log:          log,
	}
	w.log.WithFields(logrus.Fields{
		"cores": cfg.NumCores,
		"ticks": cfg.Ticks,
		"dt":    cfg.TickLen,
		"seed":  seed,
	}).Info("world created")
	return w, nil
}

func (w *World) Sched() *Sched {
	return w.sched
}

func (w *World) genLoad() int {
	specs := w.loadGen.genLoad(w.loadGen.arrivals())
	for _, spec := range specs {
		p := w.sched.CreateProcess(spec.priority, spec.totalCycles, spec.timePerCycle)
		p.SetBlockDuration(Tftick(spec.blockDuration.OrElse(float64(w.defaultBlock))))
		w.stats.admitted(p, w.sched.CurrTime())
	}
	return len(specs)
}

// one tick: admit arrivals, then advance the scheduler by dt
func (w *World) Tick() {
	w.genLoad()
	w.advance()
}

func (w *World) Run(nTicks int) {
	for i := 0; i < nTicks; i++ {
		w.Tick()
	}
}

// Drain keeps ticking with no new arrivals until every created proc has
// finished, giving up after maxTicks. reports whether it drained fully
func (w *World) Drain(maxTicks int) bool {
	for i := 0; i < maxTicks; i++ {
		if w.sched.FinishedLen() == w.sched.NumCreated() {
			return true
		}
		w.advance()
	}
	return w.sched.FinishedLen() == w.sched.NumCreated()
}

func (w *World) advance() {
	finishedBefore := w.sched.FinishedLen()
	w.sched.Update(w.dt)
	w.currTick += 1
	for _, p := range w.sched.FinishedProcs()[finishedBefore:] {
		w.stats.finishedAt(p, w.sched.CurrTime())
	}
}

func (w *World) CurrTick() int {
	return w.currTick
}

func (w *World) LogSummary() {
	w.stats.logSummary(w.log, w.sched.Utilization())
}
