package coresim

import (
	"github.com/markphelps/optional"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// what the world asks the load generator for each tick
type LoadGen interface {
	arrivals() int
	genLoad(nProcs int) []procSpec
}

// everything needed to create one proc: CreateProcess arguments plus the
// optional per-class block duration (absent means the run default)
type procSpec struct {
	class         string
	priority      int
	totalCycles   int
	timePerCycle  Tftick
	blockDuration optional.Float64
}

type classSampler struct {
	cfg       ClassConfig
	cycleTime distuv.Uniform
}

// generates procs by class mix: arrivals per tick are Poisson, per-proc
// cycle times are uniform within the class range. fully deterministic for a
// fixed seed
type ClassLoadGen struct {
	samplers []classSampler
	arrival  distuv.Poisson
	rng      *rand.Rand
}

func newLoadGen(classes []ClassConfig, arrivalsPerTick float64, seed uint64) *ClassLoadGen {
	src := rand.NewSource(seed)
	lg := &ClassLoadGen{
		samplers: make([]classSampler, len(classes)),
		arrival:  distuv.Poisson{Lambda: arrivalsPerTick, Src: src},
		rng:      rand.New(src),
	}
	for i, cl := range classes {
		lg.samplers[i] = classSampler{
			cfg:       cl,
			cycleTime: distuv.Uniform{Min: cl.MinCycleTime, Max: cl.MaxCycleTime, Src: src},
		}
	}
	return lg
}

// number of procs arriving this tick
func (lg *ClassLoadGen) arrivals() int {
	return int(lg.arrival.Rand())
}

func (lg *ClassLoadGen) genLoad(nProcs int) []procSpec {
	specs := make([]procSpec, nProcs)
	for i := 0; i < nProcs; i++ {
		specs[i] = lg.genOne()
	}
	return specs
}

func (lg *ClassLoadGen) genOne() procSpec {
	s := lg.pickClass()

	cycles := s.cfg.MinCycles
	if s.cfg.MaxCycles > s.cfg.MinCycles {
		cycles += lg.rng.Intn(s.cfg.MaxCycles - s.cfg.MinCycles + 1)
	}

	return procSpec{
		class:         s.cfg.Name,
		priority:      s.cfg.Priority,
		totalCycles:   cycles,
		timePerCycle:  Tftick(s.cycleTime.Rand()),
		blockDuration: s.cfg.blockOverride(),
	}
}

// walk the cumulative class fractions; the last class absorbs any rounding
// slack
func (lg *ClassLoadGen) pickClass() classSampler {
	randVal := lg.rng.Float64()
	cumulative := 0.0
	for _, s := range lg.samplers {
		cumulative += s.cfg.Fraction
		if randVal < cumulative {
			return s
		}
	}
	return lg.samplers[len(lg.samplers)-1]
}
