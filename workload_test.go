package coresim

import (
	"testing"
)

func testClasses() []ClassConfig {
	return []ClassConfig{
		{Name: "fast", Fraction: 0.7, Priority: 1, MinCycles: 1, MaxCycles: 2, MinCycleTime: 0.1, MaxCycleTime: 0.5},
		{Name: "slow", Fraction: 0.3, Priority: 4, MinCycles: 3, MaxCycles: 8, MinCycleTime: 1.0, MaxCycleTime: 2.0, BlockDuration: float64Ptr(3.0)},
	}
}

func TestGenLoadRespectsClassRanges(t *testing.T) {
	lg := newLoadGen(testClasses(), 1.0, 7)
	byName := map[string]ClassConfig{}
	for _, cl := range testClasses() {
		byName[cl.Name] = cl
	}

	for _, spec := range lg.genLoad(200) {
		cl, ok := byName[spec.class]
		if !ok {
			t.Fatalf("unknown class %q", spec.class)
		}
		if spec.priority != cl.Priority {
			t.Errorf("class %s: priority %d out of class", spec.class, spec.priority)
		}
		if spec.totalCycles < cl.MinCycles || spec.totalCycles > cl.MaxCycles {
			t.Errorf("class %s: cycles %d outside [%d,%d]", spec.class, spec.totalCycles, cl.MinCycles, cl.MaxCycles)
		}
		if float64(spec.timePerCycle) < cl.MinCycleTime || float64(spec.timePerCycle) > cl.MaxCycleTime {
			t.Errorf("class %s: cycle time %v outside [%v,%v]", spec.class, spec.timePerCycle, cl.MinCycleTime, cl.MaxCycleTime)
		}
		if cl.BlockDuration == nil && spec.blockDuration.Present() {
			t.Errorf("class %s: unexpected block override", spec.class)
		}
		if cl.BlockDuration != nil {
			if d, err := spec.blockDuration.Get(); err != nil || d != *cl.BlockDuration {
				t.Errorf("class %s: block override %v %v", spec.class, d, err)
			}
		}
	}
}

func TestGenLoadDeterministicForSeed(t *testing.T) {
	a := newLoadGen(testClasses(), 2.0, 99)
	b := newLoadGen(testClasses(), 2.0, 99)
	if a.arrivals() != b.arrivals() {
		t.Errorf("same seed produced different arrival counts")
	}
	specsA := a.genLoad(50)
	specsB := b.genLoad(50)
	for i := range specsA {
		sa, sb := specsA[i], specsB[i]
		if sa.class != sb.class || sa.priority != sb.priority ||
			sa.totalCycles != sb.totalCycles || sa.timePerCycle != sb.timePerCycle {
			t.Errorf("spec %d differs between identically seeded generators", i)
			break
		}
	}
}

func TestArrivalsNeverNegative(t *testing.T) {
	lg := newLoadGen(testClasses(), 0.5, 1)
	for i := 0; i < 100; i++ {
		if n := lg.arrivals(); n < 0 {
			t.Fatalf("negative arrival count %d", n)
		}
	}
}
