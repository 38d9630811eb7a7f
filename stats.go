package coresim

import (
	"sort"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

// RunStats is a read-only observer of proc state: it records admission and
// finish times as the world sees them and never mutates a proc
type RunStats struct {
	admitTimes   map[Tid]Tftick
	turnarounds  []float64
	waits        []float64
	cpuDelivered []float64
}

func newRunStats() *RunStats {
	return &RunStats{
		admitTimes:   make(map[Tid]Tftick),
		turnarounds:  make([]float64, 0),
		waits:        make([]float64, 0),
		cpuDelivered: make([]float64, 0),
	}
}

func (rs *RunStats) admitted(p *Proc, now Tftick) {
	rs.admitTimes[p.Id()] = now
}

func (rs *RunStats) finishedAt(p *Proc, now Tftick) {
	turnaround := float64(now - rs.admitTimes[p.Id()])
	// time spent neither computing nor waiting out a block
	blocked := float64(p.TotalCycles()-1) * float64(p.BlockDuration())
	wait := turnaround - float64(p.TotalCpuTime()) - blocked
	if wait < 0 {
		wait = 0
	}
	rs.turnarounds = append(rs.turnarounds, turnaround)
	rs.waits = append(rs.waits, wait)
	rs.cpuDelivered = append(rs.cpuDelivered, float64(p.TotalCpuTime()))
}

func (rs *RunStats) numFinished() int {
	return len(rs.turnarounds)
}

func (rs *RunStats) logSummary(log *logrus.Logger, utilization float64) {
	if len(rs.turnarounds) == 0 {
		log.Info("run complete, no procs finished")
		return
	}
	sorted := append([]float64(nil), rs.turnarounds...)
	sort.Float64s(sorted)
	log.WithFields(logrus.Fields{
		"finished":       len(rs.turnarounds),
		"utilization":    utilization,
		"turnaroundMean": stat.Mean(sorted, nil),
		"turnaroundStd":  stat.StdDev(sorted, nil),
		"turnaroundP50":  stat.Quantile(0.5, stat.Empirical, sorted, nil),
		"turnaroundP95":  stat.Quantile(0.95, stat.Empirical, sorted, nil),
		"waitMean":       avg(rs.waits),
		"cpuMeanPerProc": avg(rs.cpuDelivered),
	}).Info("run complete")
}
