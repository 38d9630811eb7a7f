package main

import (
	"flag"

	"github.com/sirupsen/logrus"

	"coresim"
)

const maxDrainTicks = 100000

func main() {
	configPath := flag.String("config", "", "path to a yaml run configuration; built-in defaults are used when empty")
	debug := flag.Bool("debug", false, "log every per-proc scheduling event")
	flag.Parse()

	log := logrus.New()
	if *debug {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg := coresim.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = coresim.LoadConfig(*configPath)
		if err != nil {
			log.Fatal(err)
		}
	}

	w, err := coresim.NewWorld(cfg, log)
	if err != nil {
		log.Fatal(err)
	}

	w.Run(cfg.Ticks)
	if !w.Drain(maxDrainTicks) {
		log.WithFields(logrus.Fields{
			"created":  w.Sched().NumCreated(),
			"finished": w.Sched().FinishedLen(),
		}).Warn("drain gave up before all procs finished")
	}
	w.LogSummary()
}
