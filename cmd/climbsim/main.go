package main

import (
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/hwarang98/ClimbingSystem/logger"
	"github.com/hwarang98/ClimbingSystem/prefabs"
	"github.com/sirupsen/logrus"
)

func main() {
	sceneName := flag.String("scene", "scenes/wall.yaml", "scene prefab")
	scriptName := flag.String("script", "climb_wall", "driver script in prefabs/scripts (.tengo optional)")
	characterName := flag.String("character", "character.yaml", "character tuning prefab")
	montages := flag.String("montages", "montages.yaml", "montage library prefab")
	ticks := flag.Int("ticks", 3600, "tick limit, 0 runs until the script stops")
	dt := flag.Float64("dt", 1.0/60.0, "seconds per tick")
	draw := flag.Bool("draw", false, "log every climbing probe at debug level")
	watch := flag.Bool("watch", false, "re-run whenever a prefab changes")
	dir := flag.String("prefabs", "prefabs", "directory checked for prefab overrides before the embedded copies")
	flag.Parse()

	logger.Init()
	log := logger.For("climbsim")
	prefabs.SetDiskRoot(*dir)

	cfg := Config{
		Scene:     *sceneName,
		Script:    *scriptName,
		Character: *characterName,
		Montages:  *montages,
		Ticks:     *ticks,
		Dt:        *dt,
		Draw:      *draw,
	}

	ok := runOnce(cfg, log)
	if !*watch {
		if !ok {
			os.Exit(1)
		}
		return
	}

	w, err := prefabs.NewWatcher(200*time.Millisecond, *dir)
	if err != nil {
		log.WithError(err).Fatal("watch prefabs")
	}
	defer w.Close()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	log.WithField("dir", *dir).Info("watching prefabs")
	for {
		select {
		case change, open := <-w.Events:
			if !open {
				return
			}
			log.WithField("path", change.Path).Info("prefab changed, re-running")
			runOnce(cfg, log)
		case err, open := <-w.Errors:
			if !open {
				return
			}
			log.WithError(err).Warn("watcher error")
		case <-interrupt:
			return
		}
	}
}

func runOnce(cfg Config, log *logrus.Entry) bool {
	sim, err := NewSim(cfg)
	if err != nil {
		log.WithError(err).Error("build simulation")
		return false
	}
	sum, err := sim.Run()
	fields := logrus.Fields{
		"scene":       sum.Scene,
		"script":      sum.Script,
		"ticks":       sum.Ticks,
		"mode":        sum.Mode.String(),
		"x":           sum.Location.X(),
		"y":           sum.Location.Y(),
		"z":           sum.Location.Z(),
		"script_done": sum.ScriptDone,
		"traces":      sum.Traces,
	}
	for kind, n := range sum.Counts {
		fields[string(kind)] = n
	}
	if err != nil {
		log.WithFields(fields).WithError(err).Error("simulation failed")
		return false
	}
	log.WithFields(fields).Info("simulation finished")
	return true
}
