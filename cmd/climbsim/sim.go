package main

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hwarang98/ClimbingSystem/anim"
	"github.com/hwarang98/ClimbingSystem/character"
	"github.com/hwarang98/ClimbingSystem/climb"
	"github.com/hwarang98/ClimbingSystem/component"
	"github.com/hwarang98/ClimbingSystem/driver"
	"github.com/hwarang98/ClimbingSystem/logger"
	"github.com/hwarang98/ClimbingSystem/probe"
	"github.com/hwarang98/ClimbingSystem/scene"
	"github.com/hwarang98/ClimbingSystem/tuning"
	"github.com/sirupsen/logrus"
)

// Config names the prefabs a run is built from.
type Config struct {
	Scene     string
	Script    string
	Character string
	Montages  string
	Ticks     int
	Dt        float64
	// Draw logs every climbing probe at debug level.
	Draw bool
}

// Summary is what a finished run reports.
type Summary struct {
	Scene      string
	Script     string
	Ticks      int
	Mode       component.MovementMode
	Location   mgl64.Vec3
	ScriptDone bool
	Counts     map[climb.EventKind]int
	Actions    []climb.Action
	Traces     int
}

// Sim steps one scripted character through a scene.
type Sim struct {
	cfg       Config
	frames    int
	character *character.Character
	script    *driver.Script
	summary   Summary
	log       *logrus.Entry
}

func NewSim(cfg Config) (*Sim, error) {
	if cfg.Dt <= 0 {
		return nil, fmt.Errorf("dt must be positive, got %v", cfg.Dt)
	}
	spec, err := tuning.Load(cfg.Character)
	if err != nil {
		return nil, err
	}
	lib, err := anim.LoadLibrary(cfg.Montages)
	if err != nil {
		return nil, err
	}
	sceneSpec, world, err := scene.Load(cfg.Scene)
	if err != nil {
		return nil, err
	}
	script, err := driver.Load(cfg.Script)
	if err != nil {
		return nil, err
	}

	s := &Sim{
		cfg:    cfg,
		script: script,
		summary: Summary{
			Scene:  sceneSpec.Name,
			Script: script.Path(),
			Counts: make(map[climb.EventKind]int),
		},
		log: logger.For("sim").WithFields(logrus.Fields{"scene": sceneSpec.Name, "script": script.Path()}),
	}

	var opts []climb.Option
	if cfg.Draw {
		spec.Climb.DebugDraw.Show = true
		opts = append(opts, climb.WithDrawer(&traceLog{sim: s}))
	}
	spawn := character.Spawn{Location: mgl64.Vec3(sceneSpec.Spawn.Location), Yaw: sceneSpec.Spawn.Yaw}
	s.character = character.New(spec.Name, spec, lib, world, spawn, opts...)
	return s, nil
}

// traceLog is the probe drawer of a headless run.
type traceLog struct {
	sim *Sim
}

func (d *traceLog) DrawTrace(kind probe.TraceKind, start, end mgl64.Vec3, hits []component.SurfaceHit, persistent bool) {
	d.sim.summary.Traces++
	blocking := 0
	for _, h := range hits {
		if h.Blocking {
			blocking++
		}
	}
	shape := "line"
	if kind == probe.TraceCapsule {
		shape = "capsule"
	}
	d.sim.log.WithFields(logrus.Fields{
		"tick":  d.sim.frames,
		"shape": shape,
		"start": start,
		"end":   end,
		"hits":  blocking,
	}).Debug("probe")
}

// Update runs one tick: script, input, animation and movement, then events.
func (s *Sim) Update() error {
	s.frames++

	intent, err := s.script.Next(s.character, driver.Frame{
		Tick: s.frames,
		Time: float64(s.frames) * s.cfg.Dt,
		Dt:   s.cfg.Dt,
	})
	if err != nil {
		return err
	}
	s.character.HandleInput(intent)
	s.character.Tick(s.cfg.Dt)

	for _, evt := range s.character.Movement.Events().Drain() {
		s.record(evt)
	}
	return nil
}

func (s *Sim) record(evt climb.Event) {
	s.summary.Counts[evt.Kind]++
	if evt.Kind == climb.EventActionCommitted {
		s.summary.Actions = append(s.summary.Actions, evt.Action)
	}
	s.log.WithFields(logrus.Fields{
		"tick":    s.frames,
		"kind":    string(evt.Kind),
		"from":    evt.From.String(),
		"to":      evt.To.String(),
		"reason":  evt.Reason.String(),
		"action":  evt.Action.String(),
		"montage": string(evt.Montage),
	}).Debug("climb event")
}

// Run updates until the script stops or the tick limit is reached.
func (s *Sim) Run() (Summary, error) {
	defer s.character.Close()
	for s.cfg.Ticks <= 0 || s.frames < s.cfg.Ticks {
		if s.script.Done() {
			break
		}
		if err := s.Update(); err != nil {
			return s.finish(), err
		}
	}
	return s.finish(), nil
}

func (s *Sim) finish() Summary {
	sum := s.summary
	sum.Ticks = s.frames
	sum.Mode = s.character.Movement.Mode()
	sum.Location = s.character.Body.Location
	sum.ScriptDone = s.script.Done()
	return sum
}
