package main

import (
	"reflect"
	"testing"

	"github.com/hwarang98/ClimbingSystem/climb"
	"github.com/hwarang98/ClimbingSystem/component"
	"github.com/hwarang98/ClimbingSystem/prefabs"
)

func TestSimClimbsWall(t *testing.T) {
	prefabs.SetDiskRoot("")
	defer prefabs.SetDiskRoot("prefabs")

	sim, err := NewSim(Config{
		Scene:     "scenes/wall.yaml",
		Script:    "climb_wall",
		Character: "character.yaml",
		Montages:  "montages.yaml",
		Ticks:     120,
		Dt:        1.0 / 60.0,
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	sum, err := sim.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Ticks != 120 {
		t.Fatalf("expected the tick limit to stop the run, got %d ticks", sum.Ticks)
	}
	if len(sum.Actions) == 0 || sum.Actions[0] != climb.ActionStartClimb {
		t.Fatalf("expected a start climb commit, got %v", sum.Actions)
	}
	if sum.Counts[climb.EventEnteredClimb] != 1 {
		t.Fatalf("expected one climb entry, got %d", sum.Counts[climb.EventEnteredClimb])
	}
	if sum.Mode != component.ModeClimbing {
		t.Fatalf("expected to still be climbing, got %v", sum.Mode)
	}
}

func TestSimDrawKeepsOutcome(t *testing.T) {
	prefabs.SetDiskRoot("")
	defer prefabs.SetDiskRoot("prefabs")

	run := func(draw bool) Summary {
		sim, err := NewSim(Config{
			Scene:     "scenes/wall.yaml",
			Script:    "climb_wall",
			Character: "character.yaml",
			Montages:  "montages.yaml",
			Ticks:     90,
			Dt:        1.0 / 60.0,
			Draw:      draw,
		})
		if err != nil {
			t.Fatalf("build: %v", err)
		}
		sum, err := sim.Run()
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		return sum
	}

	plain := run(false)
	drawn := run(true)
	if plain.Traces != 0 {
		t.Fatalf("expected no traces without -draw, got %d", plain.Traces)
	}
	if drawn.Traces == 0 {
		t.Fatalf("expected probes to be drawn")
	}
	if drawn.Location != plain.Location || drawn.Mode != plain.Mode {
		t.Fatalf("drawing changed the run: %v %v vs %v %v", drawn.Mode, drawn.Location, plain.Mode, plain.Location)
	}
	if !reflect.DeepEqual(drawn.Counts, plain.Counts) || !reflect.DeepEqual(drawn.Actions, plain.Actions) {
		t.Fatalf("drawing changed the events: %v vs %v", drawn.Counts, plain.Counts)
	}
}

func TestNewSimErrors(t *testing.T) {
	prefabs.SetDiskRoot("")
	defer prefabs.SetDiskRoot("prefabs")

	cases := []struct {
		name string
		cfg  Config
	}{
		{"zero_dt", Config{Scene: "scenes/wall.yaml", Script: "climb_wall", Character: "character.yaml", Montages: "montages.yaml"}},
		{"missing_scene", Config{Scene: "scenes/nope.yaml", Script: "climb_wall", Character: "character.yaml", Montages: "montages.yaml", Dt: 0.01}},
		{"missing_script", Config{Scene: "scenes/wall.yaml", Script: "nope", Character: "character.yaml", Montages: "montages.yaml", Dt: 0.01}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := NewSim(c.cfg); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}
