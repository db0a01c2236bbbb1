package tuning

import (
	"errors"
	"testing"

	"github.com/hwarang98/ClimbingSystem/component"
	"github.com/hwarang98/ClimbingSystem/prefabs"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default spec should validate: %v", err)
	}
}

func TestValidateLandIndexRange(t *testing.T) {
	s := Default()
	for i := 0; i < s.Climb.Vault.TraceSteps; i++ {
		s.Climb.Vault.LandTraceIndex = i
		if err := s.Validate(); err != nil {
			t.Fatalf("land_trace_index %d: expected valid, got %v", i, err)
		}
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(s *Spec)
	}{
		{"zero_trace_radius", func(s *Spec) { s.Climb.CapsuleTraceRadius = 0 }},
		{"negative_climb_speed", func(s *Spec) { s.Climb.MaxClimbSpeed = -1 }},
		{"negative_brake", func(s *Spec) { s.Climb.MaxBrakeClimbDeceleration = -5 }},
		{"angle_zero", func(s *Spec) { s.Climb.MaxClimbableSurfaceAngle = 0 }},
		{"angle_too_large", func(s *Spec) { s.Climb.MaxClimbableSurfaceAngle = 180 }},
		{"no_vault_steps", func(s *Spec) { s.Climb.Vault.TraceSteps = 0 }},
		{"land_index_negative", func(s *Spec) { s.Climb.Vault.LandTraceIndex = -1 }},
		{"land_index_past_end", func(s *Spec) { s.Climb.Vault.LandTraceIndex = s.Climb.Vault.TraceSteps }},
		{"hop_threshold_above_one", func(s *Spec) { s.Climb.Hop.DotThreshold = 1.5 }},
		{"no_surface_channels", func(s *Spec) { s.Climb.SurfaceChannels = 0 }},
		{"no_capsule", func(s *Spec) { s.Movement.CapsuleRadius = 0 }},
		{"walkable_z_zero", func(s *Spec) { s.Movement.WalkableFloorZ = 0 }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := Default()
			c.mutate(&s)
			err := s.Validate()
			if err == nil {
				t.Fatalf("expected a validation error")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestLoadEmbeddedCharacter(t *testing.T) {
	prefabs.SetDiskRoot("")
	defer prefabs.SetDiskRoot("prefabs")

	spec, err := Load("character.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def := Default()
	if spec.Climb.MaxClimbableSurfaceAngle != def.Climb.MaxClimbableSurfaceAngle {
		t.Fatalf("expected climbable angle %v, got %v", def.Climb.MaxClimbableSurfaceAngle, spec.Climb.MaxClimbableSurfaceAngle)
	}
	if spec.Climb.ClimbingHalfHeight != 48 || spec.Climb.StandingHalfHeight != 96 {
		t.Fatalf("unexpected half heights %v/%v", spec.Climb.ClimbingHalfHeight, spec.Climb.StandingHalfHeight)
	}
	if !spec.Climb.SurfaceChannels.Has(component.ChannelClimbable) {
		t.Fatalf("surface channels should include climbable")
	}
	if spec.Climb.Montages != def.Climb.Montages {
		t.Fatalf("expected stock montage ids, got %+v", spec.Climb.Montages)
	}
}

func TestLoadMissing(t *testing.T) {
	prefabs.SetDiskRoot("")
	defer prefabs.SetDiskRoot("prefabs")

	if _, err := Load("does_not_exist.yaml"); err == nil {
		t.Fatalf("expected an error for a missing prefab")
	}
}
