package anim

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hwarang98/ClimbingSystem/component"
	"github.com/hwarang98/ClimbingSystem/prefabs"
	"github.com/hwarang98/ClimbingSystem/tuning"
)

type fakeSource struct {
	velocity, accel mgl64.Vec3
	falling         bool
	climbing        bool
}

func (f fakeSource) Velocity() mgl64.Vec3               { return f.velocity }
func (f fakeSource) CurrentAcceleration() mgl64.Vec3    { return f.accel }
func (f fakeSource) IsFalling() bool                    { return f.falling }
func (f fakeSource) IsClimbing() bool                   { return f.climbing }
func (f fakeSource) UnrotatedClimbVelocity() mgl64.Vec3 { return f.velocity }

func TestSampleParams(t *testing.T) {
	cases := []struct {
		name       string
		src        fakeSource
		shouldMove bool
		ground     float64
	}{
		{"idle", fakeSource{}, false, 0},
		{"running", fakeSource{velocity: mgl64.Vec3{300, 400, 0}, accel: mgl64.Vec3{1, 0, 0}}, true, 500},
		{"coasting", fakeSource{velocity: mgl64.Vec3{300, 0, 0}}, false, 300},
		{"creeping", fakeSource{velocity: mgl64.Vec3{3, 0, 0}, accel: mgl64.Vec3{1, 0, 0}}, false, 3},
		{"falling", fakeSource{velocity: mgl64.Vec3{300, 0, -200}, accel: mgl64.Vec3{1, 0, 0}, falling: true}, false, 300},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := SampleParams(c.src)
			if p.ShouldMove != c.shouldMove {
				t.Fatalf("expected ShouldMove %v, got %v", c.shouldMove, p.ShouldMove)
			}
			if p.GroundSpeed != c.ground {
				t.Fatalf("expected ground speed %v, got %v", c.ground, p.GroundSpeed)
			}
			if p.AirSpeed != c.src.velocity.Z() || p.IsFalling != c.src.falling {
				t.Fatalf("air values not copied: %+v", p)
			}
		})
	}
	if got := SampleParams(nil); got != (Params{}) {
		t.Fatalf("nil source should give zero params, got %+v", got)
	}
}

func TestLoadEmbeddedLibrary(t *testing.T) {
	prefabs.SetDiskRoot("")
	defer prefabs.SetDiskRoot("prefabs")

	lib, err := LoadLibrary("montages.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p := NewPlayer(lib)
	ids := tuning.DefaultClimb().Montages
	for _, id := range []component.MontageID{ids.IdleToClimb, ids.ClimbToTop, ids.ClimbDownLedge, ids.Vault, ids.HopUp, ids.HopDown} {
		if _, ok := p.clips[id]; !ok {
			t.Fatalf("library is missing %s", id)
		}
	}
}
