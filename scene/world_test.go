package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hwarang98/ClimbingSystem/component"
	"github.com/hwarang98/ClimbingSystem/prefabs"
)

var (
	static    = component.Channels(component.ChannelWorldStatic)
	climbable = component.Channels(component.ChannelWorldStatic, component.ChannelClimbable)
)

func testWorld() *World {
	return NewWorld(
		Box{Name: "ground", Min: mgl64.Vec3{-1000, -1000, -100}, Max: mgl64.Vec3{1000, 1000, 0}, Channels: static},
		Box{Name: "wall", Min: mgl64.Vec3{60, -500, 0}, Max: mgl64.Vec3{160, 500, 400}, Channels: climbable},
	)
}

func TestLineTrace(t *testing.T) {
	w := testWorld()
	cases := []struct {
		name        string
		start, end  mgl64.Vec3
		channels    component.ChannelSet
		wantHit     bool
		wantTime    float64
		wantNormal  mgl64.Vec3
		penetrating bool
	}{
		{"wall_front", mgl64.Vec3{0, 0, 50}, mgl64.Vec3{200, 0, 50}, climbable, true, 0.3, mgl64.Vec3{-1, 0, 0}, false},
		{"ground_down", mgl64.Vec3{-200, 0, 100}, mgl64.Vec3{-200, 0, -100}, static, true, 0.5, mgl64.Vec3{0, 0, 1}, false},
		{"above_wall", mgl64.Vec3{0, 0, 450}, mgl64.Vec3{200, 0, 450}, climbable, false, 1, mgl64.Vec3{}, false},
		{"filtered_channel", mgl64.Vec3{-200, 0, 100}, mgl64.Vec3{-200, 0, -100}, component.Channels(component.ChannelClimbable), false, 1, mgl64.Vec3{}, false},
		{"starts_inside", mgl64.Vec3{100, 0, 50}, mgl64.Vec3{300, 0, 50}, climbable, true, 0, mgl64.Vec3{-1, 0, 0}, true},
		{"nearest_of_two", mgl64.Vec3{100, 0, 500}, mgl64.Vec3{100, 0, -50}, climbable, true, 100.0 / 550.0, mgl64.Vec3{0, 0, 1}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			hit := w.LineTrace(c.start, c.end, c.channels)
			if hit.Blocking != c.wantHit {
				t.Fatalf("expected blocking %v, got %v", c.wantHit, hit.Blocking)
			}
			if math.Abs(hit.Time-c.wantTime) > 1e-9 {
				t.Fatalf("expected time %v, got %v", c.wantTime, hit.Time)
			}
			if hit.Normal.Sub(c.wantNormal).Len() > 1e-9 {
				t.Fatalf("expected normal %v, got %v", c.wantNormal, hit.Normal)
			}
			if hit.StartPenetrating != c.penetrating {
				t.Fatalf("expected penetrating %v, got %v", c.penetrating, hit.StartPenetrating)
			}
			if hit.TraceStart != c.start || hit.TraceEnd != c.end {
				t.Fatalf("trace endpoints not recorded")
			}
		})
	}
}

func TestSweepCapsule(t *testing.T) {
	w := testWorld()
	shape := component.Capsule{Radius: 10, HalfHeight: 20}

	hits := w.SweepCapsule(mgl64.Vec3{0, 0, 50}, mgl64.Vec3{100, 0, 50}, shape, climbable)
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	h := hits[0]
	if math.Abs(h.Time-0.5) > 1e-4 {
		t.Fatalf("expected contact at 0.5, got %v", h.Time)
	}
	if h.Normal.Sub(mgl64.Vec3{-1, 0, 0}).Len() > 1e-9 {
		t.Fatalf("expected wall normal, got %v", h.Normal)
	}
	if h.ImpactPoint.Sub(mgl64.Vec3{60, 0, 50}).Len() > 1e-3 {
		t.Fatalf("expected impact on wall face, got %v", h.ImpactPoint)
	}

	t.Run("penetrating_start", func(t *testing.T) {
		hits := w.SweepCapsule(mgl64.Vec3{30, 0, 100}, mgl64.Vec3{31, 0, 100}, component.Capsule{Radius: 50, HalfHeight: 72}, climbable)
		if len(hits) != 1 || !hits[0].StartPenetrating || hits[0].Time != 0 {
			t.Fatalf("expected one penetrating hit at time 0, got %+v", hits)
		}
		if hits[0].ImpactPoint.Sub(mgl64.Vec3{60, 0, 100}).Len() > 1e-9 {
			t.Fatalf("expected impact at the wall face, got %v", hits[0].ImpactPoint)
		}
	})

	t.Run("ordered_by_time", func(t *testing.T) {
		hits := w.SweepCapsule(mgl64.Vec3{0, 0, 60}, mgl64.Vec3{100, 0, -40}, shape, climbable)
		if len(hits) != 2 {
			t.Fatalf("expected hits on ground and wall, got %d", len(hits))
		}
		if hits[0].Time > hits[1].Time {
			t.Fatalf("hits out of order: %v then %v", hits[0].Time, hits[1].Time)
		}
	})

	t.Run("miss", func(t *testing.T) {
		if hits := w.SweepCapsule(mgl64.Vec3{-500, 0, 200}, mgl64.Vec3{-400, 0, 200}, shape, climbable); len(hits) != 0 {
			t.Fatalf("expected no hits, got %d", len(hits))
		}
	})
}

func TestAddSwapsCorners(t *testing.T) {
	w := NewWorld(Box{Min: mgl64.Vec3{10, 10, 10}, Max: mgl64.Vec3{0, 0, 0}, Channels: static})
	b := w.Boxes()[0]
	if b.Min != (mgl64.Vec3{0, 0, 0}) || b.Max != (mgl64.Vec3{10, 10, 10}) {
		t.Fatalf("expected normalized corners, got %v %v", b.Min, b.Max)
	}
	if !b.Contains(mgl64.Vec3{5, 5, 5}) || b.Contains(mgl64.Vec3{11, 5, 5}) {
		t.Fatalf("Contains disagrees with corners")
	}
}

func TestBoxSpec(t *testing.T) {
	center, size := [3]float64{105, 0, 60}, [3]float64{70, 600, 120}
	b, err := BoxSpec{Name: "crate", Center: &center, Size: &size}.Box()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Min != (mgl64.Vec3{70, -300, 0}) || b.Max != (mgl64.Vec3{140, 300, 120}) {
		t.Fatalf("unexpected corners %v %v", b.Min, b.Max)
	}
	if b.Channels != static {
		t.Fatalf("expected default world_static channel, got %v", b.Channels)
	}
	if _, err := (BoxSpec{Name: "bad", Center: &center}).Box(); err == nil {
		t.Fatalf("expected error for a box without size")
	}
}

func TestLoadEmbeddedScenes(t *testing.T) {
	prefabs.SetDiskRoot("")
	defer prefabs.SetDiskRoot("prefabs")

	cases := []struct {
		file  string
		boxes int
	}{
		{"scenes/wall.yaml", 2},
		{"scenes/vault.yaml", 2},
		{"scenes/ledge.yaml", 2},
	}
	for _, c := range cases {
		t.Run(c.file, func(t *testing.T) {
			spec, w, err := Load(c.file)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if got := len(w.Boxes()); got != c.boxes {
				t.Fatalf("expected %d boxes, got %d", c.boxes, got)
			}
			spawn := mgl64.Vec3(spec.Spawn.Location)
			for _, b := range w.Boxes() {
				if b.Contains(spawn) {
					t.Fatalf("spawn %v inside box %s", spawn, b.Name)
				}
			}
		})
	}

	_, w, err := Load("scenes/wall.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, b := range w.Boxes() {
		if b.Name == "wall" && !b.Channels.Has(component.ChannelClimbable) {
			t.Fatalf("wall should be climbable")
		}
	}
}
