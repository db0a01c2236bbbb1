package anim

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hwarang98/ClimbingSystem/common"
	"github.com/hwarang98/ClimbingSystem/component"
)

type notification struct {
	kind        string
	id          component.MontageID
	interrupted bool
}

func recordingPlayer(lib Library) (*Player, *[]notification) {
	p := NewPlayer(lib)
	var got []notification
	p.OnMontageBlendingOut(func(id component.MontageID, interrupted bool) {
		got = append(got, notification{"blending_out", id, interrupted})
	})
	p.OnMontageEnded(func(id component.MontageID, interrupted bool) {
		got = append(got, notification{"ended", id, interrupted})
	})
	return p, &got
}

func vecNear(a, b mgl64.Vec3, eps float64) bool {
	return a.Sub(b).Len() <= eps
}

func simpleLibrary() Library {
	return Library{Montages: []MontageSpec{
		{ID: "clip", Duration: 1, BlendOut: 0.2},
		{ID: "other", Duration: 0.5},
	}}
}

func TestPlayerLifecycle(t *testing.T) {
	p, got := recordingPlayer(simpleLibrary())

	if p.PlayMontage("missing") {
		t.Fatalf("unknown clips should not play")
	}
	if !p.PlayMontage("clip") {
		t.Fatalf("expected clip to start")
	}
	if p.PlayMontage("other") {
		t.Fatalf("a second clip should be refused while one plays")
	}
	if p.Current() != "clip" || !p.IsAnyMontagePlaying() {
		t.Fatalf("expected clip to be current")
	}

	steps := []struct {
		dt   float64
		want int
	}{
		{0.5, 0},
		{0.35, 1},
		{0.1, 1},
		{0.1, 2},
	}
	for i, s := range steps {
		p.Advance(s.dt)
		if len(*got) != s.want {
			t.Fatalf("step %d: expected %d notifications, got %d", i, s.want, len(*got))
		}
	}

	want := []notification{{"blending_out", "clip", false}, {"ended", "clip", false}}
	for i, n := range want {
		if (*got)[i] != n {
			t.Fatalf("notification %d: expected %+v, got %+v", i, n, (*got)[i])
		}
	}
	if p.IsAnyMontagePlaying() || p.Current() != component.NoMontage {
		t.Fatalf("player should be idle after the clip ended")
	}
	if !p.PlayMontage("other") {
		t.Fatalf("a new clip should start once idle")
	}
}

func TestPlayerStop(t *testing.T) {
	cases := []struct {
		name    string
		advance float64
		want    []notification
	}{
		{"before_blend", 0.1, []notification{{"blending_out", "clip", true}, {"ended", "clip", true}}},
		{"while_blending", 0.9, []notification{{"blending_out", "clip", false}, {"ended", "clip", true}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p, got := recordingPlayer(simpleLibrary())
			p.PlayMontage("clip")
			p.Advance(c.advance)
			p.Stop()
			if len(*got) != len(c.want) {
				t.Fatalf("expected %d notifications, got %+v", len(c.want), *got)
			}
			for i := range c.want {
				if (*got)[i] != c.want[i] {
					t.Fatalf("notification %d: expected %+v, got %+v", i, c.want[i], (*got)[i])
				}
			}
			p.Stop()
			if len(*got) != len(c.want) {
				t.Fatalf("stopping an idle player should not notify")
			}
		})
	}
}

func TestPlayerHandlerMayStartNextClip(t *testing.T) {
	p := NewPlayer(simpleLibrary())
	started := false
	p.OnMontageBlendingOut(func(id component.MontageID, interrupted bool) {
		if id == "other" {
			return
		}
		started = p.PlayMontage("other")
	})
	p.PlayMontage("clip")
	p.Advance(0.85)
	if started {
		t.Fatalf("blending out clip still plays, next clip should be refused")
	}
	p.Advance(0.2)
	if !p.PlayMontage("other") {
		t.Fatalf("expected the next clip to start after the first ended")
	}
}

func TestRootMotionWarp(t *testing.T) {
	lib := Library{Montages: []MontageSpec{{
		ID:       "hop",
		Duration: 1,
		Warps:    []WarpWindow{{Target: "Target", End: 0.5, Offset: LocalVelocity{Forward: -10}}},
		Motion:   []MotionSegment{{End: 1, Velocity: LocalVelocity{Up: 50}}},
	}}}
	body := &component.Body{Rotation: mgl64.QuatIdent(), Capsule: component.Capsule{HalfHeight: 10}}

	t.Run("no_target_uses_segment", func(t *testing.T) {
		p := NewPlayer(lib)
		p.PlayMontage("hop")
		p.Advance(0.1)
		v, ok := p.RootMotionVelocity(body)
		if !ok || !vecNear(v, mgl64.Vec3{0, 0, 50}, 1e-9) {
			t.Fatalf("expected segment velocity, got %v %v", v, ok)
		}
	})

	t.Run("target_reached_by_window_end", func(t *testing.T) {
		p := NewPlayer(lib)
		p.SetWarpTarget("Target", mgl64.Vec3{100, 0, 0})
		p.PlayMontage("hop")

		b := *body
		for i := 0; i < 4; i++ {
			p.Advance(0.125)
			v, ok := p.RootMotionVelocity(&b)
			if !ok {
				t.Fatalf("step %d: expected warp velocity", i)
			}
			b.Location = b.Location.Add(v.Mul(0.125))
		}
		if want := (mgl64.Vec3{90, 0, 10}); !vecNear(b.Location, want, 1e-9) {
			t.Fatalf("expected to land on %v, got %v", want, b.Location)
		}

		p.Advance(0.125)
		v, _ := p.RootMotionVelocity(&b)
		if !vecNear(v, mgl64.Vec3{0, 0, 50}, 1e-9) {
			t.Fatalf("after the window the segment should drive, got %v", v)
		}
	})

	t.Run("targets", func(t *testing.T) {
		p := NewPlayer(lib)
		p.SetWarpTarget("", mgl64.Vec3{1, 1, 1})
		if _, ok := p.WarpTarget(""); ok {
			t.Fatalf("empty names should be ignored")
		}
		p.SetWarpTarget("Target", mgl64.Vec3{1, 2, 3})
		if v, ok := p.WarpTarget("Target"); !ok || v != (mgl64.Vec3{1, 2, 3}) {
			t.Fatalf("expected stored target, got %v %v", v, ok)
		}
		p.RemoveWarpTarget("Target")
		if _, ok := p.WarpTarget("Target"); ok {
			t.Fatalf("target should be removed")
		}
	})
}

func TestRootMotionSegmentIsBodyRelative(t *testing.T) {
	lib := Library{Montages: []MontageSpec{{
		ID:       "walk_off",
		Duration: 1,
		Motion:   []MotionSegment{{End: 0.5, Velocity: LocalVelocity{Forward: 100}}},
	}}}
	p := NewPlayer(lib)
	p.PlayMontage("walk_off")
	body := &component.Body{Rotation: mgl64.QuatRotate(mgl64.DegToRad(90), common.AxisUp)}

	p.Advance(0.125)
	v, ok := p.RootMotionVelocity(body)
	if !ok || !vecNear(v, mgl64.Vec3{0, 100, 0}, 1e-9) {
		t.Fatalf("expected world velocity along +Y, got %v %v", v, ok)
	}

	p.Advance(0.375)
	p.Advance(0.125)
	if _, ok := p.RootMotionVelocity(body); ok {
		t.Fatalf("past the last segment there should be no root motion")
	}
}

func TestRootMotionRotation(t *testing.T) {
	lib := Library{Montages: []MontageSpec{{
		ID:       "turn",
		Duration: 1,
		Turn:     &TurnWindow{Yaw: 180, Start: 0.4, End: 0.8},
	}}}
	p := NewPlayer(lib)
	p.PlayMontage("turn")
	body := &component.Body{Rotation: mgl64.QuatIdent()}

	for i := 0; i < 10; i++ {
		p.Advance(0.1)
		if q, ok := p.RootMotionRotation(body); ok {
			body.Rotation = q
		}
	}
	f := body.Forward()
	if !vecNear(f, mgl64.Vec3{-1, 0, 0}, 1e-9) {
		t.Fatalf("expected to face back after the turn, forward is %v", f)
	}
	if math.Abs(body.Up().Z()-1) > 1e-9 {
		t.Fatalf("turn should only change yaw")
	}
}

func TestLibraryValidate(t *testing.T) {
	cases := []struct {
		name string
		m    MontageSpec
		ok   bool
	}{
		{"valid", MontageSpec{ID: "a", Duration: 1, BlendOut: 0.2}, true},
		{"no_id", MontageSpec{Duration: 1}, false},
		{"zero_duration", MontageSpec{ID: "a"}, false},
		{"long_blend", MontageSpec{ID: "a", Duration: 1, BlendOut: 2}, false},
		{"unordered_segments", MontageSpec{ID: "a", Duration: 1, Motion: []MotionSegment{{End: 0.6}, {End: 0.4}}}, false},
		{"warp_without_target", MontageSpec{ID: "a", Duration: 1, Warps: []WarpWindow{{End: 0.5}}}, false},
		{"inverted_turn", MontageSpec{ID: "a", Duration: 1, Turn: &TurnWindow{Yaw: 90, Start: 0.6, End: 0.2}}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := Library{Montages: []MontageSpec{c.m}}.Validate()
			if (err == nil) != c.ok {
				t.Fatalf("expected ok=%v, got %v", c.ok, err)
			}
		})
	}

	dup := Library{Montages: []MontageSpec{{ID: "a", Duration: 1}, {ID: "a", Duration: 1}}}
	if err := dup.Validate(); err == nil {
		t.Fatalf("expected an error for duplicate ids")
	}
}
