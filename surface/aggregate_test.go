package surface

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hwarang98/ClimbingSystem/component"
)

func hit(point, normal mgl64.Vec3) component.SurfaceHit {
	return component.SurfaceHit{Blocking: true, ImpactPoint: point, Normal: normal, ImpactNormal: normal}
}

func TestAggregate(t *testing.T) {
	diag := 1 / math.Sqrt2
	cases := []struct {
		name       string
		hits       component.HitSet
		wantLoc    mgl64.Vec3
		wantNormal mgl64.Vec3
	}{
		{"empty", nil, mgl64.Vec3{}, mgl64.Vec3{}},
		{
			"single",
			component.HitSet{hit(mgl64.Vec3{60, 0, 100}, mgl64.Vec3{-1, 0, 0})},
			mgl64.Vec3{60, 0, 100},
			mgl64.Vec3{-1, 0, 0},
		},
		{
			"corner",
			component.HitSet{
				hit(mgl64.Vec3{60, 0, 100}, mgl64.Vec3{-1, 0, 0}),
				hit(mgl64.Vec3{40, 20, 100}, mgl64.Vec3{0, -1, 0}),
			},
			mgl64.Vec3{50, 10, 100},
			mgl64.Vec3{-diag, -diag, 0},
		},
		{
			"opposed_normals",
			component.HitSet{
				hit(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}),
				hit(mgl64.Vec3{10, 0, 0}, mgl64.Vec3{-1, 0, 0}),
			},
			mgl64.Vec3{5, 0, 0},
			mgl64.Vec3{},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Aggregate(c.hits)
			if got.Location.Sub(c.wantLoc).Len() > 1e-9 {
				t.Fatalf("expected location %v, got %v", c.wantLoc, got.Location)
			}
			if got.Normal.Sub(c.wantNormal).Len() > 1e-9 {
				t.Fatalf("expected normal %v, got %v", c.wantNormal, got.Normal)
			}
		})
	}
}

func TestAggregateIgnoresOrder(t *testing.T) {
	a := hit(mgl64.Vec3{60, -10, 80}, mgl64.Vec3{-1, 0, 0.2})
	b := hit(mgl64.Vec3{62, 10, 120}, mgl64.Vec3{-1, 0.1, 0})
	c := hit(mgl64.Vec3{58, 0, 100}, mgl64.Vec3{-0.9, -0.1, 0})

	first := Aggregate(component.HitSet{a, b, c})
	second := Aggregate(component.HitSet{c, a, b})
	if first.Location.Sub(second.Location).Len() > 1e-9 || first.Normal.Sub(second.Normal).Len() > 1e-9 {
		t.Fatalf("expected order independent result, got %v and %v", first, second)
	}
	if l := first.Normal.Len(); math.Abs(l-1) > 1e-9 {
		t.Fatalf("expected unit normal, got length %v", l)
	}
}
