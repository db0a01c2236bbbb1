package component

import "github.com/go-gl/mathgl/mgl64"

// SurfaceHit is a single probe result. A zero SurfaceHit is a non-blocking miss.
type SurfaceHit struct {
	Blocking bool
	// Time is the fraction along the trace where the hit happened, in [0, 1].
	Time         float64
	ImpactPoint  mgl64.Vec3
	ImpactNormal mgl64.Vec3
	// Normal is the normal of the swept shape at the hit. For line traces it
	// equals ImpactNormal.
	Normal           mgl64.Vec3
	TraceStart       mgl64.Vec3
	TraceEnd         mgl64.Vec3
	StartPenetrating bool
}

// Miss returns a non-blocking result for a trace.
func Miss(start, end mgl64.Vec3) SurfaceHit {
	return SurfaceHit{Time: 1, TraceStart: start, TraceEnd: end}
}

// HitSet is the ordered result of one multi-hit sweep.
type HitSet []SurfaceHit

func (h HitSet) Empty() bool { return len(h) == 0 }

// AggregatedSurface is the blended surface of a HitSet. Both vectors are zero
// when it was built from an empty set.
type AggregatedSurface struct {
	Location mgl64.Vec3
	Normal   mgl64.Vec3
}

func (s AggregatedSurface) Empty() bool {
	return s.Normal == (mgl64.Vec3{}) && s.Location == (mgl64.Vec3{})
}
