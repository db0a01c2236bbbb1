// Package scene is a reference scene-query backend made of axis-aligned boxes.
package scene

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hwarang98/ClimbingSystem/common"
	"github.com/hwarang98/ClimbingSystem/component"
)

const (
	// sweepBisections refines the time of first contact of a capsule sweep.
	sweepBisections = 24
	// sweepStepFraction is the largest sample spacing as a fraction of the radius.
	sweepStepFraction = 0.25
)

// Box is a static axis-aligned box.
type Box struct {
	Name     string
	Min      mgl64.Vec3
	Max      mgl64.Vec3
	Channels component.ChannelSet
}

// Contains reports whether p lies inside or on the box.
func (b Box) Contains(p mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// World is a list of boxes. It implements probe.Scene.
type World struct {
	boxes []Box
}

func NewWorld(boxes ...Box) *World {
	w := &World{}
	for _, b := range boxes {
		w.Add(b)
	}
	return w
}

// Add inserts a box, fixing up swapped corners.
func (w *World) Add(b Box) {
	if w == nil {
		return
	}
	for i := 0; i < 3; i++ {
		if b.Min[i] > b.Max[i] {
			b.Min[i], b.Max[i] = b.Max[i], b.Min[i]
		}
	}
	w.boxes = append(w.boxes, b)
}

func (w *World) Boxes() []Box {
	if w == nil {
		return nil
	}
	return append([]Box(nil), w.boxes...)
}

// LineTrace returns the nearest box hit on the segment. A segment starting
// inside a box reports a penetrating hit at time zero.
func (w *World) LineTrace(start, end mgl64.Vec3, channels component.ChannelSet) component.SurfaceHit {
	best := component.Miss(start, end)
	if w == nil {
		return best
	}
	delta := end.Sub(start)
	for _, b := range w.boxes {
		if !b.Channels.Intersects(channels) {
			continue
		}
		t, normal, inside, ok := segmentBoxHit(start, delta, b)
		if !ok {
			continue
		}
		if best.Blocking && t >= best.Time {
			continue
		}
		if inside {
			normal = common.SafeNormal(delta.Mul(-1))
		}
		best = component.SurfaceHit{
			Blocking:         true,
			Time:             t,
			ImpactPoint:      start.Add(delta.Mul(t)),
			ImpactNormal:     normal,
			Normal:           normal,
			TraceStart:       start,
			TraceEnd:         end,
			StartPenetrating: inside,
		}
	}
	return best
}

// segmentBoxHit is the slab test. normal is the face the segment enters through.
func segmentBoxHit(start, delta mgl64.Vec3, b Box) (t float64, normal mgl64.Vec3, inside, ok bool) {
	enter := math.Inf(-1)
	exit := math.Inf(1)
	axis := -1
	sign := 0.0

	for i := 0; i < 3; i++ {
		if math.Abs(delta[i]) < common.SmallNumber {
			if start[i] < b.Min[i] || start[i] > b.Max[i] {
				return 0, mgl64.Vec3{}, false, false
			}
			continue
		}
		inv := 1 / delta[i]
		t1 := (b.Min[i] - start[i]) * inv
		t2 := (b.Max[i] - start[i]) * inv
		n := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			n = 1
		}
		if t1 > enter {
			enter, axis, sign = t1, i, n
		}
		exit = math.Min(exit, t2)
	}

	if enter > exit || exit < 0 || enter > 1 {
		return 0, mgl64.Vec3{}, false, false
	}
	if enter < 0 || axis < 0 {
		return 0, mgl64.Vec3{}, true, true
	}
	normal[axis] = sign
	return enter, normal, false, true
}

// SweepCapsule moves a vertical capsule from start to end and reports the
// first contact with every box it touches, ordered by time.
func (w *World) SweepCapsule(start, end mgl64.Vec3, shape component.Capsule, channels component.ChannelSet) component.HitSet {
	if w == nil || shape.Radius <= 0 {
		return nil
	}
	delta := end.Sub(start)
	steps := 1
	if spacing := shape.Radius * sweepStepFraction; spacing > 0 {
		steps = max(1, int(math.Ceil(delta.Len()/spacing)))
	}

	var hits component.HitSet
	for _, b := range w.boxes {
		if !b.Channels.Intersects(channels) {
			continue
		}
		if h, ok := sweepBox(start, delta, shape, b, steps); ok {
			h.TraceStart, h.TraceEnd = start, end
			hits = append(hits, h)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Time < hits[j].Time })
	return hits
}

func sweepBox(start, delta mgl64.Vec3, shape component.Capsule, b Box, steps int) (component.SurfaceHit, bool) {
	touching := func(t float64) bool {
		d, _, _ := capsuleBoxDistance(start.Add(delta.Mul(t)), shape, b)
		return d <= shape.Radius
	}

	if touching(0) {
		return contactHit(start, shape, b, 0, true), true
	}

	prev := 0.0
	for k := 1; k <= steps; k++ {
		t := float64(k) / float64(steps)
		if !touching(t) {
			prev = t
			continue
		}
		lo, hi := prev, t
		for i := 0; i < sweepBisections; i++ {
			mid := (lo + hi) / 2
			if touching(mid) {
				hi = mid
			} else {
				lo = mid
			}
		}
		return contactHit(start.Add(delta.Mul(hi)), shape, b, hi, false), true
	}
	return component.SurfaceHit{}, false
}

func contactHit(center mgl64.Vec3, shape component.Capsule, b Box, t float64, penetrating bool) component.SurfaceHit {
	_, onAxis, onBox := capsuleBoxDistance(center, shape, b)
	normal := common.SafeNormal(onAxis.Sub(onBox))
	if normal == (mgl64.Vec3{}) {
		normal = penetrationNormal(center, b)
	}
	return component.SurfaceHit{
		Blocking:         true,
		Time:             t,
		ImpactPoint:      onBox,
		ImpactNormal:     normal,
		Normal:           normal,
		StartPenetrating: penetrating,
	}
}

// capsuleBoxDistance returns the distance between the capsule's core segment
// and the box, with the closest points on each.
func capsuleBoxDistance(center mgl64.Vec3, shape component.Capsule, b Box) (float64, mgl64.Vec3, mgl64.Vec3) {
	seg := math.Max(shape.HalfHeight-shape.Radius, 0)
	z0, z1 := center.Z()-seg, center.Z()+seg

	var axisZ, boxZ float64
	switch {
	case z1 < b.Min.Z():
		axisZ, boxZ = z1, b.Min.Z()
	case z0 > b.Max.Z():
		axisZ, boxZ = z0, b.Max.Z()
	default:
		z := common.Clamp(center.Z(), math.Max(z0, b.Min.Z()), math.Min(z1, b.Max.Z()))
		axisZ, boxZ = z, z
	}

	onAxis := mgl64.Vec3{center.X(), center.Y(), axisZ}
	onBox := mgl64.Vec3{
		common.Clamp(center.X(), b.Min.X(), b.Max.X()),
		common.Clamp(center.Y(), b.Min.Y(), b.Max.Y()),
		boxZ,
	}
	return onAxis.Sub(onBox).Len(), onAxis, onBox
}

// penetrationNormal picks the box face nearest to a point inside the box.
func penetrationNormal(p mgl64.Vec3, b Box) mgl64.Vec3 {
	best := math.Inf(1)
	var normal mgl64.Vec3
	for i := 0; i < 3; i++ {
		if d := p[i] - b.Min[i]; d < best {
			best = d
			normal = mgl64.Vec3{}
			normal[i] = -1
		}
		if d := b.Max[i] - p[i]; d < best {
			best = d
			normal = mgl64.Vec3{}
			normal[i] = 1
		}
	}
	return normal
}
