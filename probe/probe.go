// Package probe runs the geometric queries the climbing core makes against the
// world. Every probe is a pure query: it returns hits and changes nothing.
package probe

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hwarang98/ClimbingSystem/component"
	"github.com/hwarang98/ClimbingSystem/tuning"
)

// Scene is the scene-query service the probes are built on.
type Scene interface {
	// SweepCapsule returns every blocking hit of a vertical capsule moved from
	// start to end, ordered by Time.
	SweepCapsule(start, end mgl64.Vec3, shape component.Capsule, channels component.ChannelSet) component.HitSet
	// LineTrace returns the nearest blocking hit on the segment, or a miss.
	LineTrace(start, end mgl64.Vec3, channels component.ChannelSet) component.SurfaceHit
}

// Debug asks for a probe to be visualized.
type Debug struct {
	Show       bool
	Persistent bool
}

// TraceKind tells a Drawer which primitive produced a result.
type TraceKind uint8

const (
	TraceCapsule TraceKind = iota + 1
	TraceLine
)

// Drawer receives probe results for visualization.
type Drawer interface {
	DrawTrace(kind TraceKind, start, end mgl64.Vec3, hits []component.SurfaceHit, persistent bool)
}

// Prober builds the climbing probes from the two scene primitives.
type Prober struct {
	scene  Scene
	tuning tuning.Climb
	drawer Drawer
}

func NewProber(scene Scene, t tuning.Climb) *Prober {
	return &Prober{scene: scene, tuning: t}
}

// debug is the draw request the derived probes make, taken from tuning.
func (p *Prober) debug() Debug {
	return Debug{Show: p.tuning.DebugDraw.Show, Persistent: p.tuning.DebugDraw.Persistent}
}

// SetDrawer installs a debug drawer. Drawing never changes a result.
func (p *Prober) SetDrawer(d Drawer) {
	if p == nil {
		return
	}
	p.drawer = d
}

// CapsuleMulti sweeps the climb trace capsule against the climbable channels.
func (p *Prober) CapsuleMulti(start, end mgl64.Vec3, dbg Debug) component.HitSet {
	if p == nil || p.scene == nil {
		return nil
	}
	shape := component.Capsule{Radius: p.tuning.CapsuleTraceRadius, HalfHeight: p.tuning.CapsuleTraceHalfHeight}
	hits := p.scene.SweepCapsule(start, end, shape, p.tuning.SurfaceChannels)
	out := make(component.HitSet, 0, len(hits))
	for _, h := range hits {
		if h.Blocking {
			out = append(out, h)
		}
	}
	if dbg.Show && p.drawer != nil {
		p.drawer.DrawTrace(TraceCapsule, start, end, append([]component.SurfaceHit(nil), out...), dbg.Persistent)
	}
	return out
}

// LineSingle traces a line against the climbable channels.
func (p *Prober) LineSingle(start, end mgl64.Vec3, dbg Debug) component.SurfaceHit {
	if p == nil || p.scene == nil {
		return component.Miss(start, end)
	}
	hit := p.scene.LineTrace(start, end, p.tuning.SurfaceChannels)
	hit.TraceStart, hit.TraceEnd = start, end
	if dbg.Show && p.drawer != nil {
		p.drawer.DrawTrace(TraceLine, start, end, []component.SurfaceHit{hit}, dbg.Persistent)
	}
	return hit
}

// ForwardSurfaces looks for wall-like surfaces just ahead of the body.
func (p *Prober) ForwardSurfaces(body *component.Body) component.HitSet {
	if p == nil || body == nil {
		return nil
	}
	forward := body.Forward()
	start := body.Location.Add(forward.Mul(p.tuning.ForwardTraceOffset))
	return p.CapsuleMulti(start, start.Add(forward), p.debug())
}

// EyeHeight traces forward from eye height plus startOffset.
func (p *Prober) EyeHeight(body *component.Body, distance, startOffset float64) component.SurfaceHit {
	if p == nil || body == nil {
		return component.SurfaceHit{}
	}
	start := body.Location.Add(body.Up().Mul(p.tuning.EyeHeight + startOffset))
	return p.LineSingle(start, start.Add(body.Forward().Mul(distance)), p.debug())
}

// Floor sweeps a short distance below the body.
func (p *Prober) Floor(body *component.Body) component.HitSet {
	if p == nil || body == nil {
		return nil
	}
	down := body.Up().Mul(-1)
	start := body.Location.Add(down.Mul(p.tuning.Floor.TraceOffset))
	return p.CapsuleMulti(start, start.Add(down), p.debug())
}

// Down traces from start along the body's down axis for depth units.
func (p *Prober) Down(body *component.Body, start mgl64.Vec3, depth float64) component.SurfaceHit {
	if p == nil || body == nil {
		return component.Miss(start, start)
	}
	end := start.Add(body.Up().Mul(-depth))
	return p.LineSingle(start, end, p.debug())
}
