// Package anim is a reference clip player for traversal montages. It has no
// skeleton: clips are timed windows that report completion and drive root
// motion, optionally warped onto named targets.
package anim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hwarang98/ClimbingSystem/common"
	"github.com/hwarang98/ClimbingSystem/component"
)

// Handler receives clip completion notifications.
type Handler func(id component.MontageID, interrupted bool)

type playback struct {
	spec        MontageSpec
	elapsed     float64
	blendingOut bool
}

// Player plays one montage at a time.
type Player struct {
	clips   map[component.MontageID]MontageSpec
	current *playback
	warps   map[string]mgl64.Vec3
	lastDt  float64

	ended       []Handler
	blendingOut []Handler
}

func NewPlayer(lib Library) *Player {
	p := &Player{
		clips: make(map[component.MontageID]MontageSpec, len(lib.Montages)),
		warps: make(map[string]mgl64.Vec3),
	}
	for _, m := range lib.Montages {
		p.clips[m.ID] = m
	}
	return p
}

// PlayMontage starts a known clip. It refuses while another clip plays.
func (p *Player) PlayMontage(id component.MontageID) bool {
	if p == nil || p.current != nil {
		return false
	}
	spec, ok := p.clips[id]
	if !ok {
		return false
	}
	p.current = &playback{spec: spec}
	return true
}

func (p *Player) IsAnyMontagePlaying() bool {
	return p != nil && p.current != nil
}

// Current is the playing clip, or NoMontage.
func (p *Player) Current() component.MontageID {
	if p == nil || p.current == nil {
		return component.NoMontage
	}
	return p.current.spec.ID
}

// Position is the normalized time of the playing clip.
func (p *Player) Position() float64 {
	if p == nil || p.current == nil {
		return 0
	}
	return p.current.elapsed / p.current.spec.Duration
}

func (p *Player) OnMontageEnded(fn func(id component.MontageID, interrupted bool)) {
	if p == nil || fn == nil {
		return
	}
	p.ended = append(p.ended, fn)
}

func (p *Player) OnMontageBlendingOut(fn func(id component.MontageID, interrupted bool)) {
	if p == nil || fn == nil {
		return
	}
	p.blendingOut = append(p.blendingOut, fn)
}

// Advance moves the playing clip forward. Blending out is reported once the
// clip enters its blend-out window, ended once it runs out.
func (p *Player) Advance(dt float64) {
	if p == nil || p.current == nil || dt <= 0 {
		return
	}
	p.lastDt = dt
	cur := p.current
	cur.elapsed += dt

	if !cur.blendingOut && cur.elapsed >= cur.spec.Duration-cur.spec.BlendOut {
		cur.blendingOut = true
		p.fire(p.blendingOut, cur.spec.ID, false)
	}
	if p.current == cur && cur.elapsed >= cur.spec.Duration {
		p.current = nil
		p.fire(p.ended, cur.spec.ID, false)
	}
}

// Stop interrupts the playing clip. Both notifications still fire.
func (p *Player) Stop() {
	if p == nil || p.current == nil {
		return
	}
	cur := p.current
	p.current = nil
	if !cur.blendingOut {
		p.fire(p.blendingOut, cur.spec.ID, true)
	}
	p.fire(p.ended, cur.spec.ID, true)
}

func (p *Player) fire(handlers []Handler, id component.MontageID, interrupted bool) {
	for _, h := range append([]Handler(nil), handlers...) {
		h(id, interrupted)
	}
}

// SetWarpTarget adds or moves a named warp target.
func (p *Player) SetWarpTarget(name string, location mgl64.Vec3) {
	if p == nil || name == "" {
		return
	}
	p.warps[name] = location
}

func (p *Player) WarpTarget(name string) (mgl64.Vec3, bool) {
	if p == nil {
		return mgl64.Vec3{}, false
	}
	v, ok := p.warps[name]
	return v, ok
}

func (p *Player) RemoveWarpTarget(name string) {
	if p == nil {
		return
	}
	delete(p.warps, name)
}

// RootMotionVelocity is the velocity the playing clip drives over the last
// advanced step. A warp window with a known target steers the body onto the
// target by the end of the window; otherwise the authored segment applies.
func (p *Player) RootMotionVelocity(body *component.Body) (mgl64.Vec3, bool) {
	if p == nil || p.current == nil || body == nil {
		return mgl64.Vec3{}, false
	}
	cur := p.current
	dur := cur.spec.Duration
	t0 := math.Max(0, cur.elapsed-p.lastDt)

	for _, w := range cur.spec.Warps {
		end := w.End * dur
		if t0 >= end {
			continue
		}
		target, ok := p.warps[w.Target]
		if !ok {
			break
		}
		goal := target.Add(body.Up().Mul(body.Capsule.HalfHeight)).Add(local(body, w.Offset))
		remaining := math.Max(end-t0, p.lastDt)
		return goal.Sub(body.Location).Mul(1 / remaining), true
	}

	for _, s := range cur.spec.Motion {
		if t0 < s.End*dur {
			return local(body, s.Velocity), true
		}
	}
	return mgl64.Vec3{}, false
}

// RootMotionRotation is the body rotation after the last advanced step when
// the playing clip has a turn window covering it.
func (p *Player) RootMotionRotation(body *component.Body) (mgl64.Quat, bool) {
	if p == nil || p.current == nil || body == nil || p.current.spec.Turn == nil {
		return mgl64.Quat{}, false
	}
	cur := p.current
	turn := cur.spec.Turn
	dur := cur.spec.Duration
	start, end := turn.Start*dur, turn.End*dur
	t1 := cur.elapsed
	t0 := math.Max(0, t1-p.lastDt)
	overlap := math.Min(t1, end) - math.Max(t0, start)
	if overlap <= 0 {
		return mgl64.Quat{}, false
	}
	step := mgl64.DegToRad(turn.Yaw * overlap / (end - start))
	return mgl64.QuatRotate(step, common.AxisUp).Mul(body.Rotation).Normalize(), true
}

func local(body *component.Body, v LocalVelocity) mgl64.Vec3 {
	return body.Rotation.Rotate(mgl64.Vec3{v.Forward, v.Right, v.Up})
}
