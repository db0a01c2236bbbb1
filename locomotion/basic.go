package locomotion

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hwarang98/ClimbingSystem/common"
	"github.com/hwarang98/ClimbingSystem/component"
	"github.com/hwarang98/ClimbingSystem/probe"
	"github.com/hwarang98/ClimbingSystem/tuning"
)

const (
	// brakingFrictionFactor scales friction while braking.
	brakingFrictionFactor = 2.0
	// brakingSubStep is the largest step the braking loop integrates at once.
	brakingSubStep = 1.0 / 33.0
	// brakeToStopVelocity is the speed under which braking snaps to zero.
	brakeToStopVelocity = 10.0
	// pullBack keeps a moved capsule this far off the surface it hit.
	pullBack = 0.1
	// floorGap is the height the capsule floats above a found floor.
	floorGap = 0.02
)

// Basic is the reference integrator. It moves bodies through a probe.Scene.
type Basic struct {
	scene    probe.Scene
	movement tuning.Movement

	// LastImpact is the most recent blocking hit passed to HandleImpact.
	LastImpact component.SurfaceHit
	Impacts    int
}

func NewBasic(scene probe.Scene, m tuning.Movement) *Basic {
	return &Basic{scene: scene, movement: m}
}

// CalcVelocity applies braking when there is no acceleration or the body is
// over the speed limit, turns the velocity toward the acceleration using
// friction, then integrates the acceleration.
func (b *Basic) CalcVelocity(body *component.Body, dt float64, p VelocityParams) {
	if body == nil || dt < common.SmallNumber {
		return
	}

	friction := math.Max(0, p.Friction)
	maxSpeed := math.Max(0, p.MaxSpeed)
	accel := body.Acceleration
	zeroAccel := accel.Len() < common.SmallNumber
	overMax := body.Velocity.Len() > maxSpeed

	if zeroAccel || overMax {
		old := body.Velocity
		b.applyBraking(body, dt, friction, p.BrakingDeceleration)
		if overMax && body.Velocity.Len() < maxSpeed && accel.Dot(old) > 0 {
			body.Velocity = common.SafeNormal(old).Mul(maxSpeed)
		}
	} else {
		dir := common.SafeNormal(accel)
		speed := body.Velocity.Len()
		body.Velocity = body.Velocity.Sub(body.Velocity.Sub(dir.Mul(speed)).Mul(math.Min(dt*friction, 1)))
	}

	if p.Fluid {
		body.Velocity = body.Velocity.Mul(1 - math.Min(friction*dt, 1))
	}

	if !zeroAccel {
		limit := maxSpeed
		if body.Velocity.Len() > maxSpeed {
			limit = body.Velocity.Len()
		}
		body.Velocity = clampLen(body.Velocity.Add(accel.Mul(dt)), limit)
	}
}

func (b *Basic) applyBraking(body *component.Body, dt, friction, braking float64) {
	if body.Velocity.Len() < common.SmallNumber {
		return
	}
	friction = math.Max(0, friction*brakingFrictionFactor)
	braking = math.Max(0, braking)
	if friction == 0 && braking == 0 {
		return
	}

	old := body.Velocity
	var reverse mgl64.Vec3
	if braking > 0 {
		reverse = common.SafeNormal(body.Velocity).Mul(-braking)
	}

	remaining := dt
	for remaining >= common.SmallNumber {
		step := remaining
		if remaining > brakingSubStep && friction > 0 {
			step = math.Min(brakingSubStep, remaining*0.5)
		}
		remaining -= step

		body.Velocity = body.Velocity.Add(body.Velocity.Mul(-friction).Add(reverse).Mul(step))
		if body.Velocity.Dot(old) <= 0 {
			body.Velocity = mgl64.Vec3{}
			return
		}
	}

	l2 := body.Velocity.Dot(body.Velocity)
	if l2 <= common.KindaSmallNumber || (braking > 0 && l2 <= brakeToStopVelocity*brakeToStopVelocity) {
		body.Velocity = mgl64.Vec3{}
	}
}

func (b *Basic) ApplyRootMotion(body *component.Body, velocity mgl64.Vec3) {
	if body == nil {
		return
	}
	body.Velocity = velocity
}

// SafeMove sweeps the body capsule. Hits the body starts inside are ignored
// when the move leaves or runs along them.
func (b *Basic) SafeMove(body *component.Body, delta mgl64.Vec3, rot mgl64.Quat) component.SurfaceHit {
	if body == nil {
		return component.SurfaceHit{}
	}
	body.Rotation = rot

	start := body.Location
	end := start.Add(delta)
	if delta.Len() < common.SmallNumber {
		return component.Miss(start, end)
	}
	if b.scene == nil {
		body.Location = end
		return component.Miss(start, end)
	}

	var blocking *component.SurfaceHit
	hits := b.scene.SweepCapsule(start, end, body.Capsule, body.Collision)
	for i := range hits {
		h := hits[i]
		if !h.Blocking {
			continue
		}
		if h.StartPenetrating && delta.Dot(h.Normal) >= 0 {
			continue
		}
		blocking = &hits[i]
		break
	}

	if blocking == nil {
		body.Location = end
		return component.Miss(start, end)
	}

	length := delta.Len()
	travel := math.Max(0, blocking.Time*length-pullBack)
	body.Location = start.Add(delta.Mul(travel / length))
	hit := *blocking
	hit.Time = travel / length
	return hit
}

func (b *Basic) HandleImpact(body *component.Body, hit component.SurfaceHit, dt float64, delta mgl64.Vec3) {
	if !hit.Blocking {
		return
	}
	b.LastImpact = hit
	b.Impacts++
}

// SlideAlongSurface moves the rest of delta along the hit plane. When the
// slide runs into a second surface the move continues along the crease.
func (b *Basic) SlideAlongSurface(body *component.Body, delta mgl64.Vec3, timeRemaining float64, normal mgl64.Vec3, hit component.SurfaceHit) float64 {
	if body == nil || !hit.Blocking {
		return 0
	}
	normal = common.SafeNormal(normal)
	slide := delta.Sub(normal.Mul(delta.Dot(normal))).Mul(timeRemaining)
	if slide.Dot(delta) <= 0 {
		return 0
	}

	h := b.SafeMove(body, slide, body.Rotation)
	if !h.Blocking {
		return 1
	}
	percent := h.Time
	b.HandleImpact(body, h, 0, slide)

	crease := common.SafeNormal(normal.Cross(common.SafeNormal(h.Normal)))
	if crease == (mgl64.Vec3{}) {
		return percent
	}
	rest := crease.Mul(slide.Dot(crease) * (1 - h.Time))
	if rest.Dot(delta) <= 0 {
		return percent
	}
	h2 := b.SafeMove(body, rest, body.Rotation)
	if h2.Blocking {
		b.HandleImpact(body, h2, 0, rest)
	}
	return percent + (1-percent)*h2.Time
}

// FindFloor traces down from the capsule center for walkable ground within
// distance of the capsule bottom.
func (b *Basic) FindFloor(body *component.Body, distance float64) (component.SurfaceHit, bool) {
	if body == nil || b.scene == nil {
		return component.SurfaceHit{}, false
	}
	start := body.Location
	end := start.Sub(common.AxisUp.Mul(body.Capsule.HalfHeight + distance))
	hit := b.scene.LineTrace(start, end, body.Collision)
	if !hit.Blocking || hit.StartPenetrating {
		return hit, false
	}
	return hit, b.IsWalkable(hit.ImpactNormal)
}

// IsWalkable reports whether a surface normal is flat enough to stand on.
func (b *Basic) IsWalkable(normal mgl64.Vec3) bool {
	return normal.Z() >= b.movement.WalkableFloorZ
}

// SnapToFloor rests the capsule on a floor hit from FindFloor.
func (b *Basic) SnapToFloor(body *component.Body, floor component.SurfaceHit) {
	if body == nil || !floor.Blocking {
		return
	}
	body.Location[2] = floor.ImpactPoint.Z() + body.Capsule.HalfHeight + floorGap
}

func clampLen(v mgl64.Vec3, limit float64) mgl64.Vec3 {
	l := v.Len()
	if l <= limit || l < common.SmallNumber {
		return v
	}
	return v.Mul(limit / l)
}
