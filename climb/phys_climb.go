package climb

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hwarang98/ClimbingSystem/common"
	"github.com/hwarang98/ClimbingSystem/component"
	"github.com/hwarang98/ClimbingSystem/locomotion"
	"github.com/hwarang98/ClimbingSystem/surface"
)

// angleTolerance absorbs acos rounding so a surface authored at exactly the
// climbable limit still counts as too flat.
const angleTolerance = 1e-6

// physClimb is one climbing tick. The order is fixed: surface refresh, stop
// checks, velocity, move and collision, snap, ledge check.
func (c *Component) physClimb(dt float64) {
	if dt < c.climb.MinTickTime || dt <= 0 {
		return
	}
	body := c.body

	c.traceClimbableSurfaces()
	c.processClimbableSurfaceInfo()

	reason := StopNone
	if c.checkShouldStopClimbing() {
		reason = StopSurfaceTooFlat
		if c.hits.Empty() {
			reason = StopNoSurface
		}
	} else if c.checkHasReachedFloor() {
		reason = StopReachedFloor
	}
	if reason != StopNone {
		c.stopClimbing(reason)
		// Reaching the floor ends the tick. Other stops finish the move with
		// rotation held so the body does not pop.
		if reason == StopReachedFloor {
			return
		}
	}

	rm, hasRootMotion := c.rootMotion()
	if !hasRootMotion {
		c.integrator.CalcVelocity(body, dt, locomotion.VelocityParams{
			Friction:            0,
			Fluid:               true,
			BrakingDeceleration: c.climb.MaxBrakeClimbDeceleration,
			MaxSpeed:            c.climb.MaxClimbSpeed,
		})
	} else {
		c.integrator.ApplyRootMotion(body, c.ConstrainRootMotion(rm, body.Velocity))
	}

	old := body.Location
	rot := body.Rotation
	if reason == StopNone {
		rot = c.climbRotation(dt, hasRootMotion)
	}
	moveWithSlide(c, body.Velocity.Mul(dt), rot, dt)

	if !hasRootMotion {
		body.Velocity = body.Location.Sub(old).Mul(1 / dt)
	}

	if reason != StopNone {
		return
	}

	c.snapToClimbableSurface(dt)

	if c.checkHasReachedLedge() {
		c.stopClimbing(StopReachedLedge)
		c.playMontage(c.climb.Montages.ClimbToTop, ActionClimbToTop, &pendingTransition{to: component.ModeWalking})
	}
}

// traceClimbableSurfaces replaces the hit set with a fresh forward probe.
func (c *Component) traceClimbableSurfaces() bool {
	c.hits = c.prober.ForwardSurfaces(c.body)
	return !c.hits.Empty()
}

func (c *Component) processClimbableSurfaceInfo() {
	c.surface = surface.Aggregate(c.hits)
}

// checkShouldStopClimbing reports whether the current hit set can no longer
// be climbed: it is empty, or its normal is within the climbable angle of up.
func (c *Component) checkShouldStopClimbing() bool {
	if c.hits.Empty() {
		return true
	}
	return SurfaceTooFlat(c.surface.Normal, c.climb.MaxClimbableSurfaceAngle)
}

// SurfaceTooFlat reports whether a surface normal is within maxAngle degrees
// of world up. The boundary itself counts as too flat.
func SurfaceTooFlat(normal mgl64.Vec3, maxAngle float64) bool {
	return common.AngleDegrees(normal, common.AxisUp) <= maxAngle+angleTolerance
}

// checkHasReachedFloor looks for floor-like hits just below the body while it
// is moving down.
func (c *Component) checkHasReachedFloor() bool {
	hits := c.prober.Floor(c.body)
	if hits.Empty() {
		return false
	}
	descending := c.UnrotatedClimbVelocity().Z() < c.climb.Floor.DescendVelocity
	if !descending {
		return false
	}
	for _, h := range hits {
		if common.Parallel(h.ImpactNormal.Mul(-1), common.AxisUp) {
			return true
		}
	}
	return false
}

// checkHasReachedLedge is true when the eye-height trace clears the top of the
// surface, there is walkable ground beyond it and the climber moves up.
func (c *Component) checkHasReachedLedge() bool {
	l := c.climb.Ledge
	hit := c.prober.EyeHeight(c.body, l.TraceDistance, l.TraceStartOffset)
	if hit.Blocking {
		return false
	}
	walkable := c.prober.Down(c.body, hit.TraceEnd, l.WalkableDepth)
	return walkable.Blocking && c.UnrotatedClimbVelocity().Z() > l.AscendVelocity
}

// climbRotation turns the body to face into the surface. Clip-driven motion
// keeps the current rotation.
func (c *Component) climbRotation(dt float64, hasRootMotion bool) mgl64.Quat {
	current := c.body.Rotation
	if hasRootMotion {
		return c.rootMotionRotation(current)
	}
	if c.surface.Normal == (mgl64.Vec3{}) {
		return current
	}
	target := common.MakeFromX(c.surface.Normal.Mul(-1))
	return common.QInterpTo(current, target, dt, c.climb.RotationInterpSpeed)
}

// snapToClimbableSurface pulls the body toward the aggregated surface.
func (c *Component) snapToClimbableSurface(dt float64) {
	if c.surface.Empty() {
		return
	}
	offset := SnapOffset(c.body.Location, c.body.Forward(), c.surface, dt, c.climb.MaxClimbSpeed)
	c.integrator.SafeMove(c.body, offset, c.body.Rotation)
}

// SnapOffset is the displacement that closes part of the gap between a body
// and the surface it climbs. The gap is measured along forward and closed
// along the surface normal by min(dt*speed, 1) of its length.
func SnapOffset(location, forward mgl64.Vec3, s component.AggregatedSurface, dt, speed float64) mgl64.Vec3 {
	standoff := common.ProjectOnTo(s.Location.Sub(location), forward).Len()
	gain := common.Clamp(dt*speed, 0, 1)
	return s.Normal.Mul(-standoff * gain)
}
