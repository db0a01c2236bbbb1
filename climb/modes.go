package climb

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hwarang98/ClimbingSystem/common"
	"github.com/hwarang98/ClimbingSystem/component"
	"github.com/hwarang98/ClimbingSystem/locomotion"
	"github.com/sirupsen/logrus"
)

// modeState owns the enter/exit side effects and per-tick physics of one mode.
type modeState interface {
	Mode() component.MovementMode
	Enter(c *Component, from component.MovementMode)
	Exit(c *Component, to component.MovementMode, reason StopReason)
	Tick(c *Component, dt float64)
}

// Mode state singletons.
var (
	modeStateWalking  modeState = &walkingState{}
	modeStateFalling  modeState = &fallingState{}
	modeStateClimbing modeState = &climbingState{}
)

func stateFor(m component.MovementMode) modeState {
	switch m {
	case component.ModeWalking:
		return modeStateWalking
	case component.ModeFalling:
		return modeStateFalling
	case component.ModeClimbing:
		return modeStateClimbing
	}
	return nil
}

// setMode is the only place the movement mode changes. Re-entering the
// current mode does nothing.
func (c *Component) setMode(next component.MovementMode, reason StopReason) {
	if c == nil || next == c.mode {
		return
	}
	nextState := stateFor(next)
	if nextState == nil {
		return
	}

	prev := c.mode
	if c.state != nil {
		c.state.Exit(c, next, reason)
	}
	c.mode = next
	c.state = nextState
	c.state.Enter(c, prev)

	c.log.WithFields(logrus.Fields{
		"from":   prev.String(),
		"to":     next.String(),
		"reason": reason.String(),
	}).Debug("movement mode changed")
	c.events.Push(Event{Kind: EventModeChanged, From: prev, To: next, Reason: reason})
}

func (c *Component) startClimbing() {
	c.setMode(component.ModeClimbing, StopNone)
}

// StopClimbing drops the character into Falling. It is unconditional.
func (c *Component) StopClimbing() {
	c.stopClimbing(StopRequested)
}

func (c *Component) stopClimbing(reason StopReason) {
	if c == nil {
		return
	}
	c.setMode(component.ModeFalling, reason)
}

// Jump launches a walking character into Falling.
func (c *Component) Jump() {
	if c == nil || c.mode != component.ModeWalking {
		return
	}
	c.setMode(component.ModeFalling, StopNone)
	c.body.Velocity[2] = c.movement.JumpZVelocity
}

type climbingState struct{}

func (climbingState) Mode() component.MovementMode { return component.ModeClimbing }

func (climbingState) Enter(c *Component, from component.MovementMode) {
	c.body.OrientToMovement = false
	c.body.Capsule.HalfHeight = c.climb.ClimbingHalfHeight
	c.events.Push(Event{Kind: EventEnteredClimb, From: from, To: component.ModeClimbing})
	c.notifyEnter()
}

func (climbingState) Exit(c *Component, to component.MovementMode, reason StopReason) {
	c.body.OrientToMovement = true
	c.body.Capsule.HalfHeight = c.climb.StandingHalfHeight
	c.body.Rotation = common.YawOnly(c.body.Rotation)
	c.body.StopMovementImmediately()
	c.events.Push(Event{Kind: EventExitedClimb, From: component.ModeClimbing, To: to, Reason: reason})
	c.notifyExit()
}

func (climbingState) Tick(c *Component, dt float64) {
	c.physClimb(dt)
}

type walkingState struct{}

func (walkingState) Mode() component.MovementMode { return component.ModeWalking }

func (walkingState) Enter(c *Component, from component.MovementMode) {
	c.body.Velocity[2] = 0
	if floor, ok := c.integrator.FindFloor(c.body, c.movement.FloorProbeDistance); ok {
		c.integrator.SnapToFloor(c.body, floor)
	}
}

func (walkingState) Exit(c *Component, to component.MovementMode, reason StopReason) {}

func (walkingState) Tick(c *Component, dt float64) {
	if dt < c.climb.MinTickTime || dt <= 0 {
		return
	}
	body := c.body

	rm, hasRootMotion := c.rootMotion()
	if hasRootMotion {
		c.integrator.ApplyRootMotion(body, c.ConstrainRootMotion(rm, body.Velocity))
	} else {
		body.Velocity[2] = 0
		c.integrator.CalcVelocity(body, dt, locomotion.VelocityParams{
			Friction:            c.movement.GroundFriction,
			BrakingDeceleration: c.movement.BrakingDecelerationWalking,
			MaxSpeed:            c.MaxSpeed(),
		})
	}

	delta := body.Velocity.Mul(dt)
	rot := body.Rotation
	if hasRootMotion {
		rot = c.rootMotionRotation(rot)
	} else if body.OrientToMovement {
		rot = rotateTowardMovement(rot, body.Velocity, c.movement.RotationRate*dt)
	}
	moveWithSlide(c, delta, rot, dt)

	if hasRootMotion {
		return
	}
	floor, ok := c.integrator.FindFloor(body, c.movement.FloorProbeDistance)
	if !ok {
		c.setMode(component.ModeFalling, StopNone)
		return
	}
	c.integrator.SnapToFloor(body, floor)
}

type fallingState struct{}

func (fallingState) Mode() component.MovementMode { return component.ModeFalling }

func (fallingState) Enter(c *Component, from component.MovementMode) {}

func (fallingState) Exit(c *Component, to component.MovementMode, reason StopReason) {}

func (fallingState) Tick(c *Component, dt float64) {
	if dt < c.climb.MinTickTime || dt <= 0 {
		return
	}
	body := c.body

	rm, hasRootMotion := c.rootMotion()
	if hasRootMotion {
		c.integrator.ApplyRootMotion(body, c.ConstrainRootMotion(rm, body.Velocity))
	} else {
		vz := body.Velocity.Z()
		body.Velocity[2] = 0
		body.Acceleration = body.Acceleration.Mul(c.movement.AirControl)
		c.integrator.CalcVelocity(body, dt, locomotion.VelocityParams{
			BrakingDeceleration: c.movement.BrakingDecelerationFalling,
			MaxSpeed:            c.MaxSpeed(),
		})
		body.Velocity[2] = vz - c.movement.Gravity*dt
	}

	delta := body.Velocity.Mul(dt)
	rot := body.Rotation
	if hasRootMotion {
		rot = c.rootMotionRotation(rot)
	}
	hit := c.integrator.SafeMove(body, delta, rot)
	if hit.Blocking && hit.Time < 1 {
		if !hasRootMotion && body.Velocity.Z() <= 0 && hit.ImpactNormal.Z() >= c.movement.WalkableFloorZ {
			c.setMode(component.ModeWalking, StopNone)
			return
		}
		c.integrator.HandleImpact(body, hit, dt, delta)
		c.integrator.SlideAlongSurface(body, delta, 1-hit.Time, hit.Normal, hit)
	}

	if hasRootMotion || body.Velocity.Z() > 0 {
		return
	}
	if _, ok := c.integrator.FindFloor(body, c.movement.FloorProbeDistance); ok {
		c.setMode(component.ModeWalking, StopNone)
	}
}

// moveWithSlide is a swept move followed by impact handling and a slide on a block.
func moveWithSlide(c *Component, delta mgl64.Vec3, rot mgl64.Quat, dt float64) {
	hit := c.integrator.SafeMove(c.body, delta, rot)
	if hit.Blocking && hit.Time < 1 {
		c.integrator.HandleImpact(c.body, hit, dt, delta)
		c.integrator.SlideAlongSurface(c.body, delta, 1-hit.Time, hit.Normal, hit)
	}
}

// rotateTowardMovement turns the yaw of q toward the horizontal velocity by at
// most maxDegrees.
func rotateTowardMovement(q mgl64.Quat, velocity mgl64.Vec3, maxDegrees float64) mgl64.Quat {
	if math.Hypot(velocity.X(), velocity.Y()) < common.KindaSmallNumber {
		return q
	}
	f := common.ForwardOf(q)
	current := math.Atan2(f.Y(), f.X())
	target := math.Atan2(velocity.Y(), velocity.X())
	diff := math.Remainder(target-current, 2*math.Pi)
	step := mgl64.DegToRad(maxDegrees)
	diff = common.Clamp(diff, -step, step)
	return mgl64.QuatRotate(current+diff, common.AxisUp)
}
