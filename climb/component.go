// Package climb is the climbing movement component: a Walking/Falling/Climbing
// state machine, the per-tick climbing integration and the traversal actions
// (start climb, climb down, vault, hop) that hand off to animation clips.
package climb

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hwarang98/ClimbingSystem/common"
	"github.com/hwarang98/ClimbingSystem/component"
	"github.com/hwarang98/ClimbingSystem/locomotion"
	"github.com/hwarang98/ClimbingSystem/logger"
	"github.com/hwarang98/ClimbingSystem/probe"
	"github.com/hwarang98/ClimbingSystem/tuning"
	"github.com/sirupsen/logrus"
)

// Animator plays traversal clips and reports their root motion.
type Animator interface {
	// PlayMontage starts a clip and reports whether it actually started.
	PlayMontage(id component.MontageID) bool
	IsAnyMontagePlaying() bool
	// RootMotionVelocity is the world-space velocity the playing clip drives,
	// if it drives one this tick.
	RootMotionVelocity(body *component.Body) (mgl64.Vec3, bool)
}

// MontageNotifier is implemented by animators that report clip completion.
// Both notifications take the clip id and whether it was interrupted.
type MontageNotifier interface {
	OnMontageEnded(fn func(id component.MontageID, interrupted bool))
	OnMontageBlendingOut(fn func(id component.MontageID, interrupted bool))
}

// RootMotionRotator is implemented by animators whose clips also turn the body.
type RootMotionRotator interface {
	RootMotionRotation(body *component.Body) (mgl64.Quat, bool)
}

// Warper receives named positions traversal clips are warped to.
type Warper interface {
	SetWarpTarget(name string, location mgl64.Vec3)
}

// Option configures a Component.
type Option func(*Component)

func WithIntegrator(i locomotion.Integrator) Option {
	return func(c *Component) { c.integrator = i }
}

// WithAnimator installs the clip player. If it also implements
// MontageNotifier the component subscribes to its completion events.
func WithAnimator(a Animator) Option {
	return func(c *Component) { c.animator = a }
}

func WithWarper(w Warper) Option {
	return func(c *Component) { c.warper = w }
}

func WithLogger(l *logrus.Entry) Option {
	return func(c *Component) { c.log = l }
}

func WithDrawer(d probe.Drawer) Option {
	return func(c *Component) { c.prober.SetDrawer(d) }
}

// pendingTransition is the mode change a committed clip applies when it completes.
type pendingTransition struct {
	montage      component.MontageID
	action       Action
	to           component.MovementMode
	stopMovement bool
}

// Component drives one character body.
type Component struct {
	body       *component.Body
	climb      tuning.Climb
	movement   tuning.Movement
	prober     *probe.Prober
	integrator locomotion.Integrator
	animator   Animator
	warper     Warper
	log        *logrus.Entry

	mode  component.MovementMode
	state modeState

	hits    component.HitSet
	surface component.AggregatedSurface

	input     mgl64.Vec3
	lastInput mgl64.Vec3

	pending *pendingTransition

	observers      []observerEntry
	nextObserverID int
	events         EventQueue
}

// New builds a component for body, starting in Walking. scene backs the probes
// and, unless WithIntegrator is given, the default integrator.
func New(body *component.Body, spec tuning.Spec, scene probe.Scene, opts ...Option) *Component {
	if body == nil {
		body = &component.Body{}
	}
	c := &Component{
		body:     body,
		climb:    spec.Climb,
		movement: spec.Movement,
		prober:   probe.NewProber(scene, spec.Climb),
		mode:     component.ModeWalking,
		state:    stateFor(component.ModeWalking),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.integrator == nil {
		c.integrator = locomotion.NewBasic(scene, spec.Movement)
	}
	if c.log == nil {
		c.log = logger.For("climb")
	}

	if body.Rotation == (mgl64.Quat{}) {
		body.Rotation = mgl64.QuatIdent()
	}
	body.Capsule = component.Capsule{Radius: spec.Movement.CapsuleRadius, HalfHeight: spec.Climb.StandingHalfHeight}
	body.OrientToMovement = true
	if body.Collision == 0 {
		body.Collision = spec.Movement.Collision
	}

	if n, ok := c.animator.(MontageNotifier); ok {
		n.OnMontageEnded(c.OnMontageEnded)
		n.OnMontageBlendingOut(c.OnMontageEnded)
	}
	return c
}

// Tick consumes the accumulated movement input and advances the current mode.
func (c *Component) Tick(dt float64) {
	if c == nil || c.body == nil {
		return
	}
	input := c.consumeInput()
	c.body.Acceleration = c.scaleInputAcceleration(input)
	if c.state != nil {
		c.state.Tick(c, dt)
	}
}

// AddMovementInput accumulates a world-space movement request for the next tick.
func (c *Component) AddMovementInput(dir mgl64.Vec3, scale float64) {
	if c == nil {
		return
	}
	c.input = c.input.Add(dir.Mul(scale))
}

func (c *Component) consumeInput() mgl64.Vec3 {
	in := c.input
	c.lastInput = in
	c.input = mgl64.Vec3{}
	return in
}

// scaleInputAcceleration clamps input to unit length and scales it by the
// mode's max acceleration. Walking and falling drop the vertical part.
func (c *Component) scaleInputAcceleration(input mgl64.Vec3) mgl64.Vec3 {
	if c.mode != component.ModeClimbing {
		input[2] = 0
	}
	if l := input.Len(); l > 1 {
		input = input.Mul(1 / l)
	}
	return input.Mul(c.MaxAcceleration())
}

// LastInputVector is the input consumed by the previous tick.
func (c *Component) LastInputVector() mgl64.Vec3 {
	if c == nil {
		return mgl64.Vec3{}
	}
	return c.lastInput
}

func (c *Component) Mode() component.MovementMode {
	if c == nil {
		return component.ModeNone
	}
	return c.mode
}

func (c *Component) IsClimbing() bool { return c.Mode() == component.ModeClimbing }

func (c *Component) IsFalling() bool { return c.Mode() == component.ModeFalling }

func (c *Component) Body() *component.Body {
	if c == nil {
		return nil
	}
	return c.body
}

func (c *Component) Velocity() mgl64.Vec3 {
	if c == nil || c.body == nil {
		return mgl64.Vec3{}
	}
	return c.body.Velocity
}

func (c *Component) CurrentAcceleration() mgl64.Vec3 {
	if c == nil || c.body == nil {
		return mgl64.Vec3{}
	}
	return c.body.Acceleration
}

// UnrotatedClimbVelocity is the velocity in the body's local frame.
func (c *Component) UnrotatedClimbVelocity() mgl64.Vec3 {
	if c == nil || c.body == nil {
		return mgl64.Vec3{}
	}
	return common.Unrotate(c.body.Rotation, c.body.Velocity)
}

// ClimbableSurfaceNormal is the aggregated normal from the latest refresh.
func (c *Component) ClimbableSurfaceNormal() mgl64.Vec3 {
	if c == nil {
		return mgl64.Vec3{}
	}
	return c.surface.Normal
}

func (c *Component) ClimbableSurface() component.AggregatedSurface {
	if c == nil {
		return component.AggregatedSurface{}
	}
	return c.surface
}

func (c *Component) MaxSpeed() float64 {
	if c == nil {
		return 0
	}
	if c.IsClimbing() {
		return c.climb.MaxClimbSpeed
	}
	return c.movement.MaxWalkSpeed
}

func (c *Component) MaxAcceleration() float64 {
	if c == nil {
		return 0
	}
	if c.IsClimbing() {
		return c.climb.MaxClimbAcceleration
	}
	return c.movement.MaxAcceleration
}

// ConstrainRootMotion filters clip-driven velocity for the current mode. While
// falling with a clip playing it passes through untouched; otherwise falling
// keeps the current vertical velocity.
func (c *Component) ConstrainRootMotion(rootMotion, current mgl64.Vec3) mgl64.Vec3 {
	if c == nil {
		return rootMotion
	}
	if c.IsFalling() {
		if c.animator != nil && c.animator.IsAnyMontagePlaying() {
			return rootMotion
		}
		rootMotion[2] = current.Z()
	}
	return rootMotion
}

// Events returns the telemetry queue. The host drains it.
func (c *Component) Events() *EventQueue {
	if c == nil {
		return nil
	}
	return &c.events
}

// rootMotion is the clip velocity for this tick, if a clip drives one.
func (c *Component) rootMotion() (mgl64.Vec3, bool) {
	if c.animator == nil || !c.animator.IsAnyMontagePlaying() {
		return mgl64.Vec3{}, false
	}
	return c.animator.RootMotionVelocity(c.body)
}

// rootMotionRotation is the clip-driven rotation for this tick, or current
// when the clip does not turn the body.
func (c *Component) rootMotionRotation(current mgl64.Quat) mgl64.Quat {
	r, ok := c.animator.(RootMotionRotator)
	if !ok || !c.animator.IsAnyMontagePlaying() {
		return current
	}
	if q, ok := r.RootMotionRotation(c.body); ok {
		return q
	}
	return current
}
