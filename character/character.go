// Package character composes a body, its climbing component and a clip player
// into one controllable character.
package character

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hwarang98/ClimbingSystem/anim"
	"github.com/hwarang98/ClimbingSystem/climb"
	"github.com/hwarang98/ClimbingSystem/common"
	"github.com/hwarang98/ClimbingSystem/component"
	"github.com/hwarang98/ClimbingSystem/logger"
	"github.com/hwarang98/ClimbingSystem/probe"
	"github.com/hwarang98/ClimbingSystem/tuning"
	"github.com/sirupsen/logrus"
)

// InputContext selects how move input is mapped.
type InputContext uint8

const (
	ContextDefault InputContext = iota
	ContextClimbing
)

func (c InputContext) String() string {
	if c == ContextClimbing {
		return "climbing"
	}
	return "default"
}

// Intent is one frame of player input.
type Intent struct {
	// MoveX is right/left, MoveY forward/back (up/down while climbing).
	MoveX, MoveY float64
	// LookYaw turns the control rotation, in degrees.
	LookYaw float64
	Jump    bool
	Climb   bool
	Hop     bool
}

// Spawn places a character.
type Spawn struct {
	Location mgl64.Vec3
	Yaw      float64
}

// Character owns the movement component and the clip player that also
// serves as its warp target store.
type Character struct {
	Name     string
	Body     *component.Body
	Movement *climb.Component
	Anim     *anim.Player
	Params   anim.Params

	context     InputContext
	controlYaw  float64
	unsubscribe func()
	log         *logrus.Entry
}

func New(name string, spec tuning.Spec, lib anim.Library, scene probe.Scene, spawn Spawn, opts ...climb.Option) *Character {
	rot := mgl64.QuatRotate(mgl64.DegToRad(spawn.Yaw), common.AxisUp)
	body := &component.Body{Location: spawn.Location, Rotation: rot}
	player := anim.NewPlayer(lib)
	log := logger.For("character").WithField("name", name)

	opts = append([]climb.Option{
		climb.WithAnimator(player),
		climb.WithWarper(player),
		climb.WithLogger(log.WithField("component", "climb")),
	}, opts...)

	c := &Character{
		Name:       name,
		Body:       body,
		Movement:   climb.New(body, spec, scene, opts...),
		Anim:       player,
		controlYaw: spawn.Yaw,
		log:        log,
	}
	c.unsubscribe = c.Movement.Subscribe(climb.ObserverFuncs{
		Enter: func() { c.setContext(ContextClimbing) },
		Exit:  func() { c.setContext(ContextDefault) },
	})
	return c
}

// Close detaches the character from its movement component.
func (c *Character) Close() {
	if c == nil || c.unsubscribe == nil {
		return
	}
	c.unsubscribe()
	c.unsubscribe = nil
}

func (c *Character) Context() InputContext {
	if c == nil {
		return ContextDefault
	}
	return c.context
}

func (c *Character) ControlYaw() float64 {
	if c == nil {
		return 0
	}
	return c.controlYaw
}

func (c *Character) setContext(ctx InputContext) {
	if c.context == ctx {
		return
	}
	c.log.WithFields(logrus.Fields{"from": c.context.String(), "to": ctx.String()}).Debug("input context changed")
	c.context = ctx
}

// HandleInput maps one frame of intent onto the movement component.
func (c *Character) HandleInput(in Intent) {
	if c == nil || c.Movement == nil {
		return
	}
	c.controlYaw = math.Mod(c.controlYaw+in.LookYaw, 360)

	switch c.context {
	case ContextClimbing:
		c.handleClimbMovementInput(in.MoveX, in.MoveY)
		if in.Hop {
			c.Movement.RequestHop()
		}
	default:
		c.handleGroundMovementInput(in.MoveX, in.MoveY)
		if in.Jump {
			c.Movement.Jump()
		}
	}

	if in.Climb {
		c.Movement.ToggleClimb()
	}
}

// handleGroundMovementInput moves relative to the control yaw.
func (c *Character) handleGroundMovementInput(x, y float64) {
	yaw := mgl64.QuatRotate(mgl64.DegToRad(c.controlYaw), common.AxisUp)
	c.Movement.AddMovementInput(common.ForwardOf(yaw), y)
	c.Movement.AddMovementInput(common.RightOf(yaw), x)
}

// handleClimbMovementInput moves along the climbed surface.
func (c *Character) handleClimbMovementInput(x, y float64) {
	forward, right := ClimbInputAxes(c.Movement.ClimbableSurfaceNormal(), c.Body.Right(), c.Body.Up())
	c.Movement.AddMovementInput(forward, y)
	c.Movement.AddMovementInput(right, x)
}

// ClimbInputAxes are the world directions of forward and right input on a
// surface with the given normal: up along the surface and sideways across it.
func ClimbInputAxes(normal, bodyRight, bodyUp mgl64.Vec3) (forward, right mgl64.Vec3) {
	n := normal.Mul(-1)
	return n.Cross(bodyRight), n.Cross(bodyUp.Mul(-1))
}

// Tick advances clips first so completed traversals settle the mode before
// the movement step.
func (c *Character) Tick(dt float64) {
	if c == nil {
		return
	}
	c.Anim.Advance(dt)
	c.Movement.Tick(dt)
	c.Params = anim.SampleParams(c.Movement)
}
