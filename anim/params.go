package anim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// shouldMoveSpeed is the ground speed above which the locomotion blend plays.
const shouldMoveSpeed = 5.0

// ParamSource is what the animation parameters are sampled from.
type ParamSource interface {
	Velocity() mgl64.Vec3
	CurrentAcceleration() mgl64.Vec3
	IsFalling() bool
	IsClimbing() bool
	UnrotatedClimbVelocity() mgl64.Vec3
}

// Params are the values an animation graph reads each frame.
type Params struct {
	GroundSpeed   float64
	AirSpeed      float64
	ShouldMove    bool
	IsFalling     bool
	IsClimbing    bool
	ClimbVelocity mgl64.Vec3
}

func SampleParams(src ParamSource) Params {
	if src == nil {
		return Params{}
	}
	v := src.Velocity()
	p := Params{
		GroundSpeed:   math.Hypot(v.X(), v.Y()),
		AirSpeed:      v.Z(),
		IsFalling:     src.IsFalling(),
		IsClimbing:    src.IsClimbing(),
		ClimbVelocity: src.UnrotatedClimbVelocity(),
	}
	p.ShouldMove = src.CurrentAcceleration().Len() > 0 && p.GroundSpeed > shouldMoveSpeed && !p.IsFalling
	return p
}
