// Package locomotion holds the base movement integrator the climbing
// component composes with. The climbing code decides *when* to move; the
// integrator knows *how* to turn velocity into collision-safe displacement.
package locomotion

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hwarang98/ClimbingSystem/component"
)

// VelocityParams configures one CalcVelocity step.
type VelocityParams struct {
	Friction            float64
	Fluid               bool
	BrakingDeceleration float64
	MaxSpeed            float64
}

// Integrator is the walk/fall movement model capabilities climbing builds on.
type Integrator interface {
	// CalcVelocity updates body.Velocity from body.Acceleration using the
	// acceleration / braking model.
	CalcVelocity(body *component.Body, dt float64, p VelocityParams)
	// ApplyRootMotion replaces the velocity with an animation-authored one.
	ApplyRootMotion(body *component.Body, velocity mgl64.Vec3)
	// SafeMove sweeps the body by delta and applies rot. The returned hit is
	// blocking when the move stopped early; Time is the completed fraction.
	SafeMove(body *component.Body, delta mgl64.Vec3, rot mgl64.Quat) component.SurfaceHit
	// HandleImpact reacts to a blocking hit produced by SafeMove.
	HandleImpact(body *component.Body, hit component.SurfaceHit, dt float64, delta mgl64.Vec3)
	// SlideAlongSurface moves the remaining part of delta along the blocking
	// surface and returns the fraction of the slide that was completed.
	SlideAlongSurface(body *component.Body, delta mgl64.Vec3, timeRemaining float64, normal mgl64.Vec3, hit component.SurfaceHit) float64
	// FindFloor looks for walkable ground within distance below the capsule.
	FindFloor(body *component.Body, distance float64) (component.SurfaceHit, bool)
	// SnapToFloor rests the body on a floor returned by FindFloor.
	SnapToFloor(body *component.Body, floor component.SurfaceHit)
}
