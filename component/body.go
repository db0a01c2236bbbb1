package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hwarang98/ClimbingSystem/common"
)

// Capsule is a vertical capsule collider. HalfHeight includes the radius.
type Capsule struct {
	Radius     float64
	HalfHeight float64
}

// Body is the moved component of a character: its transform, velocity and collider.
type Body struct {
	Location mgl64.Vec3
	Rotation mgl64.Quat
	Velocity mgl64.Vec3
	// Acceleration is the input-driven acceleration computed for the current tick.
	Acceleration mgl64.Vec3
	Capsule      Capsule
	// OrientToMovement rotates the body toward its velocity on the ground.
	OrientToMovement bool
	// Channels the body collides with when moving.
	Collision ChannelSet
}

func (b *Body) Forward() mgl64.Vec3 { return common.ForwardOf(b.Rotation) }
func (b *Body) Right() mgl64.Vec3   { return common.RightOf(b.Rotation) }
func (b *Body) Up() mgl64.Vec3      { return common.UpOf(b.Rotation) }

// StopMovementImmediately clears velocity. The tick's input acceleration is kept.
func (b *Body) StopMovementImmediately() {
	b.Velocity = mgl64.Vec3{}
}
