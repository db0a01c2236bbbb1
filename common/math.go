package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// World axes. X is forward, Y is right, Z is up.
var (
	AxisForward = mgl64.Vec3{1, 0, 0}
	AxisRight   = mgl64.Vec3{0, 1, 0}
	AxisUp      = mgl64.Vec3{0, 0, 1}
)

const (
	SmallNumber      = 1e-8
	KindaSmallNumber = 1e-4

	// ParallelThreshold is the minimum |cos| for two directions to count as parallel.
	ParallelThreshold = 0.999845
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SafeNormal returns v normalized, or the zero vector when v is too short.
func SafeNormal(v mgl64.Vec3) mgl64.Vec3 {
	l2 := v.Dot(v)
	if l2 < SmallNumber {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / math.Sqrt(l2))
}

// ProjectOnTo returns the component of v along onto.
func ProjectOnTo(v, onto mgl64.Vec3) mgl64.Vec3 {
	d := onto.Dot(onto)
	if d < SmallNumber {
		return mgl64.Vec3{}
	}
	return onto.Mul(v.Dot(onto) / d)
}

// Parallel reports whether a and b point along the same line, in either direction.
func Parallel(a, b mgl64.Vec3) bool {
	na, nb := SafeNormal(a), SafeNormal(b)
	if na == (mgl64.Vec3{}) || nb == (mgl64.Vec3{}) {
		return false
	}
	return math.Abs(na.Dot(nb)) >= ParallelThreshold
}

// AngleDegrees is the angle between two unit vectors.
func AngleDegrees(a, b mgl64.Vec3) float64 {
	return mgl64.RadToDeg(math.Acos(Clamp(a.Dot(b), -1, 1)))
}

func ForwardOf(q mgl64.Quat) mgl64.Vec3 { return q.Rotate(AxisForward) }
func RightOf(q mgl64.Quat) mgl64.Vec3   { return q.Rotate(AxisRight) }
func UpOf(q mgl64.Quat) mgl64.Vec3      { return q.Rotate(AxisUp) }

// Unrotate expresses a world-space vector in the frame described by q.
func Unrotate(q mgl64.Quat, v mgl64.Vec3) mgl64.Vec3 {
	return q.Normalize().Conjugate().Rotate(v)
}

// MakeFromX builds a rotation whose forward axis is x, keeping Z as up where possible.
func MakeFromX(x mgl64.Vec3) mgl64.Quat {
	nx := SafeNormal(x)
	if nx == (mgl64.Vec3{}) {
		return mgl64.QuatIdent()
	}
	up := AxisUp
	if math.Abs(nx.Z()) >= 1-KindaSmallNumber {
		up = AxisForward
	}
	ny := SafeNormal(up.Cross(nx))
	nz := nx.Cross(ny)
	return mgl64.Mat4ToQuat(mgl64.Mat3FromCols(nx, ny, nz).Mat4()).Normalize()
}

// QInterpTo moves current toward target by speed*dt of the remaining arc.
// A non-positive speed snaps to target.
func QInterpTo(current, target mgl64.Quat, dt, speed float64) mgl64.Quat {
	if speed <= 0 {
		return target
	}
	current, target = current.Normalize(), target.Normalize()
	if current.ApproxEqual(target) {
		return target
	}
	if current.Dot(target) < 0 {
		target = target.Scale(-1)
	}
	alpha := Clamp(dt*speed, 0, 1)
	return mgl64.QuatSlerp(current, target, alpha).Normalize()
}

// YawOnly drops pitch and roll from q.
func YawOnly(q mgl64.Quat) mgl64.Quat {
	f := ForwardOf(q)
	var yaw float64
	if math.Hypot(f.X(), f.Y()) < KindaSmallNumber {
		r := RightOf(q)
		yaw = math.Atan2(r.Y(), r.X()) - math.Pi/2
	} else {
		yaw = math.Atan2(f.Y(), f.X())
	}
	return mgl64.QuatRotate(yaw, AxisUp)
}
