package component

import "github.com/go-gl/mathgl/mgl64"

// MontageID identifies an animation clip. The climbing core only compares ids.
type MontageID string

const NoMontage MontageID = ""

// WarpTarget is a named world position handed to the animation warper.
type WarpTarget struct {
	Name     string
	Location mgl64.Vec3
}
