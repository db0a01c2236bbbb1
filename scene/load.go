package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hwarang98/ClimbingSystem/component"
	"github.com/hwarang98/ClimbingSystem/prefabs"
)

// Spec is a scene prefab.
type Spec struct {
	Name  string    `yaml:"name"`
	Spawn SpawnSpec `yaml:"spawn"`
	Boxes []BoxSpec `yaml:"boxes"`
}

type SpawnSpec struct {
	Location [3]float64 `yaml:"location"`
	// Yaw in degrees around the up axis.
	Yaw float64 `yaml:"yaw"`
}

// BoxSpec describes a box either by corners or by center and size.
type BoxSpec struct {
	Name     string               `yaml:"name"`
	Min      *[3]float64          `yaml:"min"`
	Max      *[3]float64          `yaml:"max"`
	Center   *[3]float64          `yaml:"center"`
	Size     *[3]float64          `yaml:"size"`
	Channels component.ChannelSet `yaml:"channels"`
}

func (s BoxSpec) Box() (Box, error) {
	var b Box
	switch {
	case s.Min != nil && s.Max != nil:
		b.Min, b.Max = mgl64.Vec3(*s.Min), mgl64.Vec3(*s.Max)
	case s.Center != nil && s.Size != nil:
		half := mgl64.Vec3(*s.Size).Mul(0.5)
		c := mgl64.Vec3(*s.Center)
		b.Min, b.Max = c.Sub(half), c.Add(half)
	default:
		return Box{}, fmt.Errorf("box %q needs min/max or center/size", s.Name)
	}
	b.Name = s.Name
	b.Channels = s.Channels
	if b.Channels == 0 {
		b.Channels = component.Channels(component.ChannelWorldStatic)
	}
	return b, nil
}

// Build turns the spec into a world.
func (s Spec) Build() (*World, error) {
	w := NewWorld()
	for _, bs := range s.Boxes {
		b, err := bs.Box()
		if err != nil {
			return nil, fmt.Errorf("scene %s: %w", s.Name, err)
		}
		w.Add(b)
	}
	return w, nil
}

// Load reads a scene prefab, e.g. "scenes/wall.yaml".
func Load(name string) (Spec, *World, error) {
	spec, err := prefabs.LoadSpec[Spec](name)
	if err != nil {
		return Spec{}, nil, err
	}
	w, err := spec.Build()
	if err != nil {
		return Spec{}, nil, err
	}
	return spec, w, nil
}
