package anim

import (
	"fmt"

	"github.com/hwarang98/ClimbingSystem/component"
	"github.com/hwarang98/ClimbingSystem/prefabs"
)

// LocalVelocity is a velocity in the body frame.
type LocalVelocity struct {
	Forward float64 `yaml:"forward"`
	Right   float64 `yaml:"right"`
	Up      float64 `yaml:"up"`
}

// MotionSegment drives a constant local velocity until End, a normalized clip time.
type MotionSegment struct {
	End      float64       `yaml:"end"`
	Velocity LocalVelocity `yaml:"velocity"`
}

// WarpWindow moves the body onto a named warp target by End, a normalized
// clip time. The goal is the target raised by the capsule half height plus Offset.
type WarpWindow struct {
	Target string        `yaml:"target"`
	End    float64       `yaml:"end"`
	Offset LocalVelocity `yaml:"offset"`
}

// TurnWindow turns the body by Yaw degrees between two normalized clip times.
type TurnWindow struct {
	Yaw   float64 `yaml:"yaw"`
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
}

// MontageSpec is one clip.
type MontageSpec struct {
	ID       component.MontageID `yaml:"id"`
	Duration float64             `yaml:"duration"`
	BlendOut float64             `yaml:"blend_out"`
	Motion   []MotionSegment     `yaml:"root_motion"`
	Warps    []WarpWindow        `yaml:"warps"`
	Turn     *TurnWindow         `yaml:"turn"`
}

// Library is the montages prefab.
type Library struct {
	Montages []MontageSpec `yaml:"montages"`
}

func (l Library) Validate() error {
	seen := make(map[component.MontageID]bool, len(l.Montages))
	for _, m := range l.Montages {
		if m.ID == component.NoMontage {
			return fmt.Errorf("montage without id")
		}
		if seen[m.ID] {
			return fmt.Errorf("montage %q defined twice", m.ID)
		}
		seen[m.ID] = true
		if m.Duration <= 0 {
			return fmt.Errorf("montage %q: duration must be positive", m.ID)
		}
		if m.BlendOut < 0 || m.BlendOut > m.Duration {
			return fmt.Errorf("montage %q: blend_out outside [0, duration]", m.ID)
		}
		prev := 0.0
		for _, s := range m.Motion {
			if s.End <= prev || s.End > 1 {
				return fmt.Errorf("montage %q: root_motion ends must increase within (0, 1]", m.ID)
			}
			prev = s.End
		}
		prev = 0
		for _, w := range m.Warps {
			if w.Target == "" {
				return fmt.Errorf("montage %q: warp window without target", m.ID)
			}
			if w.End <= prev || w.End > 1 {
				return fmt.Errorf("montage %q: warp ends must increase within (0, 1]", m.ID)
			}
			prev = w.End
		}
		if t := m.Turn; t != nil && (t.Start < 0 || t.End > 1 || t.End <= t.Start) {
			return fmt.Errorf("montage %q: turn window outside [0, 1]", m.ID)
		}
	}
	return nil
}

// LoadLibrary reads a montages prefab such as "montages.yaml".
func LoadLibrary(name string) (Library, error) {
	lib, err := prefabs.LoadSpec[Library](name)
	if err != nil {
		return Library{}, err
	}
	if err := lib.Validate(); err != nil {
		return Library{}, fmt.Errorf("anim: %s: %w", name, err)
	}
	return lib, nil
}
