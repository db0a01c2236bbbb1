package tuning

import (
	"errors"
	"fmt"

	"github.com/hwarang98/ClimbingSystem/component"
	"github.com/hwarang98/ClimbingSystem/prefabs"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("tuning: invalid value")

// Spec is the root of a character tuning file.
type Spec struct {
	Name     string   `yaml:"name"`
	Climb    Climb    `yaml:"climb"`
	Movement Movement `yaml:"movement"`
}

// Climb is the climbing configuration bundle. It is read-only once a
// component has been built from it.
type Climb struct {
	SurfaceChannels        component.ChannelSet `yaml:"surface_channels"`
	CapsuleTraceRadius     float64              `yaml:"capsule_trace_radius"`
	CapsuleTraceHalfHeight float64              `yaml:"capsule_trace_half_height"`
	ForwardTraceOffset     float64              `yaml:"forward_trace_offset"`

	EyeHeight        float64 `yaml:"eye_height"`
	EyeTraceDistance float64 `yaml:"eye_trace_distance"`

	StandingHalfHeight float64 `yaml:"standing_half_height"`
	ClimbingHalfHeight float64 `yaml:"climbing_half_height"`

	MaxClimbSpeed             float64 `yaml:"max_climb_speed"`
	MaxClimbAcceleration      float64 `yaml:"max_climb_acceleration"`
	MaxBrakeClimbDeceleration float64 `yaml:"max_brake_climb_deceleration"`
	MaxClimbableSurfaceAngle  float64 `yaml:"max_climbable_surface_angle"`
	RotationInterpSpeed       float64 `yaml:"rotation_interp_speed"`
	MinTickTime               float64 `yaml:"min_tick_time"`

	Floor     FloorProbe     `yaml:"floor"`
	Ledge     LedgeProbe     `yaml:"ledge"`
	ClimbDown ClimbDownProbe `yaml:"climb_down"`
	Vault     VaultProbe     `yaml:"vault"`
	Hop       HopProbe       `yaml:"hop"`
	Montages  Montages       `yaml:"montages"`

	DebugDraw DebugDraw `yaml:"debug_draw"`
}

// DebugDraw sends the climbing probes to an installed drawer.
type DebugDraw struct {
	Show       bool `yaml:"show"`
	Persistent bool `yaml:"persistent"`
}

type FloorProbe struct {
	TraceOffset float64 `yaml:"trace_offset"`
	// DescendVelocity is the local vertical velocity below which the climber
	// counts as descending.
	DescendVelocity float64 `yaml:"descend_velocity"`
}

type LedgeProbe struct {
	TraceDistance    float64 `yaml:"trace_distance"`
	TraceStartOffset float64 `yaml:"trace_start_offset"`
	WalkableDepth    float64 `yaml:"walkable_depth"`
	AscendVelocity   float64 `yaml:"ascend_velocity"`
}

type ClimbDownProbe struct {
	WalkableSurfaceOffset float64 `yaml:"walkable_surface_offset"`
	WalkableDepth         float64 `yaml:"walkable_depth"`
	LedgeOffset           float64 `yaml:"ledge_offset"`
	LedgeDepth            float64 `yaml:"ledge_depth"`
}

type VaultProbe struct {
	TraceSteps     int     `yaml:"trace_steps"`
	LandTraceIndex int     `yaml:"land_trace_index"`
	Up             float64 `yaml:"up"`
	ForwardStep    float64 `yaml:"forward_step"`
	DownStep       float64 `yaml:"down_step"`
	StartPointName string  `yaml:"start_point_name"`
	LandPointName  string  `yaml:"land_point_name"`
}

type HopProbe struct {
	DotThreshold   float64 `yaml:"dot_threshold"`
	TraceDistance  float64 `yaml:"trace_distance"`
	UpOffset       float64 `yaml:"up_offset"`
	UpSafetyOffset float64 `yaml:"up_safety_offset"`
	DownOffset     float64 `yaml:"down_offset"`
	UpTargetName   string  `yaml:"up_target_name"`
	DownTargetName string  `yaml:"down_target_name"`
}

type Montages struct {
	IdleToClimb    component.MontageID `yaml:"idle_to_climb"`
	ClimbToTop     component.MontageID `yaml:"climb_to_top"`
	ClimbDownLedge component.MontageID `yaml:"climb_down_ledge"`
	Vault          component.MontageID `yaml:"vault"`
	HopUp          component.MontageID `yaml:"hop_up"`
	HopDown        component.MontageID `yaml:"hop_down"`
}

// Movement configures the base walk/fall model the climbing component falls back to.
type Movement struct {
	CapsuleRadius              float64              `yaml:"capsule_radius"`
	MaxWalkSpeed               float64              `yaml:"max_walk_speed"`
	MaxAcceleration            float64              `yaml:"max_acceleration"`
	BrakingDecelerationWalking float64              `yaml:"braking_deceleration_walking"`
	BrakingDecelerationFalling float64              `yaml:"braking_deceleration_falling"`
	GroundFriction             float64              `yaml:"ground_friction"`
	Gravity                    float64              `yaml:"gravity"`
	JumpZVelocity              float64              `yaml:"jump_z_velocity"`
	AirControl                 float64              `yaml:"air_control"`
	WalkableFloorZ             float64              `yaml:"walkable_floor_z"`
	FloorProbeDistance         float64              `yaml:"floor_probe_distance"`
	RotationRate               float64              `yaml:"rotation_rate"`
	Collision                  component.ChannelSet `yaml:"collision"`
}

// DefaultClimb returns the stock climbing values.
func DefaultClimb() Climb {
	return Climb{
		SurfaceChannels:           component.Channels(component.ChannelWorldStatic, component.ChannelClimbable),
		CapsuleTraceRadius:        50,
		CapsuleTraceHalfHeight:    72,
		ForwardTraceOffset:        30,
		EyeHeight:                 64,
		EyeTraceDistance:          100,
		StandingHalfHeight:        96,
		ClimbingHalfHeight:        48,
		MaxClimbSpeed:             100,
		MaxClimbAcceleration:      300,
		MaxBrakeClimbDeceleration: 400,
		MaxClimbableSurfaceAngle:  60,
		RotationInterpSpeed:       5,
		MinTickTime:               1e-6,
		Floor: FloorProbe{
			TraceOffset:     50,
			DescendVelocity: -10,
		},
		Ledge: LedgeProbe{
			TraceDistance:  50,
			WalkableDepth:  100,
			AscendVelocity: 10,
		},
		ClimbDown: ClimbDownProbe{
			WalkableSurfaceOffset: 100,
			WalkableDepth:         100,
			LedgeOffset:           50,
			LedgeDepth:            200,
		},
		Vault: VaultProbe{
			TraceSteps:     5,
			LandTraceIndex: 3,
			Up:             100,
			ForwardStep:    80,
			DownStep:       100,
			StartPointName: "VaultStartPoint",
			LandPointName:  "VaultLandPoint",
		},
		Hop: HopProbe{
			DotThreshold:   0.9,
			TraceDistance:  100,
			UpOffset:       -20,
			UpSafetyOffset: 150,
			DownOffset:     -300,
			UpTargetName:   "HopUpTargetPoint",
			DownTargetName: "HopDownTargetPoint",
		},
		Montages: Montages{
			IdleToClimb:    "idle_to_climb",
			ClimbToTop:     "climb_to_top",
			ClimbDownLedge: "climb_down_ledge",
			Vault:          "vault",
			HopUp:          "hop_up",
			HopDown:        "hop_down",
		},
	}
}

// DefaultMovement returns the stock walk/fall values.
func DefaultMovement() Movement {
	return Movement{
		CapsuleRadius:              42,
		MaxWalkSpeed:               500,
		MaxAcceleration:            2048,
		BrakingDecelerationWalking: 2000,
		BrakingDecelerationFalling: 1500,
		GroundFriction:             8,
		Gravity:                    980,
		JumpZVelocity:              500,
		AirControl:                 0.35,
		WalkableFloorZ:             0.71,
		FloorProbeDistance:         2.4,
		RotationRate:               500,
		Collision:                  component.AllChannels,
	}
}

// Default returns a spec built from the stock values.
func Default() Spec {
	return Spec{Name: "default", Climb: DefaultClimb(), Movement: DefaultMovement()}
}

// Load reads a tuning spec from prefabs. Missing keys keep their default value.
func Load(name string) (Spec, error) {
	spec := Default()
	if err := prefabs.LoadInto(name, &spec); err != nil {
		return Spec{}, err
	}
	if err := spec.Validate(); err != nil {
		return Spec{}, fmt.Errorf("tuning: %s: %w", name, err)
	}
	return spec, nil
}

func (s Spec) Validate() error {
	if err := s.Climb.Validate(); err != nil {
		return err
	}
	return s.Movement.Validate()
}

func (c Climb) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"capsule_trace_radius", c.CapsuleTraceRadius},
		{"capsule_trace_half_height", c.CapsuleTraceHalfHeight},
		{"standing_half_height", c.StandingHalfHeight},
		{"climbing_half_height", c.ClimbingHalfHeight},
		{"max_climb_speed", c.MaxClimbSpeed},
		{"max_climb_acceleration", c.MaxClimbAcceleration},
		{"eye_trace_distance", c.EyeTraceDistance},
	}
	for _, p := range positive {
		if p.v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalid, p.name, p.v)
		}
	}
	if c.MaxBrakeClimbDeceleration < 0 {
		return fmt.Errorf("%w: max_brake_climb_deceleration must not be negative", ErrInvalid)
	}
	if c.MaxClimbableSurfaceAngle <= 0 || c.MaxClimbableSurfaceAngle >= 180 {
		return fmt.Errorf("%w: max_climbable_surface_angle %v outside (0, 180)", ErrInvalid, c.MaxClimbableSurfaceAngle)
	}
	if c.Vault.TraceSteps <= 0 {
		return fmt.Errorf("%w: vault.trace_steps must be positive", ErrInvalid)
	}
	if c.Vault.LandTraceIndex < 0 || c.Vault.LandTraceIndex >= c.Vault.TraceSteps {
		return fmt.Errorf("%w: vault.land_trace_index %d outside [0, %d)", ErrInvalid, c.Vault.LandTraceIndex, c.Vault.TraceSteps)
	}
	if c.Hop.DotThreshold <= 0 || c.Hop.DotThreshold > 1 {
		return fmt.Errorf("%w: hop.dot_threshold %v outside (0, 1]", ErrInvalid, c.Hop.DotThreshold)
	}
	if c.SurfaceChannels == 0 {
		return fmt.Errorf("%w: surface_channels is empty", ErrInvalid)
	}
	return nil
}

func (m Movement) Validate() error {
	if m.CapsuleRadius <= 0 {
		return fmt.Errorf("%w: movement.capsule_radius must be positive", ErrInvalid)
	}
	if m.MaxWalkSpeed <= 0 || m.MaxAcceleration <= 0 {
		return fmt.Errorf("%w: movement speeds must be positive", ErrInvalid)
	}
	if m.WalkableFloorZ <= 0 || m.WalkableFloorZ > 1 {
		return fmt.Errorf("%w: movement.walkable_floor_z %v outside (0, 1]", ErrInvalid, m.WalkableFloorZ)
	}
	return nil
}
