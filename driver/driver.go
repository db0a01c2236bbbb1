// Package driver feeds a character from a tengo script. A script defines
// update(engine, state) and optionally init(engine, state); init runs before
// the first update, update runs once per tick and uses the engine functions to
// read the character and request input.
package driver

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/hwarang98/ClimbingSystem/character"
	"github.com/hwarang98/ClimbingSystem/logger"
	"github.com/hwarang98/ClimbingSystem/prefabs"
	"github.com/sirupsen/logrus"
)

const updateDispatchScript = `
if __phase == "update" {
	update(__engine, __state)
}
`

const initDispatchScript = `
if __phase == "init" {
	init(__engine, __state)
}
`

// initDecl matches a top-level init declaration.
var initDecl = regexp.MustCompile(`(?m)^init\s*:=`)

// Script is a compiled driver script with its persistent state map.
type Script struct {
	path        string
	compiled    *tengo.Compiled
	stateData   *tengo.Map
	initialized bool
	done        bool
	log         *logrus.Entry
}

// Load compiles a script from prefabs, e.g. "climb_wall" or "scripts/vault.tengo".
func Load(path string) (*Script, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("driver: empty script path")
	}
	src, err := prefabs.LoadScript(path)
	if err != nil {
		return nil, fmt.Errorf("driver: load %s: %w", path, err)
	}
	return Compile(path, src)
}

// Compile builds a script from source. name is only used in messages.
func Compile(name string, src []byte) (*Script, error) {
	full := string(src) + "\n" + updateDispatchScript
	hasInit := initDecl.Match(src)
	if hasInit {
		full += initDispatchScript
	}
	script := tengo.NewScript([]byte(full))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("driver: compile %s: %w", name, err)
	}
	return &Script{
		path:        name,
		compiled:    compiled,
		stateData:   &tengo.Map{Value: map[string]tengo.Object{}},
		initialized: !hasInit,
		log:         logger.For("driver").WithField("script", name),
	}, nil
}

func (s *Script) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Done reports whether the script called stop().
func (s *Script) Done() bool {
	return s == nil || s.done
}

// Frame is what a script sees of the simulation on one tick.
type Frame struct {
	Tick int
	Time float64
	Dt   float64
}

// Next runs the script for one tick and returns the input it requested.
func (s *Script) Next(ch *character.Character, f Frame) (character.Intent, error) {
	var intent character.Intent
	if s == nil || s.compiled == nil {
		return intent, fmt.Errorf("driver: nil script")
	}
	if s.done {
		return intent, nil
	}

	engine := s.buildEngine(ch, f, &intent)
	if !s.initialized {
		if err := s.runPhase("init", engine); err != nil {
			return intent, fmt.Errorf("driver: %s init: %w", s.path, err)
		}
		s.initialized = true
	}
	if err := s.runPhase("update", engine); err != nil {
		return intent, fmt.Errorf("driver: %s update: %w", s.path, err)
	}
	return intent, nil
}

func (s *Script) runPhase(phase string, engine *tengo.ImmutableMap) error {
	if err := s.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := s.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := s.compiled.Set("__state", s.stateData); err != nil {
		return err
	}
	return s.compiled.Run()
}

func (s *Script) buildEngine(ch *character.Character, f Frame, intent *character.Intent) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["tick"] = &tengo.UserFunction{Name: "tick", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(f.Tick)}, nil
	}}

	values["time"] = &tengo.UserFunction{Name: "time", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: f.Time}, nil
	}}

	values["mode"] = &tengo.UserFunction{Name: "mode", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if ch == nil {
			return &tengo.String{Value: ""}, nil
		}
		return &tengo.String{Value: ch.Movement.Mode().String()}, nil
	}}

	values["context"] = &tengo.UserFunction{Name: "context", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if ch == nil {
			return &tengo.String{Value: ""}, nil
		}
		return &tengo.String{Value: ch.Context().String()}, nil
	}}

	values["montage"] = &tengo.UserFunction{Name: "montage", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if ch == nil {
			return &tengo.String{Value: ""}, nil
		}
		return &tengo.String{Value: string(ch.Anim.Current())}, nil
	}}

	values["position"] = &tengo.UserFunction{Name: "position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if ch == nil {
			return vec3Object(0, 0, 0), nil
		}
		p := ch.Body.Location
		return vec3Object(p.X(), p.Y(), p.Z()), nil
	}}

	values["velocity"] = &tengo.UserFunction{Name: "velocity", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if ch == nil {
			return vec3Object(0, 0, 0), nil
		}
		v := ch.Body.Velocity
		return vec3Object(v.X(), v.Y(), v.Z()), nil
	}}

	values["move"] = &tengo.UserFunction{Name: "move", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return tengo.FalseValue, nil
		}
		intent.MoveX = objectAsFloat(args[0])
		intent.MoveY = objectAsFloat(args[1])
		return tengo.TrueValue, nil
	}}

	values["look"] = &tengo.UserFunction{Name: "look", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		intent.LookYaw = objectAsFloat(args[0])
		return tengo.TrueValue, nil
	}}

	values["jump"] = flagFunc("jump", &intent.Jump)
	values["climb"] = flagFunc("climb", &intent.Climb)
	values["hop"] = flagFunc("hop", &intent.Hop)

	values["stop"] = &tengo.UserFunction{Name: "stop", Value: func(args ...tengo.Object) (tengo.Object, error) {
		s.done = true
		return tengo.TrueValue, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		s.log.WithField("tick", f.Tick).Info(strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func flagFunc(name string, flag *bool) *tengo.UserFunction {
	return &tengo.UserFunction{Name: name, Value: func(args ...tengo.Object) (tengo.Object, error) {
		*flag = true
		return tengo.TrueValue, nil
	}}
}

func vec3Object(x, y, z float64) tengo.Object {
	return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: x}, &tengo.Float{Value: y}, &tengo.Float{Value: z}}}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func objectAsFloat(obj tengo.Object) float64 {
	switch v := obj.(type) {
	case *tengo.Float:
		return v.Value
	case *tengo.Int:
		return float64(v.Value)
	case *tengo.Bool:
		if v.IsFalsy() {
			return 0
		}
		return 1
	}
	return 0
}
