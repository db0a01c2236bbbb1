package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// LoadSpec unmarshals a YAML prefab into a new T.
func LoadSpec[T any](filename string) (T, error) {
	var spec T
	if err := LoadInto(filename, &spec); err != nil {
		var zero T
		return zero, err
	}
	return spec, nil
}

// LoadInto unmarshals a YAML prefab over v, so fields absent from the file
// keep whatever v already held.
func LoadInto(filename string, v any) error {
	data, err := Load(filename)
	if err != nil {
		return fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return nil
}
