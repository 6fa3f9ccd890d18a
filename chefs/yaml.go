package chefs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// EncodeConfig serializes a config through its flat interchange map.
func EncodeConfig(c Config) ([]byte, error) {
	data, err := yaml.Marshal(c.ToMap())
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

// DecodeConfig merges YAML settings into an existing config via Update, so
// typed fields are coerced and unknown keys survive in AdditionalSettings.
func DecodeConfig(data []byte, c Config) error {
	var settings map[string]any
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	c.Update(settings)
	return nil
}
