package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AgentStyle overrides the display name and icon of one agent kind.
type AgentStyle struct {
	Name string `yaml:"name"`
	Icon string `yaml:"icon"`
}

// Persona holds optional overrides for the companion's presentation:
// the system prompt and the per-agent display names/icons.
type Persona struct {
	SystemPrompt string                `yaml:"system_prompt"`
	Agents       map[string]AgentStyle `yaml:"agents"`
}

// LoadPersona reads a persona YAML file. A missing path returns an
// empty persona, not an error, so the file stays optional.
func LoadPersona(path string) (Persona, error) {
	var p Persona
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read persona file: %w", err)
	}

	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse persona file: %w", err)
	}
	return p, nil
}
