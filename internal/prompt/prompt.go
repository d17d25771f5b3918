// Package prompt loads the instruction text handed to the quiz generator.
//
// The prompt is a data asset: chord construction, coordinate choice and
// fingering rules live in it and nowhere else. Operators can swap it with
// PROMPT_PATH without rebuilding.
package prompt

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultAsset []byte

// Prompt is one versioned instruction set.
type Prompt struct {
	Name         string `yaml:"name"`
	Version      string `yaml:"version"`
	System       string `yaml:"system"`
	Instructions string `yaml:"instructions"`
}

// ID identifies the prompt in logs and stored rounds.
func (p Prompt) ID() string {
	if p.Version == "" {
		return p.Name
	}
	return p.Name + "@" + p.Version
}

// Default returns the embedded prompt.
func Default() (Prompt, error) {
	p, err := Parse(defaultAsset)
	if err != nil {
		return Prompt{}, fmt.Errorf("embedded prompt: %w", err)
	}
	return p, nil
}

// Load reads a prompt from path, or returns the embedded default when path
// is empty.
func Load(path string) (Prompt, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Prompt{}, fmt.Errorf("read prompt %s: %w", path, err)
	}
	p, err := Parse(data)
	if err != nil {
		return Prompt{}, fmt.Errorf("prompt %s: %w", path, err)
	}
	return p, nil
}

// Parse decodes a YAML prompt asset.
func Parse(data []byte) (Prompt, error) {
	var p Prompt
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Prompt{}, fmt.Errorf("decode yaml: %w", err)
	}
	if strings.TrimSpace(p.Instructions) == "" {
		return Prompt{}, fmt.Errorf("instructions must not be empty")
	}
	if p.Name == "" {
		p.Name = "custom"
	}
	return p, nil
}
