package process

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// InterpreterConfig describes the external interpreter used to execute
// node code.
type InterpreterConfig struct {
	Command     string            `yaml:"command" json:"command"`
	Args        []string          `yaml:"args" json:"args"`
	Environment map[string]string `yaml:"env" json:"env"`
}

// LoadConfig reads an interpreter configuration from a YAML or JSON file.
func LoadConfig(path string) (InterpreterConfig, error) {
	var cfg InterpreterConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read interpreter config: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse interpreter config: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse interpreter config: %w", err)
		}
	}

	if cfg.Command == "" {
		return cfg, fmt.Errorf("interpreter config %s: command is required", path)
	}
	return cfg, nil
}
