// FILE: sensormerge/src/internal/config/saver.go
package config

import (
	"fmt"
	"strings"

	lconfig "github.com/lixenwraith/config"
)

// SaveToFile writes the configuration to path as TOML
func (c *Config) SaveToFile(path string) error {
	if err := lconfig.NonEmpty(path); err != nil {
		return fmt.Errorf("cannot save config: path is empty")
	}

	// Separate lconfig instance bound to c, used only for serialization
	lcfg, err := lconfig.NewBuilder().
		WithFile(path).
		WithTarget(c).
		WithFileFormat("toml").
		Build()
	if err != nil && !strings.Contains(err.Error(), "not found") {
		return fmt.Errorf("failed to create config builder: %w", err)
	}

	if err := lcfg.Save(path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}
