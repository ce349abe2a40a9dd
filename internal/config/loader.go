package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadMachine loads a machine configuration.
// Search order: customPath -> ~/.pinhall/machine.yaml -> ./configs/machine.yaml -> embedded default
func LoadMachine(customPath string) (MachineDef, error) {
	var def MachineDef

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return def, fmt.Errorf("failed to read machine config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &def); err != nil {
			return def, fmt.Errorf("failed to parse machine config %s: %w", customPath, err)
		}
		return def, nil
	}

	if userCfgPath := userConfigPath("machine.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &def); err == nil {
				return def, nil
			}
		}
	}

	if data, err := os.ReadFile("configs/machine.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &def); err == nil {
			return def, nil
		}
	}

	if err := yaml.Unmarshal(defaultMachineYAML, &def); err != nil {
		return MachineDef{}, fmt.Errorf("failed to parse embedded default machine config: %w", err)
	}
	return def, nil
}

// userConfigPath returns the path to a user config file, or empty if the
// home directory is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pinhall", filename)
}
