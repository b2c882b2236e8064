package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Source names where a configuration was loaded from.
type Source string

const (
	SourceCustom   Source = "custom"
	SourceUser     Source = "user"
	SourceLocal    Source = "local"
	SourceEmbedded Source = "embedded"
	SourceBuiltin  Source = "builtin"
)

// LoadDrill loads the drill configuration.
// Search order: customPath -> ~/.oilstrike/configs/drill.yaml -> ./configs/drill.yaml -> embedded default
// Files only need to list the fields they change; the rest keep their defaults.
func LoadDrill(customPath string) (DrillConfig, Source, error) {
	cfg := DefaultDrillConfig()

	src, err := loadYAML(customPath, "drill.yaml", defaultDrillYAML, &cfg)
	if err != nil {
		if customPath != "" {
			return cfg, src, err
		}
		// Embedded file is broken; fall back to hardcoded defaults
		return DefaultDrillConfig(), SourceBuiltin, nil
	}

	if err := cfg.Validate(); err != nil {
		return cfg, src, fmt.Errorf("config: %s drill config: %w", src, err)
	}
	return cfg, src, nil
}

// loadYAML decodes the first readable candidate into out. A custom path that
// fails to read or parse is an error; user and local files that fail are skipped.
func loadYAML(customPath, filename string, embedded []byte, out any) (Source, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return SourceCustom, fmt.Errorf("config: failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, out); err != nil {
			return SourceCustom, fmt.Errorf("config: failed to parse config %s: %w", customPath, err)
		}
		return SourceCustom, nil
	}

	if userCfgPath := userConfigPath(filename); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, out); err == nil {
				return SourceUser, nil
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join("configs", filename)); err == nil {
		if err := yaml.Unmarshal(data, out); err == nil {
			return SourceLocal, nil
		}
	}

	if err := yaml.Unmarshal(embedded, out); err != nil {
		return SourceEmbedded, fmt.Errorf("config: failed to parse embedded %s: %w", filename, err)
	}
	return SourceEmbedded, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".oilstrike", "configs", filename)
}
