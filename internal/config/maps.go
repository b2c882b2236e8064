package config

import "fmt"

// Layer is one stratum drawn behind the geosteering phase.
type Layer struct {
	Name   string  `yaml:"name"`
	Color  string  `yaml:"color"`
	Height float64 `yaml:"height"` // Percentage of the section
	Target bool    `yaml:"target"`
}

// ObjectiveOverride replaces objective fields for one map. Zero keeps the
// drill configuration's value.
type ObjectiveOverride struct {
	Droplets         int     `yaml:"droplets"`
	TimeLimitSeconds float64 `yaml:"time_limit_seconds"`
}

// MapConfig describes a selectable drilling site.
type MapConfig struct {
	ID         string            `yaml:"id"`
	Title      string            `yaml:"title"`
	Subtitle   string            `yaml:"subtitle"`
	Difficulty DifficultyPreset  `yaml:"difficulty"`
	Stars      int               `yaml:"stars"`
	Depth      string            `yaml:"depth"`
	DipAngle   float64           `yaml:"dip_angle"`
	Layers     []Layer           `yaml:"layers"`
	Objective  ObjectiveOverride `yaml:"objective"`
}

// TargetLayer returns the index of the reservoir layer, or -1.
func (m MapConfig) TargetLayer() int {
	for i, l := range m.Layers {
		if l.Target {
			return i
		}
	}
	return -1
}

// Apply returns a copy of cfg tuned for this map: the map's preset unless
// override is non-empty, then the objective overrides.
func (m MapConfig) Apply(cfg DrillConfig, override DifficultyPreset) DrillConfig {
	preset := m.Difficulty
	if override != "" {
		preset = override
	}
	ApplyPreset(&cfg, preset)

	if m.Objective.Droplets > 0 {
		cfg.Objective.Droplets = m.Objective.Droplets
	}
	if m.Objective.TimeLimitSeconds > 0 {
		cfg.Objective.TimeLimitSeconds = m.Objective.TimeLimitSeconds
	}
	return cfg
}

type mapsFile struct {
	Maps []MapConfig `yaml:"maps"`
}

// LoadMaps loads the map catalogue.
// Search order: customPath -> ~/.oilstrike/configs/maps.yaml -> ./configs/maps.yaml -> embedded default
func LoadMaps(customPath string) ([]MapConfig, error) {
	var file mapsFile
	if _, err := loadYAML(customPath, "maps.yaml", defaultMapsYAML, &file); err != nil {
		return nil, err
	}
	if len(file.Maps) == 0 {
		return nil, fmt.Errorf("config: map catalogue is empty")
	}

	seen := make(map[string]bool, len(file.Maps))
	for i := range file.Maps {
		m := &file.Maps[i]
		if m.ID == "" {
			return nil, fmt.Errorf("config: map %d has no id", i)
		}
		if seen[m.ID] {
			return nil, fmt.Errorf("config: duplicate map id %q", m.ID)
		}
		seen[m.ID] = true
		if _, ok := ParsePreset(string(m.Difficulty)); !ok {
			return nil, fmt.Errorf("config: map %q has unknown difficulty %q", m.ID, m.Difficulty)
		}
		if m.Difficulty == "" {
			m.Difficulty = DifficultyNormal
		}
	}
	return file.Maps, nil
}

// FindMap returns the map with the given id.
func FindMap(maps []MapConfig, id string) (MapConfig, bool) {
	for _, m := range maps {
		if m.ID == id {
			return m, true
		}
	}
	return MapConfig{}, false
}
