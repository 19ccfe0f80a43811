package config

// PlanConfig represents a batch import plan file
type PlanConfig struct {
	Version  string         `yaml:"version"`
	Defaults Defaults       `yaml:"defaults"`
	Imports  []ImportConfig `yaml:"imports"`
}

// Defaults holds values applied to imports that do not set their own
type Defaults struct {
	Region    string `yaml:"region"`
	Profile   string `yaml:"profile"`
	OutputDir string `yaml:"output_dir"`
}

// ImportConfig represents one service/environment import
type ImportConfig struct {
	Service    string `yaml:"service"`
	Env        string `yaml:"env"`
	ModulePath string `yaml:"module_path"`
	Region     string `yaml:"region"`
	Profile    string `yaml:"profile"`
}
