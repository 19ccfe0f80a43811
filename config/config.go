package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Environment variables that override plan defaults
const (
	envRegion    = "TF_IMPORT_GEN_REGION"
	envOutputDir = "TF_IMPORT_GEN_OUTPUT_DIR"
)

// LoadPlanConfig loads and parses a batch import plan file
func LoadPlanConfig(path string) (*PlanConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	var cfg PlanConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse plan file: %w", err)
	}

	slog.Debug("Parsed plan file", "path", path, "imports_count", len(cfg.Imports))

	if region := os.Getenv(envRegion); region != "" {
		cfg.Defaults.Region = region
	}
	if outputDir := os.Getenv(envOutputDir); outputDir != "" {
		cfg.Defaults.OutputDir = outputDir
	}

	applyDefaults(&cfg)

	if err := validatePlanConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid plan file: %w", err)
	}

	return &cfg, nil
}

// applyDefaults copies plan defaults into imports that leave them unset
func applyDefaults(cfg *PlanConfig) {
	for i := range cfg.Imports {
		if cfg.Imports[i].Region == "" {
			cfg.Imports[i].Region = cfg.Defaults.Region
		}
		if cfg.Imports[i].Profile == "" {
			cfg.Imports[i].Profile = cfg.Defaults.Profile
		}
	}
}

// validatePlanConfig validates the batch import plan
func validatePlanConfig(cfg *PlanConfig) error {
	if len(cfg.Imports) == 0 {
		return fmt.Errorf("at least one import must be defined")
	}

	seen := make(map[string]bool)
	for i, imp := range cfg.Imports {
		if imp.Service == "" {
			return fmt.Errorf("import[%d]: service is required", i)
		}
		if imp.Env == "" {
			return fmt.Errorf("import[%d]: env is required", i)
		}
		if imp.ModulePath == "" {
			return fmt.Errorf("import[%d]: module_path is required", i)
		}
		if imp.Region == "" {
			return fmt.Errorf("import[%d]: region is required (set it on the import or in defaults)", i)
		}

		key := imp.Service + "/" + imp.Env
		if seen[key] {
			return fmt.Errorf("import[%d]: duplicate service/env pair: %s", i, key)
		}
		seen[key] = true
	}

	return nil
}
