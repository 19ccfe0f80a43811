package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/moepig/tf-import-gen/config"
	"github.com/moepig/tf-import-gen/resources"
	"github.com/moepig/tf-import-gen/resources/rds"
	"github.com/moepig/tf-import-gen/resources/s3"
	"github.com/moepig/tf-import-gen/resources/vpc"
	"github.com/moepig/tf-import-gen/script"
)

const defaultOutputDir = "terraform-imports"

func init() {
	// Register providers
	resources.Register(vpc.NewProvider())
	resources.Register(rds.NewProvider())
	resources.Register(s3.NewProvider())
}

func main() {
	// Command line arguments
	service := flag.String("service", "", "Service to discover (vpc, rds, s3)")
	region := flag.String("region", "ap-northeast-1", "AWS region")
	profile := flag.String("profile", "", "AWS shared config profile")
	env := flag.String("env", "", "Environment to filter resources by")
	modulePath := flag.String("module-path", "", "Terraform module directory the generated script changes into")
	outputDir := flag.String("output-dir", defaultOutputDir, "Directory the generated scripts are written under")
	planPath := flag.String("config", "", "Path to a batch import plan file (overrides -service/-env/-module-path)")
	logLevelStr := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	// Parse log level
	var logLevel slog.Level
	switch *logLevelStr {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level '%s' (must be debug, info, warn, or error)\n", *logLevelStr)
		flag.Usage()
		os.Exit(1)
	}

	// Initialize slog logger
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	plan, dir, err := buildPlan(*planPath, *service, *region, *profile, *env, *modulePath, *outputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		flag.Usage()
		os.Exit(1)
	}

	ctx := context.Background()

	// Run the application
	if err := run(ctx, plan, dir); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

// buildPlan assembles the import plan either from a plan file or from the
// single-run flags. The returned directory is where scripts are written.
func buildPlan(planPath, service, region, profile, env, modulePath, outputDir string) (*config.PlanConfig, string, error) {
	if planPath != "" {
		plan, err := config.LoadPlanConfig(planPath)
		if err != nil {
			return nil, "", err
		}
		dir := plan.Defaults.OutputDir
		if dir == "" {
			dir = outputDir
		}
		return plan, dir, nil
	}

	if service == "" {
		return nil, "", fmt.Errorf("-service option is required")
	}
	if env == "" {
		return nil, "", fmt.Errorf("-env option is required")
	}
	if modulePath == "" {
		return nil, "", fmt.Errorf("-module-path option is required")
	}

	plan := &config.PlanConfig{
		Imports: []config.ImportConfig{
			{
				Service:    service,
				Env:        env,
				ModulePath: modulePath,
				Region:     region,
				Profile:    profile,
			},
		},
	}
	return plan, outputDir, nil
}

func run(ctx context.Context, plan *config.PlanConfig, outputDir string) error {
	writer := script.NewWriter(outputDir)

	for _, imp := range plan.Imports {
		slog.Info("Discovering resources",
			"service", imp.Service,
			"env", imp.Env,
			"region", imp.Region)

		provider, ok := resources.Lookup(imp.Service)
		if !ok {
			// Unsupported services have nothing to import; not an error
			slog.Warn("Unsupported service, nothing to import",
				"service", imp.Service,
				"supported", resources.List())
			fmt.Printf("No resources found for %s in environment '%s'\n", imp.Service, imp.Env)
			continue
		}

		providerCfg := resources.ProviderConfig{
			Region:      imp.Region,
			Profile:     imp.Profile,
			Environment: imp.Env,
		}

		records, err := provider.Discover(ctx, providerCfg)
		if err != nil {
			return fmt.Errorf("failed to discover resources for '%s': %w", imp.Service, err)
		}

		if len(records) == 0 {
			fmt.Printf("No resources found for %s in environment '%s'\n", imp.Service, imp.Env)
			continue
		}

		commands, path, err := writer.Write(records, imp.Env, imp.ModulePath)
		if err != nil {
			return fmt.Errorf("failed to write import script for '%s': %w", imp.Service, err)
		}

		fmt.Printf("Generated %s with %d import commands:\n", path, len(commands))
		for _, command := range commands {
			fmt.Printf("  %s\n", command)
		}
	}

	slog.Info("Done!")
	return nil
}
