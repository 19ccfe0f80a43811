package rds

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/moepig/tf-import-gen/resources"
)

const (
	providerType  = "rds"
	moduleAddress = "module.rds"
)

// Provider implements the resources.Provider interface for RDS instances
type Provider struct {
	rdsClient RDSAPI
}

// RDSAPI defines the RDS API interface
type RDSAPI interface {
	DescribeDBInstances(ctx context.Context, params *rds.DescribeDBInstancesInput, optFns ...func(*rds.Options)) (*rds.DescribeDBInstancesOutput, error)
}

// NewProvider creates a new RDS provider
func NewProvider() *Provider {
	return &Provider{}
}

// Type returns the service identifier handled by this provider
func (p *Provider) Type() string {
	return providerType
}

// ValidateConfig checks if the provider configuration is valid
func (p *Provider) ValidateConfig(cfg resources.ProviderConfig) error {
	if cfg.Region == "" {
		return fmt.Errorf("region is required")
	}
	if cfg.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	return nil
}

// Discover retrieves DB instances whose identifier contains the
// environment name
func (p *Provider) Discover(ctx context.Context, cfg resources.ProviderConfig) ([]resources.ImportRecord, error) {
	slog.Debug("Starting RDS discovery", "region", cfg.Region, "environment", cfg.Environment)

	if err := p.ValidateConfig(cfg); err != nil {
		return nil, err
	}

	awsCfg, err := resources.LoadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// Initialize client if not set (for testing, it can be injected)
	if p.rdsClient == nil {
		p.rdsClient = rds.NewFromConfig(awsCfg)
	}

	environment := strings.ToLower(cfg.Environment)

	var result []resources.ImportRecord
	paginator := rds.NewDescribeDBInstancesPaginator(p.rdsClient, &rds.DescribeDBInstancesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe DB instances: %w", err)
		}

		slog.Debug("Described DB instances", "count", len(page.DBInstances))

		for _, db := range page.DBInstances {
			id := aws.ToString(db.DBInstanceIdentifier)
			if !strings.Contains(strings.ToLower(id), environment) {
				continue
			}

			slog.Debug("Matched DB instance", "db_instance_identifier", id)
			result = append(result, resources.ImportRecord{
				ResourceType:  "aws_db_instance",
				ResourceName:  id,
				ResourceID:    id,
				ModuleAddress: moduleAddress,
			})
		}
	}

	slog.Info("RDS discovery completed", "total_records", len(result))
	return result, nil
}
