package s3

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/moepig/tf-import-gen/resources"
)

const (
	providerType  = "s3"
	moduleAddress = "module.s3"

	// Buckets holding terraform state live outside the per-environment
	// module tree and always import under this address.
	stateBackendModuleAddress = "module.tfstate-backend"
)

// Provider implements the resources.Provider interface for S3 buckets
type Provider struct {
	s3Client S3API
}

// S3API defines the S3 API interface
type S3API interface {
	ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
}

// NewProvider creates a new S3 provider
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

// Discover retrieves buckets whose name contains the environment name
func (p *Provider) Discover(ctx context.Context, cfg resources.ProviderConfig) ([]resources.ImportRecord, error) {
	slog.Debug("Starting S3 discovery", "region", cfg.Region, "environment", cfg.Environment)

	if err := p.ValidateConfig(cfg); err != nil {
		return nil, err
	}

	awsCfg, err := resources.LoadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// Initialize client if not set (for testing, it can be injected)
	if p.s3Client == nil {
		p.s3Client = s3.NewFromConfig(awsCfg)
	}

	output, err := p.s3Client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to list buckets: %w", err)
	}

	slog.Debug("Listed buckets", "count", len(output.Buckets))

	environment := strings.ToLower(cfg.Environment)

	var result []resources.ImportRecord
	for _, bucket := range output.Buckets {
		name := aws.ToString(bucket.Name)
		if !strings.Contains(strings.ToLower(name), environment) {
			continue
		}

		address := moduleAddress
		if isStateBackendBucket(name) {
			address = stateBackendModuleAddress
		}

		slog.Debug("Matched bucket", "bucket", name, "module_address", address)
		result = append(result, resources.ImportRecord{
			ResourceType:  "aws_s3_bucket",
			ResourceName:  name,
			ResourceID:    name,
			ModuleAddress: address,
		})
	}

	slog.Info("S3 discovery completed", "total_records", len(result))
	return result, nil
}

// isStateBackendBucket reports whether a bucket name carries a terraform
// state backend marker
func isStateBackendBucket(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "tfstate") || strings.Contains(lower, "terraform-state")
}
