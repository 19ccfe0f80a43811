package vpc

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi"
	taggingtypes "github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi/types"
	"github.com/moepig/tf-import-gen/resources"
)

const (
	providerType  = "vpc"
	moduleAddress = "module.vpc"

	environmentTagKey = "Environment"
	nameTagKey        = "Name"
)

// Provider implements the resources.Provider interface for VPC networks
type Provider struct {
	ec2Client     EC2API
	taggingClient ResourceGroupsTaggingAPI
}

// EC2API defines the EC2 API interface
type EC2API interface {
	DescribeSubnets(ctx context.Context, params *ec2.DescribeSubnetsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSubnetsOutput, error)
	DescribeInternetGateways(ctx context.Context, params *ec2.DescribeInternetGatewaysInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInternetGatewaysOutput, error)
}

// ResourceGroupsTaggingAPI defines the Resource Groups Tagging API interface
type ResourceGroupsTaggingAPI interface {
	GetResources(ctx context.Context, params *resourcegroupstaggingapi.GetResourcesInput, optFns ...func(*resourcegroupstaggingapi.Options)) (*resourcegroupstaggingapi.GetResourcesOutput, error)
}

// NewProvider creates a new VPC provider
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

// Discover retrieves VPCs tagged for the environment together with their
// subnets and internet gateways
func (p *Provider) Discover(ctx context.Context, cfg resources.ProviderConfig) ([]resources.ImportRecord, error) {
	slog.Debug("Starting VPC discovery", "region", cfg.Region, "environment", cfg.Environment)

	if err := p.ValidateConfig(cfg); err != nil {
		return nil, err
	}

	awsCfg, err := resources.LoadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// Initialize clients if not set (for testing, they can be injected)
	if p.taggingClient == nil {
		p.taggingClient = resourcegroupstaggingapi.NewFromConfig(awsCfg)
	}
	if p.ec2Client == nil {
		p.ec2Client = ec2.NewFromConfig(awsCfg)
	}

	// Get all VPCs with their tags. The Environment tag comparison is
	// case-insensitive, so the match happens client-side instead of
	// through a server-side tag filter.
	vpcIDs, err := p.getVPCsByEnvironment(ctx, cfg.Environment)
	if err != nil {
		return nil, err
	}

	if len(vpcIDs) == 0 {
		slog.Info("No VPCs found matching environment tag", "environment", cfg.Environment)
		return []resources.ImportRecord{}, nil
	}

	slog.Info("Found VPCs by environment tag", "count", len(vpcIDs))

	var result []resources.ImportRecord
	for _, vpcID := range vpcIDs {
		result = append(result, resources.ImportRecord{
			ResourceType:  "aws_vpc",
			ResourceName:  "this",
			ResourceID:    vpcID,
			ModuleAddress: moduleAddress,
		})

		subnets, err := p.discoverSubnets(ctx, vpcID)
		if err != nil {
			return nil, err
		}
		result = append(result, subnets...)

		gateways, err := p.discoverInternetGateways(ctx, vpcID)
		if err != nil {
			return nil, err
		}
		result = append(result, gateways...)
	}

	slog.Info("VPC discovery completed", "total_records", len(result))
	return result, nil
}

// getVPCsByEnvironment returns the IDs of VPCs whose Environment tag equals
// the requested environment, compared case-insensitively
func (p *Provider) getVPCsByEnvironment(ctx context.Context, environment string) ([]string, error) {
	input := &resourcegroupstaggingapi.GetResourcesInput{
		ResourceTypeFilters: []string{"ec2:vpc"},
	}

	output, err := p.taggingClient.GetResources(ctx, input)
	if err != nil {
		slog.Error("GetResources API call failed", "error", err)
		return nil, fmt.Errorf("failed to get VPCs by tags: %w", err)
	}

	slog.Debug("GetResources API call succeeded", "resources_count", len(output.ResourceTagMappingList))

	var vpcIDs []string
	for _, mapping := range output.ResourceTagMappingList {
		if mapping.ResourceARN == nil {
			continue
		}
		tags := tagsToMap(mapping.Tags)
		if !strings.EqualFold(tags[environmentTagKey], environment) {
			continue
		}
		vpcIDs = append(vpcIDs, vpcIDFromARN(*mapping.ResourceARN))
	}

	slog.Debug("Matched VPCs", "vpc_ids", vpcIDs)
	return vpcIDs, nil
}

// discoverSubnets returns import records for the subnets of a VPC whose
// Name tag carries a tier ("public"/"private") and a trailing numeral
func (p *Provider) discoverSubnets(ctx context.Context, vpcID string) ([]resources.ImportRecord, error) {
	input := &ec2.DescribeSubnetsInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("vpc-id"), Values: []string{vpcID}},
		},
	}

	output, err := p.ec2Client.DescribeSubnets(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to describe subnets for %s: %w", vpcID, err)
	}

	slog.Debug("Described subnets", "vpc_id", vpcID, "count", len(output.Subnets))

	var result []resources.ImportRecord
	for _, subnet := range output.Subnets {
		name := ec2TagValue(subnet.Tags, nameTagKey)
		tier, index, ok := parseSubnetName(name)
		if !ok {
			// Subnets without a parseable Name tag are skipped
			slog.Debug("Skipping subnet without parseable name",
				"subnet_id", aws.ToString(subnet.SubnetId),
				"name", name)
			continue
		}

		result = append(result, resources.ImportRecord{
			ResourceType:  "aws_subnet",
			ResourceName:  fmt.Sprintf("%s[%d]", tier, index),
			ResourceID:    aws.ToString(subnet.SubnetId),
			ModuleAddress: moduleAddress,
		})
	}

	return result, nil
}

// discoverInternetGateways returns import records for internet gateways
// attached to a VPC
func (p *Provider) discoverInternetGateways(ctx context.Context, vpcID string) ([]resources.ImportRecord, error) {
	input := &ec2.DescribeInternetGatewaysInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("attachment.vpc-id"), Values: []string{vpcID}},
		},
	}

	output, err := p.ec2Client.DescribeInternetGateways(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to describe internet gateways for %s: %w", vpcID, err)
	}

	var result []resources.ImportRecord
	for _, igw := range output.InternetGateways {
		result = append(result, resources.ImportRecord{
			ResourceType:  "aws_internet_gateway",
			ResourceName:  "this",
			ResourceID:    aws.ToString(igw.InternetGatewayId),
			ModuleAddress: moduleAddress,
		})
	}

	return result, nil
}

// parseSubnetName extracts the tier and zero-based index from a subnet
// Name tag such as "myapp-staging-public2". The trailing numeral in the
// tag is one-based; the returned index is that numeral minus one.
func parseSubnetName(name string) (tier string, index int, ok bool) {
	lower := strings.ToLower(name)

	switch {
	case strings.Contains(lower, "public"):
		tier = "public"
	case strings.Contains(lower, "private"):
		tier = "private"
	default:
		return "", 0, false
	}

	digits := trailingDigits(lower)
	if digits == "" {
		return "", 0, false
	}

	n := 0
	for _, r := range digits {
		n = n*10 + int(r-'0')
	}
	return tier, n - 1, true
}

// trailingDigits returns the run of digits at the end of s
func trailingDigits(s string) string {
	i := len(s)
	for i > 0 && unicode.IsDigit(rune(s[i-1])) {
		i--
	}
	return s[i:]
}

// vpcIDFromARN extracts the VPC ID from an ARN such as
// arn:aws:ec2:ap-northeast-1:123456789012:vpc/vpc-0abc
func vpcIDFromARN(arn string) string {
	if i := strings.LastIndex(arn, "/"); i >= 0 {
		return arn[i+1:]
	}
	return arn
}

// tagsToMap converts tagging API tags to a plain map
func tagsToMap(tags []taggingtypes.Tag) map[string]string {
	m := make(map[string]string, len(tags))
	for _, tag := range tags {
		if tag.Key != nil && tag.Value != nil {
			m[*tag.Key] = *tag.Value
		}
	}
	return m
}

// ec2TagValue returns the value of the named EC2 tag, or ""
func ec2TagValue(tags []ec2types.Tag, key string) string {
	for _, tag := range tags {
		if aws.ToString(tag.Key) == key {
			return aws.ToString(tag.Value)
		}
	}
	return ""
}
