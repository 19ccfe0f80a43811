package s3

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/moepig/tf-import-gen/resources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockS3Client is a mock implementation of S3API
type MockS3Client struct {
	mock.Mock
}

func (m *MockS3Client) ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
	args := m.Called(ctx, params, optFns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.ListBucketsOutput), args.Error(1)
}

func TestProvider_Type(t *testing.T) {
	provider := NewProvider()
	assert.Equal(t, "s3", provider.Type())
}

func TestProvider_ValidateConfig(t *testing.T) {
	provider := NewProvider()

	t.Run("valid config", func(t *testing.T) {
		cfg := resources.ProviderConfig{
			Region:      "ap-northeast-1",
			Environment: "staging",
		}
		assert.NoError(t, provider.ValidateConfig(cfg))
	})

	t.Run("missing environment", func(t *testing.T) {
		cfg := resources.ProviderConfig{Region: "ap-northeast-1"}
		err := provider.ValidateConfig(cfg)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "environment is required")
	})
}

func TestProvider_Discover(t *testing.T) {
	cfg := resources.ProviderConfig{
		Region:      "ap-northeast-1",
		Environment: "staging",
	}

	t.Run("substring filter and state backend routing", func(t *testing.T) {
		mockS3 := new(MockS3Client)
		ctx := context.Background()

		provider := NewProvider()
		provider.s3Client = mockS3

		output := &s3.ListBucketsOutput{
			Buckets: []s3types.Bucket{
				{Name: aws.String("myapp-staging-assets")},
				{Name: aws.String("myapp-production-assets")},
				{Name: aws.String("myapp-staging-tfstate")},
				{Name: aws.String("terraform-state-staging")},
			},
		}
		mockS3.On("ListBuckets", ctx, mock.Anything, mock.Anything).Return(output, nil)

		result, err := provider.Discover(ctx, cfg)
		require.NoError(t, err)

		expected := []resources.ImportRecord{
			{ResourceType: "aws_s3_bucket", ResourceName: "myapp-staging-assets", ResourceID: "myapp-staging-assets", ModuleAddress: "module.s3"},
			{ResourceType: "aws_s3_bucket", ResourceName: "myapp-staging-tfstate", ResourceID: "myapp-staging-tfstate", ModuleAddress: "module.tfstate-backend"},
			{ResourceType: "aws_s3_bucket", ResourceName: "terraform-state-staging", ResourceID: "terraform-state-staging", ModuleAddress: "module.tfstate-backend"},
		}
		assert.Equal(t, expected, result)
	})

	t.Run("case-insensitive match", func(t *testing.T) {
		mockS3 := new(MockS3Client)
		ctx := context.Background()

		provider := NewProvider()
		provider.s3Client = mockS3

		output := &s3.ListBucketsOutput{
			Buckets: []s3types.Bucket{
				{Name: aws.String("myapp-STAGING-logs")},
			},
		}
		mockS3.On("ListBuckets", ctx, mock.Anything, mock.Anything).Return(output, nil)

		result, err := provider.Discover(ctx, cfg)
		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, "myapp-STAGING-logs", result[0].ResourceID)
	})

	t.Run("API error propagates", func(t *testing.T) {
		mockS3 := new(MockS3Client)
		ctx := context.Background()

		provider := NewProvider()
		provider.s3Client = mockS3

		mockS3.On("ListBuckets", ctx, mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

		result, err := provider.Discover(ctx, cfg)
		assert.Error(t, err)
		assert.Nil(t, result)
	})
}

func TestIsStateBackendBucket(t *testing.T) {
	assert.True(t, isStateBackendBucket("myapp-staging-tfstate"))
	assert.True(t, isStateBackendBucket("company-terraform-state-staging"))
	assert.True(t, isStateBackendBucket("MyApp-TFState"))
	assert.False(t, isStateBackendBucket("myapp-staging-assets"))
}
