// Package mainconfig builds the AWS SDK configuration shared by the binaries
// that reach Bedrock.
package mainconfig

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	appconfig "github.com/wolfman30/caretaker-ai/internal/config"
)

// LoadAWSConfig resolves region and credentials for the Bedrock gateway.
// Static keys win over the default chain when both are set, and
// AWS_ENDPOINT_OVERRIDE redirects bedrock-runtime only (LocalStack, VPC
// endpoints).
func LoadAWSConfig(ctx context.Context, cfg *appconfig.Config) (aws.Config, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOptions(cfg)...)
	if err != nil {
		return aws.Config{}, err
	}
	if endpoint := strings.TrimSpace(cfg.AWSEndpointOverride); endpoint != "" {
		awsCfg.EndpointResolverWithOptions = bedrockEndpoint(endpoint, cfg.AWSRegion)
	}
	return awsCfg, nil
}

func loadOptions(cfg *appconfig.Config) []func(*config.LoadOptions) error {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.AWSRegion)}
	keyID := strings.TrimSpace(cfg.AWSAccessKeyID)
	secret := strings.TrimSpace(cfg.AWSSecretAccessKey)
	if keyID != "" && secret != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(keyID, secret, ""),
		))
	}
	return opts
}

// bedrockEndpoint sends bedrock-runtime to url; every other service falls
// through to the SDK's own resolution.
func bedrockEndpoint(url, signingRegion string) aws.EndpointResolverWithOptions {
	return aws.EndpointResolverWithOptionsFunc(func(service, _ string, _ ...interface{}) (aws.Endpoint, error) {
		if service != bedrockruntime.ServiceID {
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		}
		return aws.Endpoint{
			URL:               url,
			PartitionID:       "aws",
			SigningRegion:     signingRegion,
			HostnameImmutable: true,
		}, nil
	})
}
