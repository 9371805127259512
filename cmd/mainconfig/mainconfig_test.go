package mainconfig

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	appconfig "github.com/wolfman30/caretaker-ai/internal/config"
)

func TestLoadAWSConfigEndpointOverride(t *testing.T) {
	cfg := &appconfig.Config{
		AWSRegion:           "us-east-1",
		AWSAccessKeyID:      "test",
		AWSSecretAccessKey:  "test",
		AWSEndpointOverride: "http://localhost:4566",
	}
	awsCfg, err := LoadAWSConfig(context.Background(), cfg)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if awsCfg.Region != "us-east-1" {
		t.Fatalf("expected region us-east-1, got %q", awsCfg.Region)
	}

	ep, err := awsCfg.EndpointResolverWithOptions.ResolveEndpoint(bedrockruntime.ServiceID, "us-east-1")
	if err != nil {
		t.Fatalf("resolve bedrock endpoint: %v", err)
	}
	if ep.URL != "http://localhost:4566" {
		t.Fatalf("expected override URL, got %q", ep.URL)
	}
	if _, err := awsCfg.EndpointResolverWithOptions.ResolveEndpoint("S3", "us-east-1"); err == nil {
		t.Fatalf("expected other services to fall through")
	}

	creds, err := awsCfg.Credentials.Retrieve(context.Background())
	if err != nil {
		t.Fatalf("retrieve credentials: %v", err)
	}
	if creds.AccessKeyID != "test" {
		t.Fatalf("expected static credentials, got %q", creds.AccessKeyID)
	}
}

func TestLoadOptionsStaticCredentialsNeedBothParts(t *testing.T) {
	if got := len(loadOptions(&appconfig.Config{AWSRegion: "us-west-2", AWSAccessKeyID: "only-id"})); got != 1 {
		t.Fatalf("expected region option only, got %d options", got)
	}
	if got := len(loadOptions(&appconfig.Config{AWSRegion: "us-west-2", AWSAccessKeyID: "id", AWSSecretAccessKey: "secret"})); got != 2 {
		t.Fatalf("expected region and credentials options, got %d", got)
	}
}

func TestLoadAWSConfigWithoutOverrideKeepsSDKResolution(t *testing.T) {
	awsCfg, err := LoadAWSConfig(context.Background(), &appconfig.Config{
		AWSRegion:          "us-east-1",
		AWSAccessKeyID:     "test",
		AWSSecretAccessKey: "test",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if awsCfg.EndpointResolverWithOptions != nil {
		t.Fatalf("expected no custom endpoint resolver")
	}
}
