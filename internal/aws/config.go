package aws

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

const defaultRegion = "us-east-1"

// Settings controls how the shared AWS config is loaded.
type Settings struct {
	Region string
	// EndpointOverride points every client at a single endpoint (LocalStack).
	EndpointOverride string
}

// LoadAWSConfig loads the default credential chain for the configured region.
func LoadAWSConfig(ctx context.Context, s Settings) (sdkaws.Config, error) {
	region := s.Region
	if region == "" {
		region = defaultRegion
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return cfg, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if s.EndpointOverride != "" {
		cfg.BaseEndpoint = sdkaws.String(s.EndpointOverride)
	}

	return cfg, nil
}
