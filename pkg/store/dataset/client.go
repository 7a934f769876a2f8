package dataset

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const DefaultRegion = "us-east-1"

type S3Settings struct {
	Region string
	// Endpoint points the client at an S3 compatible service; path-style addressing is used with it
	Endpoint string
}

// NewS3Client builds an S3 client from the default credential chain.
func NewS3Client(ctx context.Context, settings S3Settings) (*s3.Client, error) {
	region := settings.Region
	if region == "" {
		region = DefaultRegion
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithDefaultRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if settings.Endpoint != "" {
			o.BaseEndpoint = awssdk.String(settings.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}
