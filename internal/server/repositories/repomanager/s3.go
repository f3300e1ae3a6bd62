package repomanager

import (
	"context"
	"fmt"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/accounts"
)

// loadDefaultAWSConfig is a seam for tests.
var loadDefaultAWSConfig = config.LoadDefaultConfig

// newS3Client builds a client for opts. Static credentials are used when
// both keys are set, otherwise the default AWS chain applies. A base
// endpoint switches to path-style addressing for MinIO and friends.
func newS3Client(ctx context.Context, opts Options) (*s3.Client, error) {
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(opts.S3Region),
	}
	if opts.S3AccessKey != "" && opts.S3SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.S3AccessKey, opts.S3SecretKey, ""),
		))
	}

	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(opts.S3BaseEndpoint)
			o.UsePathStyle = true
		}
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	}), nil
}

func openS3(ctx context.Context, opts Options, u *url.URL) (accounts.Repository, error) {
	if u.Host == "" {
		return nil, fmt.Errorf("s3 dsn needs a bucket: s3://bucket/prefix")
	}

	client, err := newS3Client(ctx, opts)
	if err != nil {
		return nil, err
	}
	return accounts.NewS3Repository(client, u.Host, u.Path), nil
}
