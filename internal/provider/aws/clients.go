// Package aws implements the bucket, repository and Postgres handlers on AWS SDK v2.
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/rs/zerolog/log"
)

// Clients is the set of service clients shared by every handler for the
// lifetime of a run. Building it makes no network calls.
type Clients struct {
	S3             S3API
	ECR            ECRAPI
	RDS            RDSAPI
	SecretsManager SecretsManagerAPI
	STS            STSAPI
}

// NewClients builds the bundle from one loaded SDK config.
func NewClients(cfg aws.Config) *Clients {
	return &Clients{
		S3:             s3.NewFromConfig(cfg),
		ECR:            ecr.NewFromConfig(cfg),
		RDS:            rds.NewFromConfig(cfg),
		SecretsManager: secretsmanager.NewFromConfig(cfg),
		STS:            sts.NewFromConfig(cfg),
	}
}

type options struct {
	profile string
	region  string
}

// Option customizes how the SDK config is loaded.
type Option func(*options)

// WithProfile selects a shared config profile.
func WithProfile(profile string) Option {
	return func(o *options) { o.profile = profile }
}

// WithRegion overrides the region from the environment chain.
func WithRegion(region string) Option {
	return func(o *options) { o.region = region }
}

// LoadAWSConfig loads SDK config from the default chain (env, shared
// config, IMDS) with optional overrides.
func LoadAWSConfig(ctx context.Context, opts ...Option) (aws.Config, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var loadOpts []func(*config.LoadOptions) error
	if o.profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(o.profile))
	}
	if o.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}

	log.Debug().
		Str("region", cfg.Region).
		Str("profile", o.profile).
		Msg("aws config loaded")
	return cfg, nil
}
