package aws

import (
	"github.com/yairfalse/awsres/internal/config"
	"github.com/yairfalse/awsres/internal/handler"
	"github.com/yairfalse/awsres/pkg/resource"
)

// Register installs the bucket, repository and Postgres handlers.
// Bucket and repository handlers share one account lookup.
func Register(reg *handler.Registry, c *Clients, cfg *config.Config) {
	accounts := &accountResolver{sts: c.STS}

	reg.Register(resource.TypeBucket, &bucketHandler{
		s3:       c.S3,
		cfg:      cfg.Bucket,
		accounts: accounts,
	})
	reg.Register(resource.TypeECR, &repositoryHandler{
		ecr:      c.ECR,
		cfg:      cfg.ECR,
		accounts: accounts,
	})
	reg.Register(resource.TypeRDSPostgres, &postgresHandler{
		rds:     c.RDS,
		secrets: c.SecretsManager,
		cfg:     cfg.RDS,
		secCfg:  cfg.Secrets,
	})
}
