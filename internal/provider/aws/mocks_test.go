package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// calls records operation names in order.
type calls []string

func (c *calls) add(name string) { *c = append(*c, name) }

type mockS3Client struct {
	calls
	CreateBucketFunc    func(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	PutBucketPolicyFunc func(ctx context.Context, params *s3.PutBucketPolicyInput, optFns ...func(*s3.Options)) (*s3.PutBucketPolicyOutput, error)
	HeadBucketFunc      func(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	ListObjectsV2Func   func(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObjectsFunc   func(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
	DeleteBucketFunc    func(ctx context.Context, params *s3.DeleteBucketInput, optFns ...func(*s3.Options)) (*s3.DeleteBucketOutput, error)
}

func (m *mockS3Client) CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	m.add("CreateBucket")
	if m.CreateBucketFunc == nil {
		return &s3.CreateBucketOutput{}, nil
	}
	return m.CreateBucketFunc(ctx, params, optFns...)
}

func (m *mockS3Client) PutBucketPolicy(ctx context.Context, params *s3.PutBucketPolicyInput, optFns ...func(*s3.Options)) (*s3.PutBucketPolicyOutput, error) {
	m.add("PutBucketPolicy")
	if m.PutBucketPolicyFunc == nil {
		return &s3.PutBucketPolicyOutput{}, nil
	}
	return m.PutBucketPolicyFunc(ctx, params, optFns...)
}

func (m *mockS3Client) HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	m.add("HeadBucket")
	if m.HeadBucketFunc == nil {
		return &s3.HeadBucketOutput{}, nil
	}
	return m.HeadBucketFunc(ctx, params, optFns...)
}

func (m *mockS3Client) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	m.add("ListObjectsV2")
	if m.ListObjectsV2Func == nil {
		return &s3.ListObjectsV2Output{}, nil
	}
	return m.ListObjectsV2Func(ctx, params, optFns...)
}

func (m *mockS3Client) DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
	m.add("DeleteObjects")
	if m.DeleteObjectsFunc == nil {
		return &s3.DeleteObjectsOutput{}, nil
	}
	return m.DeleteObjectsFunc(ctx, params, optFns...)
}

func (m *mockS3Client) DeleteBucket(ctx context.Context, params *s3.DeleteBucketInput, optFns ...func(*s3.Options)) (*s3.DeleteBucketOutput, error) {
	m.add("DeleteBucket")
	if m.DeleteBucketFunc == nil {
		return &s3.DeleteBucketOutput{}, nil
	}
	return m.DeleteBucketFunc(ctx, params, optFns...)
}

type mockECRClient struct {
	calls
	CreateRepositoryFunc     func(ctx context.Context, params *ecr.CreateRepositoryInput, optFns ...func(*ecr.Options)) (*ecr.CreateRepositoryOutput, error)
	SetRepositoryPolicyFunc  func(ctx context.Context, params *ecr.SetRepositoryPolicyInput, optFns ...func(*ecr.Options)) (*ecr.SetRepositoryPolicyOutput, error)
	DescribeRepositoriesFunc func(ctx context.Context, params *ecr.DescribeRepositoriesInput, optFns ...func(*ecr.Options)) (*ecr.DescribeRepositoriesOutput, error)
	DeleteRepositoryFunc     func(ctx context.Context, params *ecr.DeleteRepositoryInput, optFns ...func(*ecr.Options)) (*ecr.DeleteRepositoryOutput, error)
}

func (m *mockECRClient) CreateRepository(ctx context.Context, params *ecr.CreateRepositoryInput, optFns ...func(*ecr.Options)) (*ecr.CreateRepositoryOutput, error) {
	m.add("CreateRepository")
	if m.CreateRepositoryFunc == nil {
		return &ecr.CreateRepositoryOutput{}, nil
	}
	return m.CreateRepositoryFunc(ctx, params, optFns...)
}

func (m *mockECRClient) SetRepositoryPolicy(ctx context.Context, params *ecr.SetRepositoryPolicyInput, optFns ...func(*ecr.Options)) (*ecr.SetRepositoryPolicyOutput, error) {
	m.add("SetRepositoryPolicy")
	if m.SetRepositoryPolicyFunc == nil {
		return &ecr.SetRepositoryPolicyOutput{}, nil
	}
	return m.SetRepositoryPolicyFunc(ctx, params, optFns...)
}

func (m *mockECRClient) DescribeRepositories(ctx context.Context, params *ecr.DescribeRepositoriesInput, optFns ...func(*ecr.Options)) (*ecr.DescribeRepositoriesOutput, error) {
	m.add("DescribeRepositories")
	if m.DescribeRepositoriesFunc == nil {
		return &ecr.DescribeRepositoriesOutput{}, nil
	}
	return m.DescribeRepositoriesFunc(ctx, params, optFns...)
}

func (m *mockECRClient) DeleteRepository(ctx context.Context, params *ecr.DeleteRepositoryInput, optFns ...func(*ecr.Options)) (*ecr.DeleteRepositoryOutput, error) {
	m.add("DeleteRepository")
	if m.DeleteRepositoryFunc == nil {
		return &ecr.DeleteRepositoryOutput{}, nil
	}
	return m.DeleteRepositoryFunc(ctx, params, optFns...)
}

type mockRDSClient struct {
	calls
	CreateDBInstanceFunc    func(ctx context.Context, params *rds.CreateDBInstanceInput, optFns ...func(*rds.Options)) (*rds.CreateDBInstanceOutput, error)
	DescribeDBInstancesFunc func(ctx context.Context, params *rds.DescribeDBInstancesInput, optFns ...func(*rds.Options)) (*rds.DescribeDBInstancesOutput, error)
	DeleteDBInstanceFunc    func(ctx context.Context, params *rds.DeleteDBInstanceInput, optFns ...func(*rds.Options)) (*rds.DeleteDBInstanceOutput, error)
}

func (m *mockRDSClient) CreateDBInstance(ctx context.Context, params *rds.CreateDBInstanceInput, optFns ...func(*rds.Options)) (*rds.CreateDBInstanceOutput, error) {
	m.add("CreateDBInstance")
	if m.CreateDBInstanceFunc == nil {
		return &rds.CreateDBInstanceOutput{}, nil
	}
	return m.CreateDBInstanceFunc(ctx, params, optFns...)
}

func (m *mockRDSClient) DescribeDBInstances(ctx context.Context, params *rds.DescribeDBInstancesInput, optFns ...func(*rds.Options)) (*rds.DescribeDBInstancesOutput, error) {
	m.add("DescribeDBInstances")
	if m.DescribeDBInstancesFunc == nil {
		return &rds.DescribeDBInstancesOutput{}, nil
	}
	return m.DescribeDBInstancesFunc(ctx, params, optFns...)
}

func (m *mockRDSClient) DeleteDBInstance(ctx context.Context, params *rds.DeleteDBInstanceInput, optFns ...func(*rds.Options)) (*rds.DeleteDBInstanceOutput, error) {
	m.add("DeleteDBInstance")
	if m.DeleteDBInstanceFunc == nil {
		return &rds.DeleteDBInstanceOutput{}, nil
	}
	return m.DeleteDBInstanceFunc(ctx, params, optFns...)
}

type mockSecretsClient struct {
	calls
	GetRandomPasswordFunc func(ctx context.Context, params *secretsmanager.GetRandomPasswordInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetRandomPasswordOutput, error)
	CreateSecretFunc      func(ctx context.Context, params *secretsmanager.CreateSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.CreateSecretOutput, error)
	GetSecretValueFunc    func(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
	DeleteSecretFunc      func(ctx context.Context, params *secretsmanager.DeleteSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.DeleteSecretOutput, error)
	DescribeSecretFunc    func(ctx context.Context, params *secretsmanager.DescribeSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.DescribeSecretOutput, error)
}

func (m *mockSecretsClient) GetRandomPassword(ctx context.Context, params *secretsmanager.GetRandomPasswordInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetRandomPasswordOutput, error) {
	m.add("GetRandomPassword")
	if m.GetRandomPasswordFunc == nil {
		return &secretsmanager.GetRandomPasswordOutput{RandomPassword: aws.String("s3cr3tP4ssw0rd!!")}, nil
	}
	return m.GetRandomPasswordFunc(ctx, params, optFns...)
}

func (m *mockSecretsClient) CreateSecret(ctx context.Context, params *secretsmanager.CreateSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.CreateSecretOutput, error) {
	m.add("CreateSecret")
	if m.CreateSecretFunc == nil {
		return &secretsmanager.CreateSecretOutput{}, nil
	}
	return m.CreateSecretFunc(ctx, params, optFns...)
}

func (m *mockSecretsClient) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	m.add("GetSecretValue")
	if m.GetSecretValueFunc == nil {
		return &secretsmanager.GetSecretValueOutput{}, nil
	}
	return m.GetSecretValueFunc(ctx, params, optFns...)
}

func (m *mockSecretsClient) DeleteSecret(ctx context.Context, params *secretsmanager.DeleteSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.DeleteSecretOutput, error) {
	m.add("DeleteSecret")
	if m.DeleteSecretFunc == nil {
		return &secretsmanager.DeleteSecretOutput{}, nil
	}
	return m.DeleteSecretFunc(ctx, params, optFns...)
}

func (m *mockSecretsClient) DescribeSecret(ctx context.Context, params *secretsmanager.DescribeSecretInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.DescribeSecretOutput, error) {
	m.add("DescribeSecret")
	if m.DescribeSecretFunc == nil {
		return &secretsmanager.DescribeSecretOutput{}, nil
	}
	return m.DescribeSecretFunc(ctx, params, optFns...)
}

type mockSTSClient struct {
	calls
	account string
	err     error
}

func (m *mockSTSClient) GetCallerIdentity(_ context.Context, _ *sts.GetCallerIdentityInput, _ ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	m.add("GetCallerIdentity")
	if m.err != nil {
		return nil, m.err
	}
	return &sts.GetCallerIdentityOutput{Account: aws.String(m.account)}, nil
}
