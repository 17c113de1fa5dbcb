package aws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

const policyVersion = "2012-10-17"

// repositoryActions is the action set granted on every repository.
var repositoryActions = []string{
	"ecr:BatchCheckLayerAvailability",
	"ecr:BatchDeleteImage",
	"ecr:BatchGetImage",
	"ecr:CompleteLayerUpload",
	"ecr:DeleteRepository",
	"ecr:DeleteRepositoryPolicy",
	"ecr:DescribeRepositories",
	"ecr:GetDownloadUrlForLayer",
	"ecr:GetRepositoryPolicy",
	"ecr:InitiateLayerUpload",
	"ecr:ListImages",
	"ecr:PutImage",
	"ecr:SetRepositoryPolicy",
	"ecr:UploadLayerPart",
}

type policyDocument struct {
	Version   string            `json:"Version"`
	Statement []policyStatement `json:"Statement"`
}

type policyStatement struct {
	Sid       string          `json:"Sid"`
	Effect    string          `json:"Effect"`
	Principal policyPrincipal `json:"Principal"`
	Action    any             `json:"Action"`
	Resource  []string        `json:"Resource,omitempty"`
}

type policyPrincipal struct {
	AWS []string `json:"AWS"`
}

// BucketPolicy grants principals full access to the bucket and its objects.
func BucketPolicy(bucket string, principals []string) (string, error) {
	return render(policyDocument{
		Version: policyVersion,
		Statement: []policyStatement{{
			Sid:       "Application",
			Effect:    "Allow",
			Principal: policyPrincipal{AWS: principals},
			Action:    "s3:*",
			Resource: []string{
				"arn:aws:s3:::" + bucket,
				"arn:aws:s3:::" + bucket + "/*",
			},
		}},
	})
}

// RepositoryPolicy grants principals push, pull and admin on a repository.
func RepositoryPolicy(principals []string) (string, error) {
	return render(policyDocument{
		Version: policyVersion,
		Statement: []policyStatement{{
			Sid:       "full",
			Effect:    "Allow",
			Principal: policyPrincipal{AWS: principals},
			Action:    repositoryActions,
		}},
	})
}

func render(doc policyDocument) (string, error) {
	if len(doc.Statement) == 0 || len(doc.Statement[0].Principal.AWS) == 0 {
		return "", errors.New("policy has no principals")
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal policy: %w", err)
	}
	return string(b), nil
}

// accountResolver looks up the caller's account once and remembers it.
// Runs are single-threaded, so no locking.
type accountResolver struct {
	sts STSAPI
	id  string
}

// principals returns the configured principals, or the caller's account
// root when none are configured.
func (a *accountResolver) principals(ctx context.Context, configured []string) ([]string, error) {
	if len(configured) > 0 {
		return configured, nil
	}

	id, err := a.accountID(ctx)
	if err != nil {
		return nil, err
	}
	return []string{"arn:aws:iam::" + id + ":root"}, nil
}

func (a *accountResolver) accountID(ctx context.Context) (string, error) {
	if a.id != "" {
		return a.id, nil
	}

	out, err := a.sts.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("get caller identity: %w", err)
	}
	if aws.ToString(out.Account) == "" {
		return "", errors.New("get caller identity: empty account")
	}

	a.id = aws.ToString(out.Account)
	return a.id, nil
}
