package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	"github.com/rs/zerolog/log"

	"github.com/yairfalse/awsres/internal/config"
	"github.com/yairfalse/awsres/pkg/resource"
)

// repositoryHandler creates and deletes ECR repositories.
type repositoryHandler struct {
	ecr      ECRAPI
	cfg      config.ECRConfig
	accounts *accountResolver
}

// Create makes the repository and attaches the repository policy.
func (h *repositoryHandler) Create(ctx context.Context, spec resource.Spec) resource.Outcome {
	logger := log.With().Ctx(ctx).Str("repository", spec.Name).Logger()
	logger.Debug().Msg("creating repository")

	out, err := h.ecr.CreateRepository(ctx, &ecr.CreateRepositoryInput{
		RepositoryName: aws.String(spec.Name),
	})
	switch classify(err) {
	case classOK:
	case classExists:
		logger.Debug().Msg("repository already exists")
		return resource.Succeeded(spec, resource.ActionCreate, resource.StatusAlreadyExists)
	default:
		return resource.Failure(spec, resource.ActionCreate, fmt.Errorf("create repository: %w", err))
	}

	registryID, name := "", spec.Name
	if out.Repository != nil {
		registryID = aws.ToString(out.Repository.RegistryId)
		name = aws.ToString(out.Repository.RepositoryName)
		logger.Debug().
			Str("registry_id", registryID).
			Str("uri", aws.ToString(out.Repository.RepositoryUri)).
			Msg("repository created")
	}

	if !h.cfg.AttachPolicy {
		return resource.Succeeded(spec, resource.ActionCreate, resource.StatusCreated)
	}

	principals, err := h.accounts.principals(ctx, h.cfg.PolicyPrincipals)
	if err != nil {
		return resource.Failure(spec, resource.ActionCreate, fmt.Errorf("repository policy principals: %w", err))
	}
	policy, err := RepositoryPolicy(principals)
	if err != nil {
		return resource.Failure(spec, resource.ActionCreate, err)
	}
	logger.Debug().Str("policy", policy).Msg("attaching repository policy")

	input := &ecr.SetRepositoryPolicyInput{
		RepositoryName: aws.String(name),
		PolicyText:     aws.String(policy),
	}
	if registryID != "" {
		input.RegistryId = aws.String(registryID)
	}
	if _, err := h.ecr.SetRepositoryPolicy(ctx, input); err != nil {
		return resource.Failure(spec, resource.ActionCreate, fmt.Errorf("set repository policy: %w", err))
	}

	return resource.Succeeded(spec, resource.ActionCreate, resource.StatusCreated)
}

// Delete removes the repository. With force_delete the registry drops
// the images along with it.
func (h *repositoryHandler) Delete(ctx context.Context, spec resource.Spec) resource.Outcome {
	log.Debug().Ctx(ctx).Str("repository", spec.Name).Msg("deleting repository")

	_, err := h.ecr.DescribeRepositories(ctx, &ecr.DescribeRepositoriesInput{
		RepositoryNames: []string{spec.Name},
	})
	switch classify(err) {
	case classOK:
	case classMissing:
		return resource.Succeeded(spec, resource.ActionDelete, resource.StatusNotFound)
	default:
		return resource.Failure(spec, resource.ActionDelete, fmt.Errorf("describe repository: %w", err))
	}

	_, err = h.ecr.DeleteRepository(ctx, &ecr.DeleteRepositoryInput{
		RepositoryName: aws.String(spec.Name),
		Force:          h.cfg.ForceDelete,
	})
	switch classify(err) {
	case classOK:
		return resource.Succeeded(spec, resource.ActionDelete, resource.StatusDeleted)
	case classMissing:
		return resource.Succeeded(spec, resource.ActionDelete, resource.StatusNotFound)
	default:
		return resource.Failure(spec, resource.ActionDelete, fmt.Errorf("delete repository: %w", err))
	}
}
