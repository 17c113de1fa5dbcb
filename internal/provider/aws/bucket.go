package aws

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog/log"

	"github.com/yairfalse/awsres/internal/config"
	"github.com/yairfalse/awsres/pkg/resource"
)

// defaultS3Region is the region S3 rejects as an explicit LocationConstraint.
const defaultS3Region = "us-east-1"

// ErrMissingLocations is returned for a bucket entry without `locations`.
var ErrMissingLocations = errors.New("bucket entry has no locations")

// bucketHandler creates and deletes S3 buckets.
type bucketHandler struct {
	s3       S3API
	cfg      config.BucketConfig
	accounts *accountResolver
}

// Create makes the bucket in spec.Locations and attaches the access policy.
// An existing bucket owned by the caller is left untouched.
func (h *bucketHandler) Create(ctx context.Context, spec resource.Spec) resource.Outcome {
	if spec.Locations == "" {
		return resource.Failure(spec, resource.ActionCreate, ErrMissingLocations)
	}

	logger := log.With().Ctx(ctx).Str("bucket", spec.Name).Str("location", spec.Locations).Logger()
	logger.Debug().Msg("creating bucket")

	// us-east-1 answers CreateBucket on a bucket the caller already owns
	// with a plain success, so existence has to be checked up front.
	if spec.Locations == defaultS3Region {
		_, err := h.s3.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(spec.Name)}, inRegion(spec.Locations)...)
		if classify(err) == classOK {
			logger.Debug().Msg("bucket already exists")
			return resource.Succeeded(spec, resource.ActionCreate, resource.StatusAlreadyExists)
		}
	}

	input := &s3.CreateBucketInput{Bucket: aws.String(spec.Name)}
	if spec.Locations != defaultS3Region {
		input.CreateBucketConfiguration = &s3types.CreateBucketConfiguration{
			LocationConstraint: s3types.BucketLocationConstraint(spec.Locations),
		}
	}

	_, err := h.s3.CreateBucket(ctx, input, inRegion(spec.Locations)...)
	switch classify(err) {
	case classOK:
	case classExists:
		logger.Debug().Msg("bucket already exists")
		return resource.Succeeded(spec, resource.ActionCreate, resource.StatusAlreadyExists)
	default:
		return resource.Failure(spec, resource.ActionCreate, fmt.Errorf("create bucket: %w", err))
	}

	if !h.cfg.AttachPolicy {
		return resource.Succeeded(spec, resource.ActionCreate, resource.StatusCreated)
	}

	principals, err := h.accounts.principals(ctx, h.cfg.PolicyPrincipals)
	if err != nil {
		return resource.Failure(spec, resource.ActionCreate, fmt.Errorf("bucket policy principals: %w", err))
	}
	policy, err := BucketPolicy(spec.Name, principals)
	if err != nil {
		return resource.Failure(spec, resource.ActionCreate, err)
	}
	logger.Debug().Str("policy", policy).Msg("attaching bucket policy")

	_, err = h.s3.PutBucketPolicy(ctx, &s3.PutBucketPolicyInput{
		Bucket: aws.String(spec.Name),
		Policy: aws.String(policy),
	}, inRegion(spec.Locations)...)
	if err != nil {
		return resource.Failure(spec, resource.ActionCreate, fmt.Errorf("put bucket policy: %w", err))
	}

	return resource.Succeeded(spec, resource.ActionCreate, resource.StatusCreated)
}

// Delete empties the bucket and removes it.
func (h *bucketHandler) Delete(ctx context.Context, spec resource.Spec) resource.Outcome {
	logger := log.With().Ctx(ctx).Str("bucket", spec.Name).Logger()
	logger.Debug().Msg("deleting bucket")
	opts := inRegion(spec.Locations)

	_, err := h.s3.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(spec.Name)}, opts...)
	switch classify(err) {
	case classOK:
	case classMissing:
		return resource.Succeeded(spec, resource.ActionDelete, resource.StatusNotFound)
	default:
		return resource.Failure(spec, resource.ActionDelete, fmt.Errorf("head bucket: %w", err))
	}

	removed, err := h.empty(ctx, spec.Name, opts)
	if err != nil {
		return resource.Failure(spec, resource.ActionDelete, err)
	}
	logger.Debug().Int("objects", removed).Msg("bucket emptied")

	_, err = h.s3.DeleteBucket(ctx, &s3.DeleteBucketInput{Bucket: aws.String(spec.Name)}, opts...)
	switch classify(err) {
	case classOK:
		return resource.Succeeded(spec, resource.ActionDelete, resource.StatusDeleted)
	case classMissing:
		return resource.Succeeded(spec, resource.ActionDelete, resource.StatusNotFound)
	default:
		return resource.Failure(spec, resource.ActionDelete, fmt.Errorf("delete bucket: %w", err))
	}
}

// empty deletes every object in the bucket, one listing page at a time.
func (h *bucketHandler) empty(ctx context.Context, bucket string, opts []func(*s3.Options)) (int, error) {
	paginator := s3.NewListObjectsV2Paginator(h.s3, &s3.ListObjectsV2Input{Bucket: aws.String(bucket)})

	removed := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx, opts...)
		if err != nil {
			return removed, fmt.Errorf("list objects: %w", err)
		}
		if len(page.Contents) == 0 {
			continue
		}

		ids := make([]s3types.ObjectIdentifier, 0, len(page.Contents))
		for _, obj := range page.Contents {
			ids = append(ids, s3types.ObjectIdentifier{Key: obj.Key})
		}

		out, err := h.s3.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(bucket),
			Delete: &s3types.Delete{Objects: ids, Quiet: aws.Bool(true)},
		}, opts...)
		if err != nil {
			return removed, fmt.Errorf("delete objects: %w", err)
		}
		if len(out.Errors) > 0 {
			first := out.Errors[0]
			return removed, fmt.Errorf("delete objects: %d failed, first %s: %s",
				len(out.Errors), aws.ToString(first.Key), aws.ToString(first.Message))
		}
		removed += len(ids)
	}

	return removed, nil
}

// inRegion routes a call to the bucket's region.
func inRegion(region string) []func(*s3.Options) {
	if region == "" {
		return nil
	}
	return []func(*s3.Options){func(o *s3.Options) { o.Region = region }}
}
