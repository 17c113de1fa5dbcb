package handler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yairfalse/awsres/pkg/resource"
)

type nopHandler struct{}

func (nopHandler) Create(_ context.Context, spec resource.Spec) resource.Outcome {
	return resource.Succeeded(spec, resource.ActionCreate, resource.StatusCreated)
}

func (nopHandler) Delete(_ context.Context, spec resource.Spec) resource.Outcome {
	return resource.Succeeded(spec, resource.ActionDelete, resource.StatusDeleted)
}

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry()
	r.Register(resource.TypeECR, nopHandler{})
	r.Register(resource.TypeBucket, nopHandler{})

	h, ok := r.Get(resource.TypeBucket)
	require.True(t, ok)
	assert.NotNil(t, h)

	_, ok = r.Get(resource.TypeRDSPostgres)
	assert.False(t, ok)
}

func TestRegistry_Validate(t *testing.T) {
	r := NewRegistry()
	r.Register(resource.TypeBucket, nopHandler{})
	r.Register(resource.TypeECR, nopHandler{})

	err := r.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rds-postgres")

	r.Register(resource.TypeRDSPostgres, nopHandler{})
	require.NoError(t, r.Validate())
}
