package resource

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		in    string
		want  Type
		valid bool
	}{
		{"bucket", TypeBucket, true},
		{"ecr", TypeECR, true},
		{"rds-postgres", TypeRDSPostgres, true},
		{"rds-mysql", Type("rds-mysql"), false},
		{"", Type(""), false},
		{"Bucket", Type("Bucket"), false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseType(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.valid, ok)
		})
	}
}

func TestTypes_AllValid(t *testing.T) {
	for _, typ := range Types() {
		assert.True(t, typ.Valid(), typ)
	}
	assert.Len(t, Types(), 3)
}

func TestStatus_Benign(t *testing.T) {
	assert.True(t, StatusAlreadyExists.Benign())
	assert.True(t, StatusNotFound.Benign())
	assert.False(t, StatusCreated.Benign())
	assert.False(t, StatusFailed.Benign())
	assert.False(t, StatusUnknownType.Benign())
}

func TestRunResult_ExitCode(t *testing.T) {
	spec := Spec{Name: "a", Type: TypeBucket}

	t.Run("empty run", func(t *testing.T) {
		assert.Equal(t, 0, RunResult{}.ExitCode())
	})

	t.Run("unknown types alone do not fail", func(t *testing.T) {
		r := RunResult{Outcomes: []Outcome{
			{Name: "x", Type: "nope", Status: StatusUnknownType},
			Succeeded(spec, ActionCreate, StatusAlreadyExists),
		}}
		assert.Equal(t, 0, r.ExitCode())
		assert.Equal(t, 1, r.Unknown())
		assert.Equal(t, 2, r.Attempted())
	})

	t.Run("one failure fails the run", func(t *testing.T) {
		r := RunResult{Outcomes: []Outcome{
			Succeeded(spec, ActionCreate, StatusCreated),
			Failure(spec, ActionCreate, errors.New("boom")),
		}}
		assert.Equal(t, 1, r.ExitCode())
		assert.Equal(t, 1, r.Failures())
	})
}
