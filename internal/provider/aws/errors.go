package aws

import (
	"errors"

	"github.com/aws/smithy-go"
)

// errClass is how a handler should treat an SDK error.
type errClass int

const (
	classOK errClass = iota
	classExists
	classMissing
	classFailed
)

func (c errClass) String() string {
	switch c {
	case classOK:
		return "ok"
	case classExists:
		return "exists"
	case classMissing:
		return "missing"
	default:
		return "failed"
	}
}

// existsCodes are the service error codes meaning the resource is already there.
var existsCodes = map[string]bool{
	"BucketAlreadyOwnedByYou":          true,
	"RepositoryAlreadyExistsException": true,
	"DBInstanceAlreadyExists":          true,
	"ResourceExistsException":          true,
}

// missingCodes are the service error codes meaning the resource is gone.
var missingCodes = map[string]bool{
	"NotFound":                    true,
	"NoSuchBucket":                true,
	"RepositoryNotFoundException": true,
	"DBInstanceNotFound":          true,
	"ResourceNotFoundException":   true,
}

// classify maps an SDK error onto an errClass.
// BucketAlreadyExists (owned by another account) stays a failure.
func classify(err error) errClass {
	if err == nil {
		return classOK
	}

	code := errorCode(err)
	switch {
	case existsCodes[code]:
		return classExists
	case missingCodes[code]:
		return classMissing
	default:
		return classFailed
	}
}

// errorCode returns the service error code, or "" for non-API errors.
func errorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
