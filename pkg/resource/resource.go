// Package resource defines the inventory and outcome model for awsres.
package resource

import "time"

// Type is the resource kind tag from the inventory.
type Type string

const (
	TypeBucket      Type = "bucket"
	TypeECR         Type = "ecr"
	TypeRDSPostgres Type = "rds-postgres"
)

// Types returns every recognized type tag in a fixed order.
func Types() []Type {
	return []Type{TypeBucket, TypeECR, TypeRDSPostgres}
}

// ParseType maps an inventory tag onto a known Type.
func ParseType(s string) (Type, bool) {
	t := Type(s)
	return t, t.Valid()
}

// Valid reports whether t is one of the recognized tags.
func (t Type) Valid() bool {
	switch t {
	case TypeBucket, TypeECR, TypeRDSPostgres:
		return true
	default:
		return false
	}
}

// Spec is one named entry of the inventory.
// Type keeps the raw tag even when it is not recognized.
type Spec struct {
	Name      string `json:"name" yaml:"-"`
	Type      Type   `json:"type" yaml:"type"`
	Locations string `json:"locations,omitempty" yaml:"locations,omitempty"`
}

// Action selects the handler routine.
type Action string

const (
	ActionCreate Action = "create"
	ActionDelete Action = "delete"
)

// Status is the classified result of one handler call.
type Status string

const (
	StatusCreated       Status = "created"
	StatusDeleted       Status = "deleted"
	StatusAlreadyExists Status = "already_exists"
	StatusNotFound      Status = "not_found"
	StatusFailed        Status = "failed"
	StatusUnknownType   Status = "unknown_type"
)

// Benign reports whether the status is a tolerated "nothing to do".
func (s Status) Benign() bool {
	return s == StatusAlreadyExists || s == StatusNotFound
}

// Outcome is what a handler reports for a single resource.
type Outcome struct {
	Name     string        `json:"name"`
	Type     Type          `json:"type"`
	Action   Action        `json:"action"`
	Status   Status        `json:"status"`
	Err      error         `json:"-"`
	Duration time.Duration `json:"duration"`
}

// Failed reports whether the outcome should flip the run's exit code.
func (o Outcome) Failed() bool {
	return o.Status == StatusFailed
}

// Succeeded returns an outcome with the given status.
func Succeeded(spec Spec, action Action, status Status) Outcome {
	return Outcome{Name: spec.Name, Type: spec.Type, Action: action, Status: status}
}

// Failure returns a failed outcome carrying err.
func Failure(spec Spec, action Action, err error) Outcome {
	return Outcome{Name: spec.Name, Type: spec.Type, Action: action, Status: StatusFailed, Err: err}
}

// RunResult holds everything a dispatch run produced.
type RunResult struct {
	Action    Action
	Outcomes  []Outcome
	Cancelled bool
	Duration  time.Duration
}

// Attempted is the number of inventory entries that were dispatched.
func (r RunResult) Attempted() int {
	return len(r.Outcomes)
}

// Failures counts outcomes that failed.
func (r RunResult) Failures() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Failed() {
			n++
		}
	}
	return n
}

// Unknown counts entries whose type tag was not recognized.
func (r RunResult) Unknown() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == StatusUnknownType {
			n++
		}
	}
	return n
}

// ExitCode is 1 if any recognized resource failed, 0 otherwise.
func (r RunResult) ExitCode() int {
	if r.Failures() > 0 {
		return 1
	}
	return 0
}
