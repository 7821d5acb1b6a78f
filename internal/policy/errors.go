package policy

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownRole        = errors.New("unknown role")
	ErrMalformedResource  = errors.New("malformed resource")
	ErrMalformedActor     = errors.New("malformed actor")
	ErrUnknownOperation   = errors.New("unknown operation")
	ErrInvalidPermission  = errors.New("invalid permission key")
	ErrCommissionField    = errors.New("commission field not editable")
	ErrCommissionOrdering = errors.New("commission hierarchy violated")
	ErrCommissionRange    = errors.New("commission share out of range")
)

// UnknownRoleError signals a role value outside the seven defined tiers.
// It indicates bad data upstream and must reach the caller.
type UnknownRoleError struct {
	Value string
}

func (e *UnknownRoleError) Error() string {
	return fmt.Sprintf("unknown role %q", e.Value)
}

func (e *UnknownRoleError) Is(target error) bool {
	return target == ErrUnknownRole
}

// MalformedResourceError is returned when a resource lacks the fields needed to
// determine ownership.
type MalformedResourceError struct {
	Kind  string
	ID    string
	Field string
}

func (e *MalformedResourceError) Error() string {
	return fmt.Sprintf("malformed %s resource %q: missing %s", e.Kind, e.ID, e.Field)
}

func (e *MalformedResourceError) Is(target error) bool {
	return target == ErrMalformedResource
}
