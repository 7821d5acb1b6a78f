// Package policy decides which member of the reseller hierarchy may act on
// which scheme or member record.
//
// Evaluate is a pure function: it keeps no state between calls and is safe to
// use from any number of goroutines.
package policy

import (
	"fmt"
	"strings"
)

type Operation string

const (
	OperationRead             Operation = "read"
	OperationUpdate           Operation = "update"
	OperationDelete           Operation = "delete"
	OperationManageCommission Operation = "manage_commission"
)

// Operations lists every operation in the order affordances are reported.
var Operations = []Operation{
	OperationRead,
	OperationUpdate,
	OperationDelete,
	OperationManageCommission,
}

func (o Operation) Valid() bool {
	switch o {
	case OperationRead, OperationUpdate, OperationDelete, OperationManageCommission:
		return true
	}
	return false
}

// Kind names the type of record being accessed. It prefixes permission keys.
type Kind string

const (
	KindScheme Kind = "scheme"
	KindMember Kind = "member"
)

func (k Kind) Valid() bool {
	return k == KindScheme || k == KindMember
}

// PermissionKey builds the capability string required to perform op on a
// record of the given kind through delegation, e.g. "scheme:update".
func PermissionKey(kind Kind, op Operation) string {
	return string(kind) + ":" + string(op)
}

// ParsePermissionKey splits and validates a key of the form "kind:operation".
func ParsePermissionKey(key string) (Kind, Operation, error) {
	kind, op, ok := strings.Cut(key, ":")
	if !ok || !Kind(kind).Valid() || !Operation(op).Valid() {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidPermission, key)
	}
	return Kind(kind), Operation(op), nil
}

// PermissionSet is an explicit allow-list of permission keys.
type PermissionSet map[string]struct{}

func NewPermissionSet(keys ...string) PermissionSet {
	set := make(PermissionSet, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

func (s PermissionSet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Actor is the authenticated principal performing an action.
type Actor struct {
	ID          string
	Role        Role
	Permissions PermissionSet
}

// Resource is an owned scheme or member record. OwnerRole must come from the
// owner's current record, not from a label cached by a client.
type Resource struct {
	Kind      Kind
	ID        string
	OwnerID   string
	CreatorID string
	OwnerRole Role
}

type Reason string

const (
	ReasonSuperAdmin Reason = "superadmin_bypass"
	ReasonOwner      Reason = "owner"
	ReasonCreator    Reason = "creator"
	ReasonDelegated  Reason = "delegated"

	ReasonNotAncestor       Reason = "not_ancestor"
	ReasonMissingPermission Reason = "missing_permission"
)

// Decision is the outcome of one evaluation. A deny is a normal result, not an error.
type Decision struct {
	Allowed bool
	Reason  Reason
}

func permit(r Reason) Decision { return Decision{Allowed: true, Reason: r} }
func deny(r Reason) Decision   { return Decision{Allowed: false, Reason: r} }

// Evaluate decides whether actor may perform op on resource. Rules are applied
// in order and the first match wins:
//
//  1. a SuperAdmin is always permitted
//  2. the owner is always permitted
//  3. the creator is always permitted
//  4. an ancestor of the owner's role is permitted if it holds the permission
//     key for (resource.Kind, op)
//
// Anything else is denied. Invalid roles or missing ownership fields are
// returned as errors and never folded into a deny.
func Evaluate(actor Actor, resource Resource, op Operation) (Decision, error) {
	if err := validate(actor, resource, op); err != nil {
		return Decision{}, err
	}

	if actor.Role == RoleSuperAdmin {
		return permit(ReasonSuperAdmin), nil
	}
	if actor.ID == resource.OwnerID {
		return permit(ReasonOwner), nil
	}
	if resource.CreatorID != "" && actor.ID == resource.CreatorID {
		return permit(ReasonCreator), nil
	}

	ancestor, err := IsAncestor(actor.Role, resource.OwnerRole)
	if err != nil {
		return Decision{}, err
	}
	if !ancestor {
		return deny(ReasonNotAncestor), nil
	}
	if !actor.Permissions.Has(PermissionKey(resource.Kind, op)) {
		return deny(ReasonMissingPermission), nil
	}
	return permit(ReasonDelegated), nil
}

func validate(actor Actor, resource Resource, op Operation) error {
	if !op.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}
	if actor.ID == "" {
		return fmt.Errorf("%w: missing id", ErrMalformedActor)
	}
	if _, err := LevelOf(actor.Role); err != nil {
		return fmt.Errorf("actor %s: %w", actor.ID, err)
	}
	if !resource.Kind.Valid() {
		return &MalformedResourceError{Kind: string(resource.Kind), ID: resource.ID, Field: "kind"}
	}
	if resource.OwnerID == "" {
		return &MalformedResourceError{Kind: string(resource.Kind), ID: resource.ID, Field: "owner id"}
	}
	if _, err := LevelOf(resource.OwnerRole); err != nil {
		return fmt.Errorf("owner of %s %s: %w", resource.Kind, resource.ID, err)
	}
	return nil
}
