package policy

import (
	"fmt"
	"sort"
)

// Commission holds a scheme's commission share per role, keyed by canonical
// role name.
type Commission map[string]float64

const (
	minCommissionShare = 0
	maxCommissionShare = 100
)

var (
	allCommissionFields = []Role{
		RoleSuperAdmin,
		RoleAdmin,
		RoleWhiteLabel,
		RoleMasterDistributor,
		RoleDistributor,
		RoleRetailer,
		RoleCustomer,
	}

	editableCommissionFields = map[Role][]Role{
		RoleSuperAdmin: allCommissionFields,
		RoleAdmin:      allCommissionFields,
		RoleWhiteLabel: {RoleMasterDistributor, RoleDistributor, RoleRetailer, RoleCustomer},
	}
)

// EditableCommissionFields returns the commission fields a member of role may change.
func EditableCommissionFields(role Role) ([]Role, error) {
	if _, err := LevelOf(role); err != nil {
		return nil, err
	}
	return append([]Role(nil), editableCommissionFields[role]...), nil
}

// CanEditCommissionField reports whether role may change the share of field.
func CanEditCommissionField(role Role, field Role) (bool, error) {
	fields, err := EditableCommissionFields(role)
	if err != nil {
		return false, err
	}
	for _, f := range fields {
		if f == field {
			return true, nil
		}
	}
	return false, nil
}

// ValidateCommissionHierarchy checks that every share is between 0 and 100 and
// that no role below admin earns more than its parent tier. Missing fields
// count as zero.
func ValidateCommissionHierarchy(c Commission) error {
	if unknown := nonCanonicalKeys(c); len(unknown) > 0 {
		return &UnknownRoleError{Value: unknown[0]}
	}
	if err := c.checkRange(); err != nil {
		return err
	}
	chain := AllRoles[1:]
	for i := 0; i < len(chain)-1; i++ {
		parent, child := c[chain[i].String()], c[chain[i+1].String()]
		if parent < child {
			return fmt.Errorf("%w: %s (%g) < %s (%g)", ErrCommissionOrdering,
				chain[i], parent, chain[i+1], child)
		}
	}
	return nil
}

// CheckCommissionChange verifies that every field differing between current
// and next is editable by role. Stored keys outside the canonical names (legacy
// aliases) count as fields too, so they cannot be dropped silently.
func CheckCommissionChange(role Role, current, next Commission) error {
	if err := next.checkRange(); err != nil {
		return err
	}

	for _, field := range allCommissionFields {
		name := field.String()
		if current[name] == next[name] {
			continue
		}
		ok, err := CanEditCommissionField(role, field)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s may not change %s", ErrCommissionField, role, name)
		}
	}

	for _, key := range nonCanonicalKeys(current, next) {
		currentShare, inCurrent := current[key]
		nextShare, inNext := next[key]
		if inCurrent == inNext && currentShare == nextShare {
			continue
		}
		ok, err := canEditNonCanonicalField(role, key)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s may not change %s", ErrCommissionField, role, key)
		}
	}
	return nil
}

// canEditNonCanonicalField resolves alias keys such as "mds" to their role.
// Keys naming no role at all are only editable by roles that may edit every field.
func canEditNonCanonicalField(role Role, key string) (bool, error) {
	if field, err := ParseRole(key); err == nil {
		return CanEditCommissionField(role, field)
	}
	fields, err := EditableCommissionFields(role)
	if err != nil {
		return false, err
	}
	return len(fields) == len(allCommissionFields), nil
}

func (c Commission) checkRange() error {
	keys := make([]string, 0, len(c))
	for key := range c {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		share := c[key]
		if !(share >= minCommissionShare && share <= maxCommissionShare) {
			return fmt.Errorf("%w: %s (%g) must be between %d and %d", ErrCommissionRange,
				key, share, minCommissionShare, maxCommissionShare)
		}
	}
	return nil
}

func nonCanonicalKeys(commissions ...Commission) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, c := range commissions {
		for key := range c {
			if seen[key] {
				continue
			}
			seen[key] = true
			if role, err := ParseRole(key); err == nil && role.String() == key {
				continue
			}
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
