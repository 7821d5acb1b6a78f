package policy

import (
	"strconv"
	"strings"
)

// Role is a tier of the reseller hierarchy. Lower values are more privileged.
type Role int

const (
	RoleSuperAdmin Role = iota
	RoleAdmin
	RoleWhiteLabel
	RoleMasterDistributor
	RoleDistributor
	RoleRetailer
	RoleCustomer
)

// AllRoles is ordered from most to least privileged.
var AllRoles = []Role{
	RoleSuperAdmin,
	RoleAdmin,
	RoleWhiteLabel,
	RoleMasterDistributor,
	RoleDistributor,
	RoleRetailer,
	RoleCustomer,
}

var roleNames = map[Role]string{
	RoleSuperAdmin:        "superadmin",
	RoleAdmin:             "admin",
	RoleWhiteLabel:        "whitelabel",
	RoleMasterDistributor: "masterdistributor",
	RoleDistributor:       "distributor",
	RoleRetailer:          "retailer",
	RoleCustomer:          "customer",
}

var roleDisplayNames = map[Role]string{
	RoleSuperAdmin:        "Super Admin",
	RoleAdmin:             "Admin",
	RoleWhiteLabel:        "Whitelabel",
	RoleMasterDistributor: "Master Distributor",
	RoleDistributor:       "Distributor",
	RoleRetailer:          "Retailer",
	RoleCustomer:          "Customer",
}

// roleAliases maps every accepted spelling (after lowercasing) to its role.
var roleAliases = map[string]Role{
	"superadmin":         RoleSuperAdmin,
	"super_admin":        RoleSuperAdmin,
	"admin":              RoleAdmin,
	"whitelabel":         RoleWhiteLabel,
	"white_label":        RoleWhiteLabel,
	"masterdistributor":  RoleMasterDistributor,
	"master_distributor": RoleMasterDistributor,
	"mds":                RoleMasterDistributor,
	"distributor":        RoleDistributor,
	"retailer":           RoleRetailer,
	"customer":           RoleCustomer,
}

// ParseRole normalizes a role label coming from a session or a stored record.
// Unknown labels are an integrity error, never a least-privilege fallback.
func ParseRole(s string) (Role, error) {
	role, ok := roleAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, &UnknownRoleError{Value: s}
	}
	return role, nil
}

// Valid reports whether r is one of the seven defined roles.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// String returns the canonical lowercase name used in storage and permission keys.
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "Role(" + strconv.Itoa(int(r)) + ")"
}

// DisplayName returns the label shown in the console.
func (r Role) DisplayName() string {
	if name, ok := roleDisplayNames[r]; ok {
		return name
	}
	return r.String()
}

// LevelOf returns the numeric privilege level of role.
func LevelOf(role Role) (int, error) {
	if !role.Valid() {
		return 0, &UnknownRoleError{Value: role.String()}
	}
	return int(role), nil
}

// IsAncestor reports whether a sits strictly above b in the hierarchy.
func IsAncestor(a, b Role) (bool, error) {
	la, err := LevelOf(a)
	if err != nil {
		return false, err
	}
	lb, err := LevelOf(b)
	if err != nil {
		return false, err
	}
	return la < lb, nil
}

// ManageableRoles returns the roles strictly below role, most privileged first.
func ManageableRoles(role Role) ([]Role, error) {
	level, err := LevelOf(role)
	if err != nil {
		return nil, err
	}
	return append([]Role(nil), AllRoles[level+1:]...), nil
}
