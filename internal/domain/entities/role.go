package entities

// Role determines the group an account belongs to, its profile type and its approval path
type Role string

const (
	RoleBuyer     Role = "buyer"
	RoleSeller    Role = "seller"
	RoleAgent     Role = "agent"
	RoleDeveloper Role = "developer"
	RoleAdmin     Role = "admin"
)

// RoleHierarchy lists roles from least to most privileged
var RoleHierarchy = []Role{RoleBuyer, RoleSeller, RoleAgent, RoleDeveloper, RoleAdmin}

var (
	instantAccessRoles    = map[Role]bool{RoleBuyer: true}
	approvalRequiredRoles = map[Role]bool{RoleSeller: true, RoleAgent: true, RoleDeveloper: true}
	selfServiceRoles      = map[Role]bool{RoleBuyer: true, RoleSeller: true, RoleAgent: true, RoleDeveloper: true}
)

var roleGroupNames = map[Role]string{
	RoleBuyer:     "Buyers",
	RoleSeller:    "Sellers",
	RoleAgent:     "Agents",
	RoleDeveloper: "Developers",
	RoleAdmin:     "Admins",
}

// ParseRole returns the role named by s
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	_, ok := roleGroupNames[r]
	return r, ok
}

// Valid reports whether r is one of the five roles
func (r Role) Valid() bool {
	_, ok := roleGroupNames[r]
	return ok
}

// RequiresApproval reports whether an admin must approve the account before it can use the platform
func (r Role) RequiresApproval() bool {
	return approvalRequiredRoles[r]
}

// IsInstantAccess reports whether the account is usable as soon as its email is verified
func (r Role) IsInstantAccess() bool {
	return instantAccessRoles[r]
}

// SelfService reports whether the role can be chosen at registration. Admins are invitation only.
func (r Role) SelfService() bool {
	return selfServiceRoles[r]
}

// GroupName is the name of the group backing the role
func (r Role) GroupName() string {
	return roleGroupNames[r]
}

// RoleForGroup maps a group name back to its role
func RoleForGroup(name string) (Role, bool) {
	for role, groupName := range roleGroupNames {
		if groupName == name {
			return role, true
		}
	}
	return "", false
}

// RoleFromGroups derives a role from group memberships.
// The most privileged matching group wins; no match means buyer.
func RoleFromGroups(groupNames []string) Role {
	resolved := RoleBuyer
	rank := -1
	for _, name := range groupNames {
		role, ok := RoleForGroup(name)
		if !ok {
			continue
		}
		for i, r := range RoleHierarchy {
			if r == role && i > rank {
				rank = i
				resolved = role
			}
		}
	}
	return resolved
}
