package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	for _, r := range RoleHierarchy {
		got, ok := ParseRole(string(r))
		assert.True(t, ok, r)
		assert.Equal(t, r, got)
	}
	_, ok := ParseRole("tenant")
	assert.False(t, ok)
	assert.False(t, Role("").Valid())
}

func TestRole_ApprovalSets(t *testing.T) {
	assert.True(t, RoleBuyer.IsInstantAccess())
	assert.False(t, RoleBuyer.RequiresApproval())
	for _, r := range []Role{RoleSeller, RoleAgent, RoleDeveloper} {
		assert.True(t, r.RequiresApproval(), r)
		assert.False(t, r.IsInstantAccess(), r)
		assert.True(t, r.SelfService(), r)
	}
	assert.False(t, RoleAdmin.RequiresApproval())
	assert.False(t, RoleAdmin.IsInstantAccess())
	assert.False(t, RoleAdmin.SelfService())
}

func TestRoleForGroup(t *testing.T) {
	r, ok := RoleForGroup("Agents")
	assert.True(t, ok)
	assert.Equal(t, RoleAgent, r)
	assert.Equal(t, "Developers", RoleDeveloper.GroupName())

	_, ok = RoleForGroup("Staff")
	assert.False(t, ok)
}

func TestRoleFromGroups(t *testing.T) {
	tests := []struct {
		name   string
		groups []string
		want   Role
	}{
		{"no groups", nil, RoleBuyer},
		{"unknown only", []string{"Staff"}, RoleBuyer},
		{"single", []string{"Sellers"}, RoleSeller},
		{"highest wins", []string{"Agents", "Buyers", "Developers"}, RoleDeveloper},
		{"admin beats all", []string{"Sellers", "Admins"}, RoleAdmin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoleFromGroups(tt.groups))
		})
	}
}
