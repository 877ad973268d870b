package entities

import (
	"time"

	"github.com/google/uuid"
)

// Group is the permission bucket backing a role
type Group struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Role        Role      `json:"role"`
	Description string    `json:"description"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasPermission reports whether the group grants codename
func (g *Group) HasPermission(codename string) bool {
	for _, p := range g.Permissions {
		if p == codename {
			return true
		}
	}
	return false
}

// GroupStats summarizes membership for the admin dashboard
type GroupStats struct {
	Name            string `json:"name"`
	Role            Role   `json:"role"`
	UserCount       int64  `json:"user_count"`
	PermissionCount int    `json:"permissions_count"`
}

// GroupSeed describes a group created at bootstrap
type GroupSeed struct {
	Role        Role
	Description string
	Permissions []string
}

var (
	propertyCRUD = []string{"add_property", "change_property", "delete_property", "view_property"}
	mediaCRUD    = []string{
		"add_propertyimage", "change_propertyimage", "delete_propertyimage",
		"add_propertyvideo", "change_propertyvideo", "delete_propertyvideo",
		"add_virtualtour", "change_virtualtour", "delete_virtualtour",
	}
	projectCRUD = []string{
		"add_project", "change_project", "delete_project", "view_project",
		"add_projectphase", "change_projectphase", "delete_projectphase", "view_projectphase",
		"add_projectdocument", "change_projectdocument", "delete_projectdocument", "view_projectdocument",
	}
	adminExtras = []string{
		"add_customuser", "change_customuser", "delete_customuser", "view_customuser",
		"add_group", "change_group", "delete_group", "view_group",
		"approve_customuser", "change_usertype",
	}
)

func concat(parts ...[]string) []string {
	var out []string
	seen := map[string]bool{}
	for _, p := range parts {
		for _, s := range p {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

// DefaultGroups returns the five groups and their permission codenames
func DefaultGroups() []GroupSeed {
	buyer := []string{
		"view_property",
		"add_propertyinquiry", "view_propertyinquiry",
		"add_propertyfavorite", "view_propertyfavorite", "delete_propertyfavorite",
		"add_propertyreview", "view_propertyreview",
	}
	seller := concat(propertyCRUD, []string{"view_propertyinquiry"}, mediaCRUD)
	agent := concat(seller, []string{"change_propertyinquiry", "view_customuser"})
	developer := concat(seller, projectCRUD)
	admin := concat(buyer, agent, developer, adminExtras)

	return []GroupSeed{
		{Role: RoleBuyer, Description: "Property buyers and renters", Permissions: buyer},
		{Role: RoleSeller, Description: "Individual property owners", Permissions: seller},
		{Role: RoleAgent, Description: "Licensed real estate agents", Permissions: agent},
		{Role: RoleDeveloper, Description: "Real estate development companies", Permissions: developer},
		{Role: RoleAdmin, Description: "Platform administrators", Permissions: admin},
	}
}
