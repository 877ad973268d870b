package entities

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProfile(t *testing.T) {
	id := uuid.New()

	buyer := NewProfile(id, RoleBuyer)
	assert.Equal(t, id, buyer.AccountID)
	assert.IsType(t, &BuyerDetails{}, buyer.Details)
	assert.Empty(t, buyer.VerificationStatus)

	agent := NewProfile(id, RoleAgent)
	assert.IsType(t, &AgentDetails{}, agent.Details)
	assert.Equal(t, VerificationPending, agent.VerificationStatus)

	assert.IsType(t, &SellerDetails{}, NewProfileDetails(RoleSeller))
	assert.IsType(t, &DeveloperDetails{}, NewProfileDetails(RoleDeveloper))
	assert.IsType(t, &AdminDetails{}, NewProfileDetails(RoleAdmin))
	assert.IsType(t, &BuyerDetails{}, NewProfileDetails(Role("tenant")))
}

func TestProfile_SellerCompletion(t *testing.T) {
	a := &Account{FirstName: "Ana", LastName: "Lopez", Phone: "5550199"}
	p := NewProfile(uuid.New(), RoleSeller)

	p.Recalculate(a)
	assert.Equal(t, 37, p.CompletionPercent)
	assert.False(t, p.DocumentsUploaded)
	assert.False(t, p.ReadyForReview())

	require.NoError(t, p.MergeDetails(json.RawMessage(`{"identity_document":"id.pdf","address_proof":"bill.pdf"}`)))
	p.Recalculate(a)
	assert.Equal(t, 62, p.CompletionPercent)
	assert.True(t, p.DocumentsUploaded)
	assert.False(t, p.ReadyForReview())

	require.NoError(t, p.MergeDetails(json.RawMessage(`{"property_ownership_proof":"deed.pdf","company_name":"Lopez Homes","preferred_contact_time":"mornings"}`)))
	p.Recalculate(a)
	assert.Equal(t, 100, p.CompletionPercent)
	assert.True(t, p.ReadyForReview())

	details := p.Details.(*SellerDetails)
	assert.Equal(t, "id.pdf", details.IdentityDocument)
}

func TestProfile_DocumentRules(t *testing.T) {
	agent := &AgentDetails{LicenseDocument: "lic.pdf"}
	assert.False(t, agent.DocumentsComplete())
	agent.IdentityDocument = "id.pdf"
	assert.True(t, agent.DocumentsComplete())

	dev := &DeveloperDetails{CompanyRegistrationCertificate: "c.pdf", PANCard: "pan.pdf"}
	assert.False(t, dev.DocumentsComplete())
	dev.GSTCertificate = "gst.pdf"
	assert.True(t, dev.DocumentsComplete())

	assert.True(t, (&BuyerDetails{}).DocumentsComplete())
	assert.True(t, (&AdminDetails{}).DocumentsComplete())
}

func TestProfile_MergeDetails(t *testing.T) {
	p := NewProfile(uuid.New(), RoleBuyer)
	assert.NoError(t, p.MergeDetails(nil))
	assert.Error(t, p.MergeDetails(json.RawMessage(`"oops"`)))

	require.NoError(t, p.MergeDetails(json.RawMessage(`{"preferred_location":"Austin","interested_in_renting":true}`)))
	require.NoError(t, p.MergeDetails(json.RawMessage(`{"min_bedrooms":2}`)))
	d := p.Details.(*BuyerDetails)
	assert.Equal(t, "Austin", d.PreferredLocation)
	assert.True(t, d.InterestedInRenting)
	require.NotNil(t, d.MinBedrooms)
	assert.Equal(t, 2, *d.MinBedrooms)
}

func TestDefaultGroups(t *testing.T) {
	seeds := DefaultGroups()
	require.Len(t, seeds, len(RoleHierarchy))

	perms := map[Role][]string{}
	for _, s := range seeds {
		perms[s.Role] = s.Permissions
	}
	assert.NotContains(t, perms[RoleBuyer], "add_property")
	assert.Contains(t, perms[RoleSeller], "add_property")
	assert.Contains(t, perms[RoleAgent], "change_propertyinquiry")
	assert.Contains(t, perms[RoleDeveloper], "add_project")
	assert.Contains(t, perms[RoleAdmin], "approve_customuser")
	assert.Contains(t, perms[RoleAdmin], "view_property")

	g := &Group{Permissions: perms[RoleAdmin]}
	assert.True(t, g.HasPermission("change_usertype"))
	assert.False(t, g.HasPermission("fly"))

	seen := map[string]bool{}
	for _, p := range perms[RoleAdmin] {
		assert.False(t, seen[p], p)
		seen[p] = true
	}
}
