package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"realestate.backend/internal/domain/entities"
	domainerrors "realestate.backend/internal/domain/errors"
)

func intPtr(v int) *int { return &v }

func TestProfileRepository_RoundTripPerRole(t *testing.T) {
	db := newMigratedDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()
	dob := time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)
	budgetMin, budgetMax := 100000.0, 250000.0

	cases := []struct {
		role    entities.Role
		details entities.ProfileDetails
		check   func(t *testing.T, d entities.ProfileDetails)
	}{
		{
			role: entities.RoleBuyer,
			details: &entities.BuyerDetails{
				DateOfBirth: &dob, PreferredLocation: "Pune", BudgetMin: &budgetMin, BudgetMax: &budgetMax,
				InterestedInBuying: true, PreferredPropertyTypes: []string{"apartment", "villa"}, MinBedrooms: intPtr(2),
				PreferredAmenities: []string{"gym"}, EmailNotifications: true,
			},
			check: func(t *testing.T, d entities.ProfileDetails) {
				b := d.(*entities.BuyerDetails)
				require.Equal(t, "Pune", b.PreferredLocation)
				require.Equal(t, []string{"apartment", "villa"}, b.PreferredPropertyTypes)
				require.Equal(t, 2, *b.MinBedrooms)
				require.True(t, b.InterestedInBuying)
				require.True(t, b.EmailNotifications)
				require.InDelta(t, budgetMax, *b.BudgetMax, 0.01)
			},
		},
		{
			role:    entities.RoleSeller,
			details: &entities.SellerDetails{IdentityDocument: "docs/id.pdf", AddressProof: "docs/addr.pdf", GSTNumber: "27ABCDE1234F1Z5", YearsInBusiness: intPtr(4)},
			check: func(t *testing.T, d entities.ProfileDetails) {
				s := d.(*entities.SellerDetails)
				require.Equal(t, "27ABCDE1234F1Z5", s.GSTNumber)
				require.True(t, s.DocumentsComplete())
			},
		},
		{
			role:    entities.RoleAgent,
			details: &entities.AgentDetails{LicenseNumber: "LIC-9", ServiceAreas: []string{"Andheri", "Bandra"}, ExperienceYears: intPtr(7)},
			check: func(t *testing.T, d entities.ProfileDetails) {
				a := d.(*entities.AgentDetails)
				require.Equal(t, "LIC-9", a.LicenseNumber)
				require.Equal(t, []string{"Andheri", "Bandra"}, a.ServiceAreas)
			},
		},
		{
			role:    entities.RoleDeveloper,
			details: &entities.DeveloperDetails{CompanyName: "Skyline", PANNumber: "ABCDE1234F", RERARegistration: "P5170000", ProjectTypes: []string{"residential"}},
			check: func(t *testing.T, d entities.ProfileDetails) {
				dev := d.(*entities.DeveloperDetails)
				require.Equal(t, "ABCDE1234F", dev.PANNumber)
				require.Equal(t, "P5170000", dev.RERARegistration)
				require.Equal(t, []string{"residential"}, dev.ProjectTypes)
				require.Empty(t, dev.ServiceLocations)
			},
		},
		{
			role:    entities.RoleAdmin,
			details: &entities.AdminDetails{Department: "Ops", Designation: "Lead"},
			check: func(t *testing.T, d entities.ProfileDetails) {
				require.Equal(t, "Ops", d.(*entities.AdminDetails).Department)
			},
		},
	}

	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			p := entities.NewProfile(uuid.New(), tc.role)
			p.Details = tc.details
			p.Recalculate(&entities.Account{FirstName: "A", LastName: "B"})
			require.NoError(t, repo.Create(ctx, p))

			got, err := repo.GetByAccount(ctx, p.AccountID, tc.role)
			require.NoError(t, err)
			require.Equal(t, p.ID, got.ID)
			require.Equal(t, tc.role, got.Role)
			require.Equal(t, p.CompletionPercent, got.CompletionPercent)
			require.Equal(t, p.DocumentsUploaded, got.DocumentsUploaded)
			require.Equal(t, p.VerificationStatus, got.VerificationStatus)
			tc.check(t, got.Details)
		})
	}
}

func TestProfileRepository_UpdateAndErrors(t *testing.T) {
	db := newMigratedDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()
	accountID := uuid.New()

	p := entities.NewProfile(accountID, entities.RoleAgent)
	require.NoError(t, repo.Create(ctx, p))
	require.ErrorIs(t, repo.Create(ctx, entities.NewProfile(accountID, entities.RoleAgent)), domainerrors.ErrAlreadyExists)

	admin := uuid.New()
	p.Details.(*entities.AgentDetails).AgencyName = "Prime Realty"
	p.VerificationStatus = entities.VerificationVerified
	p.VerifiedBy = &admin
	p.VerifiedAt = null.TimeFrom(time.Now())
	p.DocumentsUploaded = true
	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.GetByAccount(ctx, accountID, entities.RoleAgent)
	require.NoError(t, err)
	require.Equal(t, "Prime Realty", got.Details.(*entities.AgentDetails).AgencyName)
	require.Equal(t, entities.VerificationVerified, got.VerificationStatus)
	require.Equal(t, admin, *got.VerifiedBy)
	require.True(t, got.DocumentsUploaded)

	p.DocumentsUploaded = false
	require.NoError(t, repo.Update(ctx, p))
	got, err = repo.GetByAccount(ctx, accountID, entities.RoleAgent)
	require.NoError(t, err)
	require.False(t, got.DocumentsUploaded, "zero values must be written too")

	_, err = repo.GetByAccount(ctx, accountID, entities.RoleSeller)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = repo.GetByAccount(ctx, accountID, entities.Role("landlord"))
	require.Error(t, err)

	missing := entities.NewProfile(uuid.New(), entities.RoleBuyer)
	missing.ID = uuid.New()
	require.ErrorIs(t, repo.Update(ctx, missing), domainerrors.ErrNotFound)
}
