package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"realestate.backend/internal/domain/entities"
	domainerrors "realestate.backend/internal/domain/errors"
	"realestate.backend/internal/infrastructure/models"
	"realestate.backend/pkg/utils"
)

// ProfileRepository implements role profile storage, one table per role
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create inserts a profile into its role table
func (r *ProfileRepository) Create(ctx context.Context, profile *entities.Profile) error {
	if profile.ID == uuid.Nil {
		profile.ID = utils.GenerateUUIDv7()
	}
	now := time.Now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	m, err := toProfileModel(profile)
	if err != nil {
		return err
	}
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetByAccount loads the account's profile of the given role
func (r *ProfileRepository) GetByAccount(ctx context.Context, accountID uuid.UUID, role entities.Role) (*entities.Profile, error) {
	m, err := newProfileModel(role)
	if err != nil {
		return nil, err
	}
	if err := GetDB(ctx, r.db).Where("account_id = ?", accountID).First(m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toProfileEntity(m)
}

// Update rewrites every column of the profile
func (r *ProfileRepository) Update(ctx context.Context, profile *entities.Profile) error {
	profile.UpdatedAt = time.Now()
	m, err := toProfileModel(profile)
	if err != nil {
		return err
	}
	result := GetDB(ctx, r.db).Model(m).Where("id = ?", profile.ID).Select("*").Omit("id", "account_id", "created_at").Updates(m)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func newProfileModel(role entities.Role) (interface{}, error) {
	switch role {
	case entities.RoleBuyer:
		return &models.BuyerProfile{}, nil
	case entities.RoleSeller:
		return &models.SellerProfile{}, nil
	case entities.RoleAgent:
		return &models.AgentProfile{}, nil
	case entities.RoleDeveloper:
		return &models.DeveloperProfile{}, nil
	case entities.RoleAdmin:
		return &models.AdminProfile{}, nil
	}
	return nil, fmt.Errorf("unknown profile role %q", role)
}

func toProfileBase(p *entities.Profile) models.ProfileBase {
	return models.ProfileBase{
		ID:                          p.ID,
		AccountID:                   p.AccountID,
		ProfileCompletionPercentage: p.CompletionPercent,
		DocumentsUploaded:           p.DocumentsUploaded,
		VerificationStatus:          string(p.VerificationStatus),
		VerificationNotes:           p.VerificationNotes.Ptr(),
		VerifiedBy:                  p.VerifiedBy,
		VerifiedAt:                  p.VerifiedAt.Ptr(),
		CreatedAt:                   p.CreatedAt,
		UpdatedAt:                   p.UpdatedAt,
	}
}

func fromProfileBase(b models.ProfileBase, role entities.Role, details entities.ProfileDetails) *entities.Profile {
	return &entities.Profile{
		ID:                 b.ID,
		AccountID:          b.AccountID,
		Role:               role,
		CompletionPercent:  b.ProfileCompletionPercentage,
		DocumentsUploaded:  b.DocumentsUploaded,
		VerificationStatus: entities.VerificationStatus(b.VerificationStatus),
		VerificationNotes:  null.StringFromPtr(b.VerificationNotes),
		VerifiedBy:         b.VerifiedBy,
		VerifiedAt:         null.TimeFromPtr(b.VerifiedAt),
		Details:            details,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

func toProfileModel(p *entities.Profile) (interface{}, error) {
	base := toProfileBase(p)
	switch d := p.Details.(type) {
	case *entities.BuyerDetails:
		types, err := jsonList(d.PreferredPropertyTypes)
		if err != nil {
			return nil, err
		}
		amenities, err := jsonList(d.PreferredAmenities)
		if err != nil {
			return nil, err
		}
		return &models.BuyerProfile{
			ProfileBase:            base,
			DateOfBirth:            d.DateOfBirth,
			PreferredLocation:      d.PreferredLocation,
			BudgetMin:              d.BudgetMin,
			BudgetMax:              d.BudgetMax,
			InterestedInBuying:     d.InterestedInBuying,
			InterestedInRenting:    d.InterestedInRenting,
			PreferredPropertyTypes: types,
			MinBedrooms:            d.MinBedrooms,
			PreferredAmenities:     amenities,
			EmailNotifications:     d.EmailNotifications,
			SMSNotifications:       d.SMSNotifications,
		}, nil
	case *entities.SellerDetails:
		return &models.SellerProfile{
			ProfileBase:            base,
			CompanyName:            d.CompanyName,
			GSTNumber:              d.GSTNumber,
			IdentityDocument:       d.IdentityDocument,
			AddressProof:           d.AddressProof,
			PropertyOwnershipProof: d.PropertyOwnershipProof,
			YearsInBusiness:        d.YearsInBusiness,
			PreferredContactTime:   d.PreferredContactTime,
		}, nil
	case *entities.AgentDetails:
		areas, err := jsonList(d.ServiceAreas)
		if err != nil {
			return nil, err
		}
		return &models.AgentProfile{
			ProfileBase:         base,
			LicenseNumber:       d.LicenseNumber,
			ExperienceYears:     d.ExperienceYears,
			Specialization:      d.Specialization,
			AgencyName:          d.AgencyName,
			AgencyAddress:       d.AgencyAddress,
			LicenseDocument:     d.LicenseDocument,
			IdentityDocument:    d.IdentityDocument,
			AgencyAuthorization: d.AgencyAuthorization,
			ServiceAreas:        areas,
		}, nil
	case *entities.DeveloperDetails:
		projectTypes, err := jsonList(d.ProjectTypes)
		if err != nil {
			return nil, err
		}
		locations, err := jsonList(d.ServiceLocations)
		if err != nil {
			return nil, err
		}
		return &models.DeveloperProfile{
			ProfileBase:                    base,
			CompanyName:                    d.CompanyName,
			CompanyType:                    d.CompanyType,
			RegistrationNumber:             d.RegistrationNumber,
			EstablishedYear:                d.EstablishedYear,
			CompanyAddress:                 d.CompanyAddress,
			CompanyPhone:                   d.CompanyPhone,
			CompanyEmail:                   d.CompanyEmail,
			PANNumber:                      d.PANNumber,
			GSTNumber:                      d.GSTNumber,
			CompanyRegistrationCertificate: d.CompanyRegistrationCertificate,
			PANCard:                        d.PANCard,
			GSTCertificate:                 d.GSTCertificate,
			FinancialStatements:            d.FinancialStatements,
			RERARegistration:               d.RERARegistration,
			ProjectTypes:                   projectTypes,
			ServiceLocations:               locations,
		}, nil
	case *entities.AdminDetails:
		return &models.AdminProfile{
			ProfileBase: base,
			Department:  d.Department,
			Designation: d.Designation,
			OfficePhone: d.OfficePhone,
		}, nil
	}
	return nil, fmt.Errorf("unsupported profile details %T", p.Details)
}

func toProfileEntity(m interface{}) (*entities.Profile, error) {
	switch v := m.(type) {
	case *models.BuyerProfile:
		d := &entities.BuyerDetails{
			DateOfBirth:         v.DateOfBirth,
			PreferredLocation:   v.PreferredLocation,
			BudgetMin:           v.BudgetMin,
			BudgetMax:           v.BudgetMax,
			InterestedInBuying:  v.InterestedInBuying,
			InterestedInRenting: v.InterestedInRenting,
			MinBedrooms:         v.MinBedrooms,
			EmailNotifications:  v.EmailNotifications,
			SMSNotifications:    v.SMSNotifications,
		}
		if err := parseList(v.PreferredPropertyTypes, &d.PreferredPropertyTypes); err != nil {
			return nil, err
		}
		if err := parseList(v.PreferredAmenities, &d.PreferredAmenities); err != nil {
			return nil, err
		}
		return fromProfileBase(v.ProfileBase, entities.RoleBuyer, d), nil
	case *models.SellerProfile:
		return fromProfileBase(v.ProfileBase, entities.RoleSeller, &entities.SellerDetails{
			CompanyName:            v.CompanyName,
			GSTNumber:              v.GSTNumber,
			IdentityDocument:       v.IdentityDocument,
			AddressProof:           v.AddressProof,
			PropertyOwnershipProof: v.PropertyOwnershipProof,
			YearsInBusiness:        v.YearsInBusiness,
			PreferredContactTime:   v.PreferredContactTime,
		}), nil
	case *models.AgentProfile:
		d := &entities.AgentDetails{
			LicenseNumber:       v.LicenseNumber,
			ExperienceYears:     v.ExperienceYears,
			Specialization:      v.Specialization,
			AgencyName:          v.AgencyName,
			AgencyAddress:       v.AgencyAddress,
			LicenseDocument:     v.LicenseDocument,
			IdentityDocument:    v.IdentityDocument,
			AgencyAuthorization: v.AgencyAuthorization,
		}
		if err := parseList(v.ServiceAreas, &d.ServiceAreas); err != nil {
			return nil, err
		}
		return fromProfileBase(v.ProfileBase, entities.RoleAgent, d), nil
	case *models.DeveloperProfile:
		d := &entities.DeveloperDetails{
			CompanyName:                    v.CompanyName,
			CompanyType:                    v.CompanyType,
			RegistrationNumber:             v.RegistrationNumber,
			EstablishedYear:                v.EstablishedYear,
			CompanyAddress:                 v.CompanyAddress,
			CompanyPhone:                   v.CompanyPhone,
			CompanyEmail:                   v.CompanyEmail,
			PANNumber:                      v.PANNumber,
			GSTNumber:                      v.GSTNumber,
			CompanyRegistrationCertificate: v.CompanyRegistrationCertificate,
			PANCard:                        v.PANCard,
			GSTCertificate:                 v.GSTCertificate,
			FinancialStatements:            v.FinancialStatements,
			RERARegistration:               v.RERARegistration,
		}
		if err := parseList(v.ProjectTypes, &d.ProjectTypes); err != nil {
			return nil, err
		}
		if err := parseList(v.ServiceLocations, &d.ServiceLocations); err != nil {
			return nil, err
		}
		return fromProfileBase(v.ProfileBase, entities.RoleDeveloper, d), nil
	case *models.AdminProfile:
		return fromProfileBase(v.ProfileBase, entities.RoleAdmin, &entities.AdminDetails{
			Department:  v.Department,
			Designation: v.Designation,
			OfficePhone: v.OfficePhone,
		}), nil
	}
	return nil, fmt.Errorf("unsupported profile model %T", m)
}

func jsonList(items []string) (datatypes.JSON, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func parseList(raw datatypes.JSON, out *[]string) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}
