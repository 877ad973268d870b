package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// VerificationStatus tracks admin review of a role profile
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationInReview VerificationStatus = "in_review"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// ProfileDetails holds the role specific part of a profile
type ProfileDetails interface {
	// Checklist reports, per required field, whether it is filled in
	Checklist(a *Account) []bool
	// DocumentsComplete reports whether the role's minimum document set is present
	DocumentsComplete() bool
}

// Profile is the 1:1 role profile of an account
type Profile struct {
	ID                 uuid.UUID          `json:"id"`
	AccountID          uuid.UUID          `json:"user_id"`
	Role               Role               `json:"user_type"`
	CompletionPercent  int                `json:"profile_completion_percentage"`
	DocumentsUploaded  bool               `json:"documents_uploaded"`
	VerificationStatus VerificationStatus `json:"verification_status,omitempty"`
	VerificationNotes  null.String        `json:"verification_notes"`
	VerifiedBy         *uuid.UUID         `json:"verified_by,omitempty"`
	VerifiedAt         null.Time          `json:"verified_at"`
	Details            ProfileDetails     `json:"details"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// NewProfile builds an empty profile of the given role
func NewProfile(accountID uuid.UUID, role Role) *Profile {
	p := &Profile{
		AccountID: accountID,
		Role:      role,
		Details:   NewProfileDetails(role),
	}
	if role.RequiresApproval() {
		p.VerificationStatus = VerificationPending
	}
	return p
}

// NewProfileDetails returns the zero details value of a role
func NewProfileDetails(role Role) ProfileDetails {
	switch role {
	case RoleSeller:
		return &SellerDetails{}
	case RoleAgent:
		return &AgentDetails{}
	case RoleDeveloper:
		return &DeveloperDetails{}
	case RoleAdmin:
		return &AdminDetails{}
	default:
		return &BuyerDetails{}
	}
}

// Recalculate refreshes the completion percentage and documents flag
func (p *Profile) Recalculate(a *Account) {
	p.CompletionPercent = completionPercent(p.Details.Checklist(a))
	p.DocumentsUploaded = p.Details.DocumentsComplete()
}

// ReadyForReview reports whether the profile satisfies the submission preconditions
func (p *Profile) ReadyForReview() bool {
	return p.CompletionPercent >= 100 && p.DocumentsUploaded
}

// MergeDetails overlays a partial JSON document onto the current details
func (p *Profile) MergeDetails(raw json.RawMessage) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, p.Details)
}

func completionPercent(checks []bool) int {
	if len(checks) == 0 {
		return 0
	}
	done := 0
	for _, ok := range checks {
		if ok {
			done++
		}
	}
	return done * 100 / len(checks)
}

func filled(s string) bool { return s != "" }

// BuyerDetails are preferences of a buyer or renter
type BuyerDetails struct {
	DateOfBirth            *time.Time `json:"date_of_birth,omitempty"`
	PreferredLocation      string     `json:"preferred_location"`
	BudgetMin              *float64   `json:"budget_min,omitempty"`
	BudgetMax              *float64   `json:"budget_max,omitempty"`
	InterestedInBuying     bool       `json:"interested_in_buying"`
	InterestedInRenting    bool       `json:"interested_in_renting"`
	PreferredPropertyTypes []string   `json:"preferred_property_types"`
	MinBedrooms            *int       `json:"min_bedrooms,omitempty"`
	PreferredAmenities     []string   `json:"preferred_amenities"`
	EmailNotifications     bool       `json:"email_notifications"`
	SMSNotifications       bool       `json:"sms_notifications"`
}

func (d *BuyerDetails) Checklist(a *Account) []bool {
	return []bool{
		filled(a.FirstName),
		filled(a.LastName),
		filled(a.Phone),
		filled(d.PreferredLocation),
		d.BudgetMin != nil && d.BudgetMax != nil,
		d.DateOfBirth != nil,
		d.InterestedInBuying || d.InterestedInRenting,
		len(d.PreferredPropertyTypes) > 0,
		d.MinBedrooms != nil,
		len(d.PreferredAmenities) > 0,
	}
}

func (d *BuyerDetails) DocumentsComplete() bool { return true }

// SellerDetails are the ownership documents of an individual seller
type SellerDetails struct {
	CompanyName            string `json:"company_name"`
	GSTNumber              string `json:"gst_number"`
	IdentityDocument       string `json:"identity_document"`
	AddressProof           string `json:"address_proof"`
	PropertyOwnershipProof string `json:"property_ownership_proof"`
	YearsInBusiness        *int   `json:"years_in_business,omitempty"`
	PreferredContactTime   string `json:"preferred_contact_time"`
}

func (d *SellerDetails) Checklist(a *Account) []bool {
	return []bool{
		filled(a.FirstName),
		filled(a.LastName),
		filled(a.Phone),
		filled(d.IdentityDocument),
		filled(d.AddressProof),
		filled(d.PropertyOwnershipProof),
		filled(d.CompanyName) || d.YearsInBusiness != nil,
		filled(d.PreferredContactTime),
	}
}

func (d *SellerDetails) DocumentsComplete() bool {
	return filled(d.IdentityDocument) && filled(d.AddressProof)
}

// AgentDetails are the license and agency data of an agent
type AgentDetails struct {
	LicenseNumber       string   `json:"license_number"`
	ExperienceYears     *int     `json:"experience_years,omitempty"`
	Specialization      string   `json:"specialization"`
	AgencyName          string   `json:"agency_name"`
	AgencyAddress       string   `json:"agency_address"`
	LicenseDocument     string   `json:"license_document"`
	IdentityDocument    string   `json:"identity_document"`
	AgencyAuthorization string   `json:"agency_authorization"`
	ServiceAreas        []string `json:"service_areas"`
}

func (d *AgentDetails) Checklist(a *Account) []bool {
	return []bool{
		filled(a.FirstName),
		filled(a.LastName),
		filled(a.Phone),
		filled(d.LicenseNumber),
		filled(d.LicenseDocument),
		filled(d.IdentityDocument),
		filled(d.AgencyName),
		d.ExperienceYears != nil,
		filled(d.Specialization),
		len(d.ServiceAreas) > 0,
	}
}

func (d *AgentDetails) DocumentsComplete() bool {
	return filled(d.LicenseDocument) && filled(d.IdentityDocument)
}

// DeveloperDetails are the company records of a development firm
type DeveloperDetails struct {
	CompanyName                    string   `json:"company_name"`
	CompanyType                    string   `json:"company_type"`
	RegistrationNumber             string   `json:"registration_number"`
	EstablishedYear                *int     `json:"established_year,omitempty"`
	CompanyAddress                 string   `json:"company_address"`
	CompanyPhone                   string   `json:"company_phone"`
	CompanyEmail                   string   `json:"company_email"`
	PANNumber                      string   `json:"pan_number"`
	GSTNumber                      string   `json:"gst_number"`
	CompanyRegistrationCertificate string   `json:"company_registration_certificate"`
	PANCard                        string   `json:"pan_card"`
	GSTCertificate                 string   `json:"gst_certificate"`
	FinancialStatements            string   `json:"financial_statements"`
	RERARegistration               string   `json:"rera_registration"`
	ProjectTypes                   []string `json:"project_types"`
	ServiceLocations               []string `json:"service_locations"`
}

func (d *DeveloperDetails) Checklist(*Account) []bool {
	return []bool{
		filled(d.CompanyName),
		filled(d.RegistrationNumber),
		d.EstablishedYear != nil,
		filled(d.CompanyAddress),
		filled(d.CompanyPhone),
		filled(d.PANNumber),
		filled(d.GSTNumber),
		filled(d.CompanyRegistrationCertificate),
		filled(d.PANCard),
		filled(d.GSTCertificate),
		len(d.ProjectTypes) > 0,
		len(d.ServiceLocations) > 0,
	}
}

func (d *DeveloperDetails) DocumentsComplete() bool {
	return filled(d.CompanyRegistrationCertificate) && filled(d.PANCard) && filled(d.GSTCertificate)
}

// AdminDetails are the office data of a platform administrator
type AdminDetails struct {
	Department  string `json:"department"`
	Designation string `json:"designation"`
	OfficePhone string `json:"office_phone"`
}

func (d *AdminDetails) Checklist(*Account) []bool {
	return []bool{filled(d.Department), filled(d.Designation), filled(d.OfficePhone)}
}

func (d *AdminDetails) DocumentsComplete() bool { return true }

// UpdateProfileInput is a partial update of the caller's account and profile
type UpdateProfileInput struct {
	FirstName *string         `json:"first_name" binding:"omitempty,max=150"`
	LastName  *string         `json:"last_name" binding:"omitempty,max=150"`
	Phone     *string         `json:"phone" binding:"omitempty,max=15"`
	Address   *string         `json:"address"`
	Details   json.RawMessage `json:"details"`
}

// ProfileResult is the caller's account together with its role profile
type ProfileResult struct {
	Account            *Account `json:"user"`
	Profile            *Profile `json:"profile"`
	SubmittedForReview bool     `json:"submitted_for_review"`
}
