package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProfileBase holds the columns shared by every role profile table
type ProfileBase struct {
	ID                          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	AccountID                   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	ProfileCompletionPercentage int        `gorm:"not null;default:0"`
	DocumentsUploaded           bool       `gorm:"not null;default:false"`
	VerificationStatus          string     `gorm:"type:varchar(20)"`
	VerificationNotes           *string    `gorm:"type:text"`
	VerifiedBy                  *uuid.UUID `gorm:"type:uuid"`
	VerifiedAt                  *time.Time
	CreatedAt                   time.Time
	UpdatedAt                   time.Time
}

type BuyerProfile struct {
	ProfileBase
	DateOfBirth            *time.Time
	PreferredLocation      string   `gorm:"type:varchar(255)"`
	BudgetMin              *float64 `gorm:"type:decimal(15,2)"`
	BudgetMax              *float64 `gorm:"type:decimal(15,2)"`
	InterestedInBuying     bool     `gorm:"not null;default:false"`
	InterestedInRenting    bool     `gorm:"not null;default:false"`
	PreferredPropertyTypes datatypes.JSON
	MinBedrooms            *int
	PreferredAmenities     datatypes.JSON
	EmailNotifications     bool `gorm:"not null;default:false"`
	SMSNotifications       bool `gorm:"not null;default:false"`
}

func (BuyerProfile) TableName() string { return "buyer_profiles" }

type SellerProfile struct {
	ProfileBase
	CompanyName            string `gorm:"type:varchar(255)"`
	GSTNumber              string `gorm:"column:gst_number;type:varchar(20)"`
	IdentityDocument       string `gorm:"type:varchar(500)"`
	AddressProof           string `gorm:"type:varchar(500)"`
	PropertyOwnershipProof string `gorm:"type:varchar(500)"`
	YearsInBusiness        *int
	PreferredContactTime   string `gorm:"type:varchar(50)"`
}

func (SellerProfile) TableName() string { return "seller_profiles" }

type AgentProfile struct {
	ProfileBase
	LicenseNumber       string `gorm:"type:varchar(100)"`
	ExperienceYears     *int
	Specialization      string `gorm:"type:varchar(255)"`
	AgencyName          string `gorm:"type:varchar(255)"`
	AgencyAddress       string `gorm:"type:text"`
	LicenseDocument     string `gorm:"type:varchar(500)"`
	IdentityDocument    string `gorm:"type:varchar(500)"`
	AgencyAuthorization string `gorm:"type:varchar(500)"`
	ServiceAreas        datatypes.JSON
}

func (AgentProfile) TableName() string { return "agent_profiles" }

type DeveloperProfile struct {
	ProfileBase
	CompanyName                    string `gorm:"type:varchar(255)"`
	CompanyType                    string `gorm:"type:varchar(50)"`
	RegistrationNumber             string `gorm:"type:varchar(100)"`
	EstablishedYear                *int
	CompanyAddress                 string `gorm:"type:text"`
	CompanyPhone                   string `gorm:"type:varchar(20)"`
	CompanyEmail                   string `gorm:"type:varchar(255)"`
	PANNumber                      string `gorm:"column:pan_number;type:varchar(20)"`
	GSTNumber                      string `gorm:"column:gst_number;type:varchar(20)"`
	CompanyRegistrationCertificate string `gorm:"type:varchar(500)"`
	PANCard                        string `gorm:"column:pan_card;type:varchar(500)"`
	GSTCertificate                 string `gorm:"column:gst_certificate;type:varchar(500)"`
	FinancialStatements            string `gorm:"type:varchar(500)"`
	RERARegistration               string `gorm:"column:rera_registration;type:varchar(100)"`
	ProjectTypes                   datatypes.JSON
	ServiceLocations               datatypes.JSON
}

func (DeveloperProfile) TableName() string { return "developer_profiles" }

type AdminProfile struct {
	ProfileBase
	Department  string `gorm:"type:varchar(100)"`
	Designation string `gorm:"type:varchar(100)"`
	OfficePhone string `gorm:"type:varchar(20)"`
}

func (AdminProfile) TableName() string { return "admin_profiles" }
