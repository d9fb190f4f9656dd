package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SolarRequest is one institution's appeal for solar equipment aid. Identity
// fields (organisation, village, taluka) are written once at creation; donors
// and the fulfillment percentage mutate over the request's lifetime.
type SolarRequest struct {
	ID                    uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	OrganisationName      string          `json:"organisationName" gorm:"size:255;not null"`
	InstitutionType       string          `json:"institutionType" gorm:"size:100;not null;index"`
	VillageName           string          `json:"villageName" gorm:"size:255;not null;index"`
	Taluka                string          `json:"taluka" gorm:"size:100;not null;index"`
	District              string          `json:"district" gorm:"size:100;not null"`
	SolarDemand           decimal.Decimal `json:"solarDemand" gorm:"type:decimal(12,2);not null"`
	Capacity              decimal.Decimal `json:"capacity,omitempty" gorm:"type:decimal(12,2)"`
	DepartmentID          uuid.UUID       `json:"departmentId" gorm:"type:char(36);not null;index"`
	UserID                uuid.UUID       `json:"userId" gorm:"type:char(36);not null;index"` // owning appealer, never client-supplied
	FulfillmentPercentage float64         `json:"fulfillmentPercentage" gorm:"default:0"`     // operator-entered, deliberately unclamped
	CreatedAt             time.Time       `json:"createdAt"`
	UpdatedAt             time.Time       `json:"updatedAt"`

	// Relations
	Donors []DonorPledge `json:"donors,omitempty" gorm:"foreignKey:RequestID"`
}

// BeforeCreate sets UUID before creating the record.
func (r *SolarRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// DonorPledge records one donor's interest in a request. Contact fields are a
// snapshot of the donor's profile at pledge time; the live profile is joined
// separately on read. A (request, donor) pair appears at most once, enforced
// by the composite unique index.
type DonorPledge struct {
	ID         uint      `json:"-" gorm:"primaryKey"`
	RequestID  uuid.UUID `json:"-" gorm:"type:char(36);not null;uniqueIndex:idx_pledge_request_donor"`
	DonorID    uuid.UUID `json:"donorId" gorm:"type:char(36);not null;uniqueIndex:idx_pledge_request_donor"`
	Name       string    `json:"name" gorm:"size:255"`
	Email      string    `json:"email" gorm:"size:255"`
	Phone      string    `json:"phone,omitempty" gorm:"size:20"`
	DonatedFor string    `json:"donatedForOrganization,omitempty" gorm:"size:255"`
	CreatedAt  time.Time `json:"date"`
}
