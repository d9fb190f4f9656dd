package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents any human actor: appealers, donors, verifiers, admins and
// department heads.
type User struct {
	ID           uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	FirstName    string     `json:"fname" gorm:"size:100;not null"`
	LastName     string     `json:"lname" gorm:"size:100;not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Phone        string     `json:"phone,omitempty" gorm:"size:20"`
	GovernmentID *string    `json:"governmentId,omitempty" gorm:"uniqueIndex;size:64"` // unique only when present
	Role         Role       `json:"role" gorm:"size:32;not null;index"`
	DepartmentID *uuid.UUID `json:"departmentId,omitempty" gorm:"type:char(36)"` // populated for department heads only
	IsVerified   bool       `json:"isVerified" gorm:"default:false"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// FullName joins the given and family names for denormalized snapshots.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
