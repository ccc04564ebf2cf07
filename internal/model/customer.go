package model

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a store client identified by tax id (CPF).
type Customer struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"index;not null"`
	TaxID       string    `gorm:"column:tax_id;uniqueIndex;not null"`
	Email       *string   `gorm:"uniqueIndex"`
	Phone       *string
	BirthDate   *time.Time
	BabyDueDate *time.Time
	Note        *string
	Active      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Addresses []Address `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
}

// Address is one delivery/billing address of a Customer.
type Address struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ZipCode      string    `gorm:"not null"`
	State        string    `gorm:"not null"`
	City         string    `gorm:"not null"`
	Neighborhood string    `gorm:"not null"`
	Street       string    `gorm:"not null"`
	Number       string    `gorm:"not null"`
	Complement   *string
}

func (Address) TableName() string { return "addresses" }
