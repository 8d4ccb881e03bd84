package model

import "go-bakery-pos/pkg/taxid"

type EntityType string

const (
	EntityIndividual EntityType = "INDIVIDUAL"
	EntityCompany    EntityType = "COMPANY"
)

// TaxIDLength is the digit count expected for the entity type's tax id.
func (t EntityType) TaxIDLength() int {
	if t == EntityCompany {
		return taxid.CompanyLength
	}
	return taxid.IndividualLength
}

type Customer struct {
	BaseModel
	Name       string     `gorm:"type:varchar(150);not null;index" json:"name" validate:"required"`
	EntityType EntityType `gorm:"type:varchar(12);not null" json:"entity_type" validate:"omitempty,oneof=INDIVIDUAL COMPANY"`
	TaxID      *string    `gorm:"type:varchar(14);uniqueIndex" json:"tax_id,omitempty"`
	Phone      string     `gorm:"type:varchar(20)" json:"phone"`
	Email      string     `gorm:"type:varchar(150)" json:"email" validate:"omitempty,email"`
	Address    string     `gorm:"type:varchar(255)" json:"address"`
	Active     bool       `gorm:"not null" json:"active"`
}

func (Customer) TableName() string {
	return "clientes"
}
