package model

import "github.com/shopspring/decimal"

type Product struct {
	BaseModel
	Name        string           `gorm:"type:varchar(150);not null;index" json:"name" validate:"required"`
	Description string           `gorm:"type:text" json:"description"`
	Category    string           `gorm:"type:varchar(60);index" json:"category"`
	Price       decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"price" validate:"gte=0"`
	CostPrice   *decimal.Decimal `gorm:"type:numeric(12,2)" json:"cost_price,omitempty" validate:"omitempty,gte=0"`
	Unit        string           `gorm:"type:varchar(20)" json:"unit"`
	SupplierID  *uint            `gorm:"index" json:"supplier_id,omitempty"`
	Active      bool             `gorm:"not null" json:"active"`

	// Joined display field
	SupplierName *string `gorm:"->;-:migration" json:"supplier_name,omitempty"`
}

func (Product) TableName() string {
	return "produtos"
}
