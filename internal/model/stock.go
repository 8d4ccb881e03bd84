package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockEntry is the ledger row of one product. Quantity never goes below zero.
type StockEntry struct {
	BaseModel
	ProductID   uint             `gorm:"not null;uniqueIndex" json:"product_id" validate:"required"`
	Quantity    decimal.Decimal  `gorm:"type:numeric(12,3);not null" json:"quantity" validate:"gte=0"`
	Minimum     decimal.Decimal  `gorm:"type:numeric(12,3);not null" json:"minimum" validate:"gte=0"`
	Maximum     *decimal.Decimal `gorm:"type:numeric(12,3)" json:"maximum,omitempty" validate:"omitempty,gte=0"`
	Location    string           `gorm:"type:varchar(60)" json:"location"`
	LastUpdated time.Time        `gorm:"not null" json:"last_updated"`

	// Joined display field
	ProductName *string `gorm:"->;-:migration" json:"product_name,omitempty"`
}

func (StockEntry) TableName() string {
	return "estoque"
}

// BelowMinimum reports quantity < minimum.
func (e StockEntry) BelowMinimum() bool {
	return e.Quantity.LessThan(e.Minimum)
}
