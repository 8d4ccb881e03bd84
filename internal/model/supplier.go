package model

type Supplier struct {
	BaseModel
	Name    string  `gorm:"type:varchar(150);not null;index" json:"name" validate:"required"`
	TaxID   *string `gorm:"type:varchar(14);uniqueIndex" json:"tax_id,omitempty"`
	Phone   string  `gorm:"type:varchar(20)" json:"phone"`
	Email   string  `gorm:"type:varchar(150)" json:"email" validate:"omitempty,email"`
	Address string  `gorm:"type:varchar(255)" json:"address"`
	Active  bool    `gorm:"not null" json:"active"`
}

func (Supplier) TableName() string {
	return "fornecedores"
}
