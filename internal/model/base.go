package model

import "time"

// BaseModel handles the surrogate ID and the audit columns.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Audit user tracking
	CreatedBy string `gorm:"type:varchar(255)" json:"created_by,omitempty"`
	UpdatedBy string `gorm:"type:varchar(255)" json:"updated_by,omitempty"`
}

// Actor identifies the operator behind a write. It is stamped into the audit
// columns and echoed in websocket events.
type Actor struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// System is the actor used by seeders and tools.
var System = Actor{Name: "system"}

// Label is the value written to created_by/updated_by.
func (a Actor) Label() string {
	if a.Email != "" {
		return a.Email
	}
	return a.Name
}

// AllModels lists every table managed by AutoMigrate, parents first.
func AllModels() []interface{} {
	return []interface{}{
		&Privilege{},
		&Role{},
		&User{},
		&Supplier{},
		&Product{},
		&Customer{},
		&StockEntry{},
		&Sale{},
		&SaleItem{},
		&Commission{},
		&CommissionItem{},
	}
}
