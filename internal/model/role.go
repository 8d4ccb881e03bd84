package model

// Role represents user roles in the system
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // MANAGER, CASHIER
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

const (
	RoleManager = "MANAGER"
	RoleCashier = "CASHIER"
)

// DefaultRoles defines the default roles and the privilege codes each one gets.
// A nil code list means every privilege.
var DefaultRoles = []struct {
	Role  Role
	Codes []string
}{
	{
		Role:  Role{Code: RoleManager, Name: "Manager", Description: "Full access to catalog, stock, sales and reports"},
		Codes: nil,
	},
	{
		Role: Role{Code: RoleCashier, Name: "Cashier", Description: "Point of sale operator"},
		Codes: []string{
			PrivSaleCreate,
			PrivCommissionCreate,
			PrivCommissionUpdate,
			PrivCustomerWrite,
		},
	},
}
