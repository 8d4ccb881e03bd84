package model

// Privilege represents a permission that can be assigned to roles and users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "sale:create"
	Name string `gorm:"type:varchar(100)" json:"name"`
}

const (
	PrivProductWrite     = "product:write"
	PrivSupplierWrite    = "supplier:write"
	PrivCustomerWrite    = "customer:write"
	PrivStockWrite       = "stock:write"
	PrivSaleCreate       = "sale:create"
	PrivSaleCancel       = "sale:cancel"
	PrivCommissionCreate = "commission:create"
	PrivCommissionUpdate = "commission:update"
	PrivCommissionDelete = "commission:delete"
	PrivReportView       = "report:view"
)

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	{Code: PrivProductWrite, Name: "Manage Products"},
	{Code: PrivSupplierWrite, Name: "Manage Suppliers"},
	{Code: PrivCustomerWrite, Name: "Manage Customers"},
	{Code: PrivStockWrite, Name: "Manage Stock"},
	{Code: PrivSaleCreate, Name: "Create Sale"},
	{Code: PrivSaleCancel, Name: "Cancel or Delete Sale"},
	{Code: PrivCommissionCreate, Name: "Create Commission"},
	{Code: PrivCommissionUpdate, Name: "Update Commission Status"},
	{Code: PrivCommissionDelete, Name: "Delete Commission"},
	{Code: PrivReportView, Name: "View Reports"},
}
