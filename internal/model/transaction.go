package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Kind tags the two transaction variants handled by the orchestrator.
type Kind string

const (
	KindSale       Kind = "SALE"
	KindCommission Kind = "COMMISSION"
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusReady      Status = "READY"
	StatusDelivered  Status = "DELIVERED"
	StatusFinalized  Status = "FINALIZED"
	StatusCancelled  Status = "CANCELLED"
)

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "CASH"
	PaymentDebit  PaymentMethod = "DEBIT"
	PaymentCredit PaymentMethod = "CREDIT"
	PaymentPix    PaymentMethod = "PIX"
)

// PaymentMethods is the accepted list, in display order.
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentDebit, PaymentCredit, PaymentPix}

// LineItem is the row shape shared by sale and commission items.
// UnitPrice is a snapshot of the product price at creation time.
type LineItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	Quantity  decimal.Decimal `gorm:"type:numeric(12,3);not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	Subtotal  decimal.Decimal `gorm:"type:numeric(15,5);not null" json:"subtotal"`

	// Joined display field
	ProductName *string `gorm:"->;-:migration" json:"product_name,omitempty"`
}

type Sale struct {
	BaseModel
	Reference     uuid.UUID       `gorm:"type:uuid;uniqueIndex" json:"reference"`
	CustomerID    *uint           `gorm:"index" json:"customer_id,omitempty"`
	SoldAt        time.Time       `gorm:"not null;index" json:"sold_at"`
	Status        Status          `gorm:"type:varchar(20);not null;index" json:"status"`
	Total         decimal.Decimal `gorm:"type:numeric(15,5);not null" json:"total"`
	Discount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"discount"`
	FinalAmount   decimal.Decimal `gorm:"type:numeric(15,5);not null" json:"final_amount"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(20);not null" json:"payment_method"`
	Notes         string          `gorm:"type:text" json:"notes"`
	Items         []SaleItem      `gorm:"foreignKey:SaleID" json:"items"`

	// Joined display field
	CustomerName *string `gorm:"->;-:migration" json:"customer_name,omitempty"`
}

func (Sale) TableName() string {
	return "vendas"
}

func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.Reference == uuid.Nil {
		s.Reference = uuid.New()
	}
	return nil
}

type SaleItem struct {
	LineItem
	SaleID uint `gorm:"not null;index" json:"sale_id"`
}

func (SaleItem) TableName() string {
	return "itens_venda"
}

type Commission struct {
	BaseModel
	Reference      uuid.UUID        `gorm:"type:uuid;uniqueIndex" json:"reference"`
	CustomerID     uint             `gorm:"not null;index" json:"customer_id"`
	OrderedAt      time.Time        `gorm:"not null" json:"ordered_at"`
	DeliveryDate   time.Time        `gorm:"type:date;not null;index" json:"delivery_date"`
	Status         Status           `gorm:"type:varchar(20);not null;index" json:"status"`
	Total          decimal.Decimal  `gorm:"type:numeric(15,5);not null" json:"total"`
	DownPayment    decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"down_payment"`
	BalanceDue     decimal.Decimal  `gorm:"type:numeric(15,5);not null" json:"balance_due"`
	Notes          string           `gorm:"type:text" json:"notes"`
	StockCommitted bool             `gorm:"not null" json:"stock_committed"`
	Items          []CommissionItem `gorm:"foreignKey:CommissionID" json:"items"`

	// Joined display field
	CustomerName *string `gorm:"->;-:migration" json:"customer_name,omitempty"`
}

func (Commission) TableName() string {
	return "encomendas"
}

func (c *Commission) BeforeCreate(tx *gorm.DB) error {
	if c.Reference == uuid.Nil {
		c.Reference = uuid.New()
	}
	return nil
}

type CommissionItem struct {
	LineItem
	CommissionID uint `gorm:"not null;index" json:"commission_id"`
}

func (CommissionItem) TableName() string {
	return "itens_encomenda"
}
