package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kitchen side of an order.
const (
	OrderPending   = "Pending"
	OrderReady     = "Ready"
	OrderCompleted = "Completed"
)

// Billing side of an order, independent of the kitchen status.
const (
	PaymentPending = "Pending"
	PaymentPaid    = "Paid"
)

var PaymentMethods = []string{"Cash", "Card", "UPI"}

func IsPaymentMethod(method string) bool {
	for _, m := range PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}

type Order struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	TableID       uint            `gorm:"not null;index" json:"table_id"`
	Table         *Table          `gorm:"foreignKey:TableID" json:"table,omitempty"`
	StaffID       *uint           `gorm:"index" json:"staff_id,omitempty"`
	Staff         *Staff          `gorm:"foreignKey:StaffID" json:"staff,omitempty"`
	Status        string          `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`
	PaymentStatus string          `gorm:"type:varchar(20);not null;default:'Pending'" json:"payment_status"`
	PaymentMethod *string         `gorm:"type:varchar(20)" json:"payment_method,omitempty"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"total_amount"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	CreatedAt     time.Time       `gorm:"not null;index" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null" json:"updated_at"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
}

// IsOpen is true until the order has been paid.
func (o Order) IsOpen() bool {
	return o.Status != OrderCompleted
}
