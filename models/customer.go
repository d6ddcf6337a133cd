package models

import (
	"time"
)

// Customer is identified in practice by its (Name, Phone) pair. The pair is
// indexed but not unique.
type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null;index:idx_customer_lookup,priority:1" json:"name"`
	Phone     string    `gorm:"type:varchar(30);index:idx_customer_lookup,priority:2" json:"phone"`
	Email     *string   `gorm:"type:varchar(255)" json:"email,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
