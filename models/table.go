package models

import "time"

const (
	TableAvailable = "Available"
	TableOccupied  = "Occupied"
)

type Table struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Capacity       int       `gorm:"not null" json:"capacity"`
	Status         string    `gorm:"type:varchar(20);not null;default:'Available';index" json:"status"`
	CurrentOrderID *uint     `json:"current_order_id"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}

// HasOpenOrder reports whether an unpaid order is still attached to the table.
func (t Table) HasOpenOrder() bool {
	return t.CurrentOrderID != nil
}
