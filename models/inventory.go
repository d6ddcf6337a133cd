package models

import "time"

type InventoryItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ItemName     string    `gorm:"type:varchar(255);not null" json:"item_name"`
	CurrentStock int       `gorm:"not null;default:0" json:"current_stock"`
	ReorderLevel int       `gorm:"not null;default:0" json:"reorder_level"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (InventoryItem) TableName() string {
	return "inventory"
}

func (i InventoryItem) NeedsReorder() bool {
	return i.CurrentStock <= i.ReorderLevel
}
