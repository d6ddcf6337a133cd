package models

import "time"

const ReservationBooked = "Booked"

// Reservation rows exist only while booked; cancelling deletes the row.
type Reservation struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CustomerID uint      `gorm:"not null;index" json:"customer_id"`
	Customer   Customer  `gorm:"foreignKey:CustomerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"customer"`
	TableID    uint      `gorm:"not null;index:idx_reservation_slot,priority:1" json:"table_id"`
	ReservedAt time.Time `gorm:"not null;index:idx_reservation_slot,priority:2" json:"reserved_at"`
	PartySize  int       `gorm:"not null" json:"party_size"`
	Status     string    `gorm:"type:varchar(20);not null;default:'Booked'" json:"status"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

// Date and Time split ReservedAt the way the front desk reads it.
func (r Reservation) Date() string {
	return r.ReservedAt.Format("2006-01-02")
}

func (r Reservation) Time() string {
	return r.ReservedAt.Format("15:04")
}
