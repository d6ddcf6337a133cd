package models

import "time"

const (
	RoleManager  = "Manager"
	RoleWaiter   = "Waiter"
	RoleChef     = "Chef"
	RoleCashier  = "Cashier"
	RoleCustomer = "Customer"
)

// StaffRoles lists the roles a staff account may hold.
var StaffRoles = []string{RoleManager, RoleWaiter, RoleChef, RoleCashier}

func IsStaffRole(role string) bool {
	for _, r := range StaffRoles {
		if r == role {
			return true
		}
	}
	return false
}

type Staff struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"username"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`
	Role      string    `gorm:"type:varchar(20);not null" json:"role"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
