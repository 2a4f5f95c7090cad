package models

import "time"

const (
	RoleStudent = "student"
	RoleStaff   = "staff"
	RoleAdmin   = "admin"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`
	FirstName string    `gorm:"type:varchar(150);not null" json:"first_name"`
	LastName  string    `gorm:"type:varchar(150)" json:"last_name"`
	Role      string    `gorm:"type:varchar(20);not null;default:'student'" json:"role"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsStaff reports whether the user may manage orders and the catalog.
func (u User) IsStaff() bool {
	return IsStaffRole(u.Role)
}

func IsStaffRole(role string) bool {
	return role == RoleStaff || role == RoleAdmin
}

// UserType is the login-facing classification of an account.
func (u User) UserType() string {
	if u.IsStaff() {
		return RoleStaff
	}
	return RoleStudent
}
