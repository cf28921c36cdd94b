package models

// AdminUserModel is an admin account that can sign in to the dashboard.
type AdminUserModel struct {
	Base
	Email        string `json:"email"   gorm:"uniqueIndex;not null"`
	PasswordHash string `json:"-"       gorm:"not null"`
	RoleID       int    `json:"role_id" gorm:"default:1"`
}

func (AdminUserModel) TableName() string { return "users" }
