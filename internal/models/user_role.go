package models

import "time"

// UserRole is the explicit user/role association. Rows are created and
// removed independently of either side's lifecycle; the table doubles as the
// gorm join table for User.Roles.
type UserRole struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	RoleID    uint      `gorm:"primaryKey;autoIncrement:false" json:"roleId"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName keeps the join table name aligned with the many2many tag on User.
func (UserRole) TableName() string {
	return "user_roles"
}
