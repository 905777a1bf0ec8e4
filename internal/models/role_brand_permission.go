package models

// RoleBrandPermission grants a role edit access to one brand. Membership is
// the grant; there is no extra flag.
type RoleBrandPermission struct {
	BaseModel

	RoleID  uint `gorm:"not null;uniqueIndex:idx_role_brand,priority:1" json:"roleId"`
	BrandID uint `gorm:"not null;uniqueIndex:idx_role_brand,priority:2" json:"brandId"`

	Role  *Role  `json:"-"`
	Brand *Brand `json:"brand,omitempty"`
}

func (RoleBrandPermission) TableName() string {
	return "role_brand_permissions"
}
