package models

// AdminRoleName is the role that bypasses every permission check.
const AdminRoleName = "admin"

// DefaultRoleName is assigned to self-registered accounts.
const DefaultRoleName = "user"

type Role struct {
	BaseModel

	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `json:"description"`

	Permissions []Permission          `gorm:"many2many:role_permissions;" json:"permissions,omitempty"`
	Users       []User                `gorm:"many2many:user_roles;" json:"users,omitempty"`
	PDFGrants   []RolePDFPermission   `gorm:"foreignKey:RoleID" json:"pdfGrants,omitempty"`
	BrandGrants []RoleBrandPermission `gorm:"foreignKey:RoleID" json:"brandGrants,omitempty"`
}

// IsAdmin reports whether this role grants unconditional access.
func (r Role) IsAdmin() bool {
	return r.Name == AdminRoleName
}
