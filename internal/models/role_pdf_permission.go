package models

// RolePDFPermission grants a role access to one catalog PDF. CanEdit
// distinguishes edit from view-only grants. One row per (role, pdf) pair;
// upserts overwrite CanEdit rather than accumulating rows.
type RolePDFPermission struct {
	BaseModel

	RoleID       uint `gorm:"not null;uniqueIndex:idx_role_pdf,priority:1" json:"roleId"`
	ProductPDFID uint `gorm:"not null;uniqueIndex:idx_role_pdf,priority:2" json:"pdfId"`
	CanEdit      bool `gorm:"default:false" json:"canEdit"`

	Role       *Role       `json:"-"`
	ProductPDF *ProductPDF `json:"productPdf,omitempty"`
}

func (RolePDFPermission) TableName() string {
	return "role_pdf_permissions"
}
