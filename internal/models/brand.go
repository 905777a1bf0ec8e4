package models

// Brand is a furniture manufacturer carried in the catalog.
type Brand struct {
	BaseModel

	Name     string `gorm:"not null;index" json:"name"`
	Country  string `json:"country"`
	Discount int    `gorm:"default:0" json:"discount"`
	Contact  string `json:"contact,omitempty"`

	PDFs []ProductPDF `gorm:"foreignKey:BrandID" json:"pdfs,omitempty"`
}
