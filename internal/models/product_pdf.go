package models

// ProductPDF is a price-list catalog document. Access is controlled per
// document through RolePDFPermission grants.
type ProductPDF struct {
	BaseModel

	Name           string  `gorm:"not null;index" json:"name"`
	PDFURL         string  `gorm:"column:pdf_url" json:"pdfUrl"`
	PageCount      int     `json:"pageCount"`
	DiscountFactor float64 `gorm:"default:1" json:"discountFactor"`

	BrandID *uint  `gorm:"index" json:"brandId,omitempty"`
	Brand   *Brand `json:"brand,omitempty"`

	Grants []RolePDFPermission `gorm:"foreignKey:ProductPDFID" json:"-"`
}

func (ProductPDF) TableName() string {
	return "product_pdfs"
}
