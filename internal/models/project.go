package models

// Project groups pricing work by client engagement; regions and versions nest
// underneath it.
type Project struct {
	BaseModel

	Name        string `gorm:"not null;index" json:"name"`
	Description string `json:"description,omitempty"`

	Regions []Region `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"regions,omitempty"`
}

// Region is a geographic slice of a project.
type Region struct {
	BaseModel

	ProjectID   uint   `gorm:"not null;index" json:"projectId"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description,omitempty"`
	Manager     string `json:"manager,omitempty"`
	Status      string `gorm:"default:active" json:"status"`

	Versions []Version `gorm:"foreignKey:RegionID;constraint:OnDelete:CASCADE" json:"versions,omitempty"`
}

// Version is one published workbook revision within a region.
type Version struct {
	BaseModel

	RegionID    uint   `gorm:"not null;index" json:"regionId"`
	Version     string `gorm:"not null" json:"version"`
	Description string `json:"description,omitempty"`
	Creator     string `json:"creator,omitempty"`
	Status      string `gorm:"default:draft" json:"status"`
	FileURL     string `gorm:"column:file_url" json:"fileUrl,omitempty"`
	FileSize    int64  `json:"fileSize,omitempty"`
}
