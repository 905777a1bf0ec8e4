package models

// Permission is a URL path prefix granting access to matching dashboard
// routes. The code "/" is special-cased by the guard to require an exact
// match so it does not swallow every path.
type Permission struct {
	BaseModel

	Code        string `gorm:"uniqueIndex;not null" json:"code"`
	Description string `json:"description"`

	Roles []Role `gorm:"many2many:role_permissions;" json:"roles,omitempty"`
}
