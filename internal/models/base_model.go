package models

import "time"

// BaseModel provides shared fields for all persistent models. Identifiers are
// numeric because they travel inside token claims and grant rows key on them.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
