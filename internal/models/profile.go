package models

import (
	"time"
)

// Profile holds the demographic fields attached one-to-one to a user.
// UserID doubles as the primary key; a user has exactly one profile once
// registered and all fields are required.
type Profile struct {
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	Gender    string    `gorm:"not null" json:"gender"`
	Age       int       `gorm:"not null" json:"age"`
	Hobby     string    `gorm:"not null" json:"hobby"`
	Contacts  string    `gorm:"not null" json:"contacts"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
