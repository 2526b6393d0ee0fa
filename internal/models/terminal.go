package models

import "time"

// Terminal is a POS device session: one branch and one operating user,
// both bound at creation time.
type Terminal struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null"`
	BranchID  uint   `gorm:"not null;index"`
	Branch    *Branch
	UserID    uint `gorm:"not null;index"`
	User      *User
	CreatedAt time.Time
	UpdatedAt time.Time
}
