package models

import "time"

type Floor struct {
	ID        uint    `gorm:"primaryKey"`
	BranchID  uint    `gorm:"not null;index;uniqueIndex:idx_floors_branch_name"`
	Branch    *Branch
	Name      string `gorm:"size:100;not null;uniqueIndex:idx_floors_branch_name"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Tables []Table
}
