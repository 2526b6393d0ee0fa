package models

import "time"

type Customer struct {
	ID         string  `gorm:"primaryKey;size:36"` // uuid
	Name       string  `gorm:"size:100;not null"`
	Phone      string  `gorm:"size:50"`
	Email      string  `gorm:"size:100"`
	TotalSales float64 `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
