package models

import "time"

type Product struct {
	ID         uint    `gorm:"primaryKey"`
	Name       string  `gorm:"size:100;not null"`
	Price      float64 `gorm:"not null"`
	CategoryID uint    `gorm:"not null;index"`
	Category   *ProductCategory
	Available  bool `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
