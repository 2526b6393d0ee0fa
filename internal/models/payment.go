package models

import "time"

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "CASH"
	PaymentCard PaymentMethod = "CARD"
	PaymentUPI  PaymentMethod = "UPI"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
)

type Payment struct {
	ID        uint `gorm:"primaryKey"`
	OrderID   uint `gorm:"not null;index"`
	Order     *Order
	Method    PaymentMethod `gorm:"size:20;not null"`
	Status    PaymentStatus `gorm:"size:20;not null;default:'PENDING'"`
	Amount    float64       `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
