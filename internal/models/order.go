package models

import "time"

type OrderType string

const (
	OrderDineIn   OrderType = "DINE_IN"
	OrderTakeaway OrderType = "TAKEAWAY"
)

type OrderStatus string

const (
	OrderCreated    OrderStatus = "CREATED"
	OrderInProgress OrderStatus = "IN_PROGRESS"
	OrderReady      OrderStatus = "READY"
	OrderCompleted  OrderStatus = "COMPLETED"
)

type Order struct {
	ID          uint   `gorm:"primaryKey"`
	OrderNumber string `gorm:"size:40;uniqueIndex;not null"`
	BranchID    uint   `gorm:"not null;index"`
	Branch      *Branch
	TableID     *uint `gorm:"index"` // required for dine-in
	Table       *Table
	CustomerID  *string `gorm:"size:36;index"`
	Customer    *Customer
	Type        OrderType   `gorm:"size:20;not null"`
	Status      OrderStatus `gorm:"size:20;not null;default:'CREATED'"`
	Total       float64     `gorm:"not null"`
	Items       []OrderItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OrderItem snapshots name and price at order time so later menu edits
// don't rewrite old receipts.
type OrderItem struct {
	ID        uint `gorm:"primaryKey"`
	OrderID   uint `gorm:"not null;index"`
	ProductID uint `gorm:"not null"`
	Name      string  `gorm:"size:100;not null"`
	UnitPrice float64 `gorm:"not null"`
	Quantity  int     `gorm:"not null"`
}
