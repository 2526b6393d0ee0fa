package models

import "time"

type TableStatus string

const (
	TableFree     TableStatus = "FREE"
	TableOccupied TableStatus = "OCCUPIED"
	TableReserved TableStatus = "RESERVED"
)

// Table resolves to a branch either directly or through its floor.
// A table created before the floor plan is drawn may have neither a
// floor nor a direct branch yet.
type Table struct {
	ID          uint        `gorm:"primaryKey"`
	TableNumber string      `gorm:"size:50;not null"`
	Seats       int         `gorm:"not null;default:2"`
	Status      TableStatus `gorm:"size:20;not null;default:'FREE'"`
	FloorID     *uint       `gorm:"index"`
	Floor       *Floor
	BranchID    *uint `gorm:"index"`
	Branch      *Branch
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
