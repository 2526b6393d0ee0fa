package tables

import (
	"encoding/json"

	"cafepos-backend/internal/models"
)

// UnassignedFloorID is a first-class floor: tables are often created
// before the floor plan is drawn, and clients render them in an
// "unassigned" bucket. The adapter substitutes it whenever a table has
// neither a direct floor id nor a preloaded floor.
const UnassignedFloorID uint = 0

// TableView is the API shape of a table.
type TableView struct {
	ID          uint               `json:"id"`
	TableNumber string             `json:"table_number"`
	Seats       int                `json:"seats"`
	Status      models.TableStatus `json:"status"`
	FloorID     uint               `json:"floor_id"`
	BranchID    *uint              `json:"branch_id"`
}

// MapTable converts a persistence-shaped table into its API shape.
//
// Floor resolution prefers the direct FloorID over the preloaded floor's
// id and falls back to UnassignedFloorID. Branch resolution goes through
// the floor first, then the direct column, and is deliberately NOT
// defaulted: a table with no resolvable branch is a data error and
// surfaces as branch_id null so the caller can see it.
func MapTable(t models.Table) TableView {
	v := TableView{
		ID:          t.ID,
		TableNumber: t.TableNumber,
		Seats:       t.Seats,
		Status:      t.Status,
	}

	switch {
	case t.FloorID != nil:
		v.FloorID = *t.FloorID
	case t.Floor != nil:
		v.FloorID = t.Floor.ID
	default:
		v.FloorID = UnassignedFloorID
	}

	if t.Floor != nil {
		branchID := t.Floor.BranchID
		v.BranchID = &branchID
	} else if t.BranchID != nil {
		v.BranchID = t.BranchID
	}

	return v
}

// TableNumber accepts a JSON string or a JSON number and normalizes both
// to a string, so `5` and `"5"` name the same table.
type TableNumber string

func (n *TableNumber) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*n = TableNumber(s)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*n = TableNumber(num.String())
	return nil
}
