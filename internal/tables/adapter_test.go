package tables

import (
	"encoding/json"
	"testing"

	"cafepos-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func TestMapTable_PrefersDirectFloorID(t *testing.T) {
	tbl := models.Table{
		ID:          1,
		TableNumber: "12",
		Seats:       4,
		Status:      models.TableFree,
		FloorID:     uintPtr(7),
		Floor:       &models.Floor{ID: 99, BranchID: 3},
	}

	view := MapTable(tbl)

	assert.Equal(t, uint(7), view.FloorID, "direct floor id wins over the preloaded floor's id")
	require.NotNil(t, view.BranchID)
	assert.Equal(t, uint(3), *view.BranchID)
}

func TestMapTable_NestedFloorFallback(t *testing.T) {
	tbl := models.Table{
		ID:     2,
		Status: models.TableOccupied,
		Floor:  &models.Floor{ID: 5, BranchID: 1},
	}

	view := MapTable(tbl)

	assert.Equal(t, uint(5), view.FloorID)
}

// A table with no floor at all lands on the unassigned floor. This is
// intentional: tables can be created before the floor plan exists, and
// the unassigned floor is a first-class bucket, not missing data.
func TestMapTable_UnassignedFloorSentinel(t *testing.T) {
	tbl := models.Table{ID: 3, TableNumber: "9", Status: models.TableFree}

	view := MapTable(tbl)

	assert.Equal(t, UnassignedFloorID, view.FloorID)
	assert.Nil(t, view.BranchID, "branch id is never defaulted; absence must stay visible")
}

func TestMapTable_BranchFromDirectColumn(t *testing.T) {
	tbl := models.Table{ID: 4, BranchID: uintPtr(8)}

	view := MapTable(tbl)

	require.NotNil(t, view.BranchID)
	assert.Equal(t, uint(8), *view.BranchID)
	assert.Equal(t, UnassignedFloorID, view.FloorID)
}

func TestMapTable_FloorBranchWinsOverDirect(t *testing.T) {
	tbl := models.Table{
		ID:       5,
		BranchID: uintPtr(8),
		Floor:    &models.Floor{ID: 2, BranchID: 4},
	}

	view := MapTable(tbl)

	require.NotNil(t, view.BranchID)
	assert.Equal(t, uint(4), *view.BranchID)
}

func TestTableNumber_StringAndNumberAgree(t *testing.T) {
	type payload struct {
		TableNumber TableNumber `json:"table_number"`
	}

	var fromNumber, fromString payload
	require.NoError(t, json.Unmarshal([]byte(`{"table_number":5}`), &fromNumber))
	require.NoError(t, json.Unmarshal([]byte(`{"table_number":"5"}`), &fromString))

	assert.Equal(t, TableNumber("5"), fromNumber.TableNumber)
	assert.Equal(t, fromString.TableNumber, fromNumber.TableNumber)
}

func TestTableNumber_RejectsOtherTypes(t *testing.T) {
	var n TableNumber
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &n))
	assert.Error(t, json.Unmarshal([]byte(`true`), &n))
}
