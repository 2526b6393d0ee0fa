package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// Table mirrors the backend's API shape.
type Table struct {
	ID          uint   `json:"id"`
	TableNumber string `json:"table_number"`
	Seats       int    `json:"seats"`
	Status      string `json:"status"`
	FloorID     uint   `json:"floor_id"`
	BranchID    *uint  `json:"branch_id"`
}

type TablesResult struct {
	Tables []Table
	Status Status
	Err    error
}

type TableResult struct {
	Table  *Table
	Status Status
	Err    error
}

// decodeTables accepts both response shapes the backend has used over
// time: a bare array and an object wrapping the array under "tables".
// Normalization happens here, once, so callers only ever see a slice.
func decodeTables(body []byte) ([]Table, error) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var tables []Table
		err := json.Unmarshal(trimmed, &tables)
		return tables, err
	}

	var envelope struct {
		Tables []Table `json:"tables"`
	}
	err := json.Unmarshal(trimmed, &envelope)
	return envelope.Tables, err
}

// ListTables fetches all tables. It never returns a nil slice; on any
// failure the result is tagged StatusFailed with the cause in Err.
func (c *Client) ListTables(ctx context.Context) TablesResult {
	status, body, err := c.get(ctx, "/api/tables")
	if err != nil {
		return TablesResult{Tables: []Table{}, Status: StatusFailed, Err: err}
	}
	if status < 200 || status >= 300 {
		return TablesResult{
			Tables: []Table{},
			Status: StatusFailed,
			Err:    fmt.Errorf("list tables: unexpected status %d", status),
		}
	}

	tables, err := decodeTables(body)
	if err != nil {
		return TablesResult{Tables: []Table{}, Status: StatusFailed, Err: err}
	}
	if len(tables) == 0 {
		return TablesResult{Tables: []Table{}, Status: StatusEmpty}
	}
	return TablesResult{Tables: tables, Status: StatusOK}
}

// GetTable fetches one table by id. A 404 is a normal outcome and is
// tagged StatusNotFound rather than reported as an error.
func (c *Client) GetTable(ctx context.Context, id string) TableResult {
	status, body, err := c.get(ctx, "/api/tables/"+url.PathEscape(id))
	if err != nil {
		return TableResult{Status: StatusFailed, Err: err}
	}
	if status == 404 {
		return TableResult{Status: StatusNotFound}
	}
	if status < 200 || status >= 300 {
		return TableResult{
			Status: StatusFailed,
			Err:    fmt.Errorf("get table %s: unexpected status %d", id, status),
		}
	}

	var table Table
	if err := json.Unmarshal(body, &table); err != nil {
		return TableResult{Status: StatusFailed, Err: err}
	}
	return TableResult{Table: &table, Status: StatusOK}
}
