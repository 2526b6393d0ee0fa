package tables

import (
	"strings"

	"cafepos-backend/internal/audit"
	"cafepos-backend/internal/auth"
	"cafepos-backend/internal/database"
	"cafepos-backend/internal/models"
	"cafepos-backend/internal/realtime"

	"github.com/gofiber/fiber/v2"
)

type CreateTableRequest struct {
	TableNumber TableNumber `json:"table_number"`
	Seats       int         `json:"seats"`
	FloorID     *uint       `json:"floor_id"`
	BranchID    *uint       `json:"branch_id"`
}

type UpdateTableRequest struct {
	TableNumber *TableNumber `json:"table_number"`
	Seats       *int         `json:"seats"`
	FloorID     *uint        `json:"floor_id"`
	BranchID    *uint        `json:"branch_id"`
}

type UpdateTableStatusRequest struct {
	Status models.TableStatus `json:"status"`
}

type ListTablesResponse struct {
	Tables []TableView `json:"tables"`
}

func validStatus(s models.TableStatus) bool {
	switch s {
	case models.TableFree, models.TableOccupied, models.TableReserved:
		return true
	}
	return false
}

// GET /api/tables?floor_id=1
func ListTablesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Table{}).Preload("Floor")

		if floorID := c.QueryInt("floor_id", 0); floorID > 0 {
			dbq = dbq.Where("floor_id = ?", floorID)
		}

		var tbls []models.Table
		if err := dbq.Order("table_number asc").Find(&tbls).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list tables")
		}

		res := ListTablesResponse{Tables: make([]TableView, 0, len(tbls))}
		for _, t := range tbls {
			res.Tables = append(res.Tables, MapTable(t))
		}

		return c.JSON(res)
	}
}

// GET /api/tables/:id
func GetTableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var t models.Table
		if err := database.DB.Preload("Floor").First(&t, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Table not found")
		}

		return c.JSON(MapTable(t))
	}
}

// POST /api/tables
func CreateTableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateTableRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		number := strings.TrimSpace(string(body.TableNumber))
		if number == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Table number is required")
		}
		if body.Seats <= 0 {
			body.Seats = 2
		}

		t := models.Table{
			TableNumber: number,
			Seats:       body.Seats,
			Status:      models.TableFree,
			FloorID:     body.FloorID,
			BranchID:    body.BranchID,
		}

		if body.FloorID != nil {
			var floor models.Floor
			if err := database.DB.First(&floor, "id = ?", *body.FloorID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Floor not found")
			}
			t.Floor = &floor
		}

		if err := database.DB.Create(&t).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create table")
		}

		if user, err := auth.CurrentUser(c); err == nil {
			audit.WriteLog(audit.LogOptions{
				BranchID:   user.BranchID,
				UserID:     user.ID,
				UserName:   user.Name,
				EntityType: "table",
				EntityID:   t.ID,
				Action:     models.AuditActionCreate,
				After:      t,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(MapTable(t))
	}
}

// PUT /api/tables/:id
func UpdateTableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var t models.Table
		if err := database.DB.Preload("Floor").First(&t, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Table not found")
		}
		before := t

		var body UpdateTableRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.TableNumber != nil {
			number := strings.TrimSpace(string(*body.TableNumber))
			if number == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Table number cannot be empty")
			}
			t.TableNumber = number
		}
		if body.Seats != nil {
			if *body.Seats <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Seats must be greater than 0")
			}
			t.Seats = *body.Seats
		}
		if body.FloorID != nil {
			var floor models.Floor
			if err := database.DB.First(&floor, "id = ?", *body.FloorID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Floor not found")
			}
			t.FloorID = body.FloorID
			t.Floor = &floor
		}
		if body.BranchID != nil {
			t.BranchID = body.BranchID
		}

		if err := database.DB.Save(&t).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update table")
		}

		if user, err := auth.CurrentUser(c); err == nil {
			audit.WriteLog(audit.LogOptions{
				BranchID:   user.BranchID,
				UserID:     user.ID,
				UserName:   user.Name,
				EntityType: "table",
				EntityID:   t.ID,
				Action:     models.AuditActionUpdate,
				Before:     before,
				After:      t,
			})
		}

		return c.JSON(MapTable(t))
	}
}

// PUT /api/tables/:id/status — cashiers flip tables between FREE,
// OCCUPIED and RESERVED; every flip is pushed to connected clients.
func UpdateTableStatusHandler(hub *realtime.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var t models.Table
		if err := database.DB.Preload("Floor").First(&t, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Table not found")
		}

		var body UpdateTableStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if !validStatus(body.Status) {
			return fiber.NewError(fiber.StatusBadRequest, "Status must be FREE, OCCUPIED or RESERVED")
		}

		t.Status = body.Status
		if err := database.DB.Save(&t).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update table status")
		}

		view := MapTable(t)
		hub.Broadcast("table.updated", view)

		return c.JSON(view)
	}
}

// DELETE /api/tables/:id
func DeleteTableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		if err := database.DB.Delete(&models.Table{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete table")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
