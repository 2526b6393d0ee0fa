package admin

import (
	"strings"

	"cafepos-backend/internal/audit"
	"cafepos-backend/internal/auth"
	"cafepos-backend/internal/database"
	"cafepos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type FloorResponse struct {
	ID        uint   `json:"id"`
	BranchID  uint   `json:"branch_id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

type CreateFloorRequest struct {
	Name string `json:"name"`
}

type UpdateFloorRequest struct {
	Name *string `json:"name"`
}

func floorResponse(f models.Floor) FloorResponse {
	return FloorResponse{
		ID:        f.ID,
		BranchID:  f.BranchID,
		Name:      f.Name,
		CreatedAt: f.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// POST /api/admin/branches/:id/floors
func CreateFloorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID := c.Params("id")

		var branch models.Branch
		if err := database.DB.First(&branch, "id = ?", branchID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Branch not found")
		}

		var body CreateFloorRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Floor name cannot be empty")
		}

		floor := models.Floor{
			BranchID: branch.ID,
			Name:     body.Name,
		}

		if err := database.DB.Create(&floor).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create floor")
		}

		if user, err := auth.CurrentUser(c); err == nil {
			audit.WriteLog(audit.LogOptions{
				BranchID:   &branch.ID,
				UserID:     user.ID,
				UserName:   user.Name,
				EntityType: "floor",
				EntityID:   floor.ID,
				Action:     models.AuditActionCreate,
				After:      floor,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(floorResponse(floor))
	}
}

// GET /api/admin/branches/:id/floors
func ListFloorsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID := c.Params("id")

		var floors []models.Floor
		if err := database.DB.
			Where("branch_id = ?", branchID).
			Order("name asc").
			Find(&floors).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list floors")
		}

		res := make([]FloorResponse, 0, len(floors))
		for _, f := range floors {
			res = append(res, floorResponse(f))
		}

		return c.JSON(res)
	}
}

// PUT /api/admin/floors/:id
func UpdateFloorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var floor models.Floor
		if err := database.DB.First(&floor, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Floor not found")
		}
		before := floor

		var body UpdateFloorRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Floor name cannot be empty")
			}
			floor.Name = name
		}

		if err := database.DB.Save(&floor).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update floor")
		}

		if user, err := auth.CurrentUser(c); err == nil {
			audit.WriteLog(audit.LogOptions{
				BranchID:   &floor.BranchID,
				UserID:     user.ID,
				UserName:   user.Name,
				EntityType: "floor",
				EntityID:   floor.ID,
				Action:     models.AuditActionUpdate,
				Before:     before,
				After:      floor,
			})
		}

		return c.JSON(floorResponse(floor))
	}
}

// DELETE /api/admin/floors/:id — tables on the floor stay and fall back
// to the unassigned floor in the API shape.
func DeleteFloorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		if err := database.DB.Model(&models.Table{}).
			Where("floor_id = ?", id).
			Update("floor_id", nil).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not detach tables")
		}

		if err := database.DB.Delete(&models.Floor{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete floor")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
