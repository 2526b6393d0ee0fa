package admin

import (
	"strings"

	"cafepos-backend/internal/database"
	"cafepos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateTerminalRequest struct {
	Name     string `json:"name"`
	BranchID uint   `json:"branch_id"`
	UserID   uint   `json:"user_id"`
}

type TerminalResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	BranchID  uint   `json:"branch_id"`
	UserID    uint   `json:"user_id"`
	UserName  string `json:"user_name"`
	CreatedAt string `json:"created_at"`
}

func terminalResponse(t models.Terminal) TerminalResponse {
	res := TerminalResponse{
		ID:        t.ID,
		Name:      t.Name,
		BranchID:  t.BranchID,
		UserID:    t.UserID,
		CreatedAt: t.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if t.User != nil {
		res.UserName = t.User.Name
	}
	return res
}

// POST /api/admin/terminals — binds one branch and one operating user.
func CreateTerminalHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateTerminalRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Terminal name cannot be empty")
		}

		var branch models.Branch
		if err := database.DB.First(&branch, "id = ?", body.BranchID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Branch not found")
		}

		var user models.User
		if err := database.DB.First(&user, "id = ?", body.UserID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "User not found")
		}

		terminal := models.Terminal{
			Name:     body.Name,
			BranchID: branch.ID,
			UserID:   user.ID,
			User:     &user,
		}

		if err := database.DB.Create(&terminal).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create terminal")
		}

		return c.Status(fiber.StatusCreated).JSON(terminalResponse(terminal))
	}
}

// GET /api/admin/terminals?branch_id=1
func ListTerminalsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Terminal{}).Preload("User")

		if branchID := c.QueryInt("branch_id", 0); branchID > 0 {
			dbq = dbq.Where("branch_id = ?", branchID)
		}

		var terminals []models.Terminal
		if err := dbq.Order("created_at DESC").Find(&terminals).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list terminals")
		}

		res := make([]TerminalResponse, 0, len(terminals))
		for _, t := range terminals {
			res = append(res, terminalResponse(t))
		}

		return c.JSON(res)
	}
}

// GET /api/admin/terminals/:id
func GetTerminalHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var terminal models.Terminal
		if err := database.DB.Preload("User").First(&terminal, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Terminal not found")
		}

		return c.JSON(terminalResponse(terminal))
	}
}

// DELETE /api/admin/terminals/:id
func DeleteTerminalHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		if err := database.DB.Delete(&models.Terminal{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete terminal")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
