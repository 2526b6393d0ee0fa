package admin

import (
	"strings"

	"cafepos-backend/internal/audit"
	"cafepos-backend/internal/auth"
	"cafepos-backend/internal/database"
	"cafepos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type BranchResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"created_at"`
}

type CreateBranchRequest struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Phone   *string `json:"phone"` // Optional
}

type UpdateBranchRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}

type CreateBranchAdminRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type BranchAdminResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	BranchID  *uint  `json:"branch_id"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func branchResponse(b models.Branch) BranchResponse {
	return BranchResponse{
		ID:        b.ID,
		Name:      b.Name,
		Address:   b.Address,
		Phone:     b.Phone,
		CreatedAt: b.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// ----------------------------------------
// BRANCH CRUD
// ----------------------------------------

func CreateBranchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateBranchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Branch name cannot be empty")
		}

		branch := models.Branch{
			Name:    body.Name,
			Address: body.Address,
		}
		if body.Phone != nil {
			branch.Phone = strings.TrimSpace(*body.Phone)
		}

		if err := database.DB.Create(&branch).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create branch")
		}

		if user, err := auth.CurrentUser(c); err == nil {
			audit.WriteLog(audit.LogOptions{
				UserID:     user.ID,
				UserName:   user.Name,
				EntityType: "branch",
				EntityID:   branch.ID,
				Action:     models.AuditActionCreate,
				After:      branch,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(branchResponse(branch))
	}
}

func ListBranchesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var branches []models.Branch
		if err := database.DB.Find(&branches).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list branches")
		}

		res := make([]BranchResponse, 0, len(branches))
		for _, b := range branches {
			res = append(res, branchResponse(b))
		}

		return c.JSON(res)
	}
}

func GetBranchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var branch models.Branch
		if err := database.DB.First(&branch, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Branch not found")
		}

		return c.JSON(branchResponse(branch))
	}
}

func UpdateBranchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var branch models.Branch
		if err := database.DB.First(&branch, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Branch not found")
		}
		before := branch

		var body UpdateBranchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Branch name cannot be empty")
			}
			branch.Name = name
		}

		if body.Address != nil {
			branch.Address = *body.Address
		}

		if body.Phone != nil {
			branch.Phone = strings.TrimSpace(*body.Phone)
		}

		if err := database.DB.Save(&branch).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update branch")
		}

		if user, err := auth.CurrentUser(c); err == nil {
			audit.WriteLog(audit.LogOptions{
				UserID:     user.ID,
				UserName:   user.Name,
				EntityType: "branch",
				EntityID:   branch.ID,
				Action:     models.AuditActionUpdate,
				Before:     before,
				After:      branch,
			})
		}

		return c.JSON(branchResponse(branch))
	}
}

func DeleteBranchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		if err := database.DB.Delete(&models.Branch{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete branch")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ----------------------------------------
// BRANCH ADMIN MANAGEMENT
// ----------------------------------------

func CreateBranchAdminHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID := c.Params("id")

		var branch models.Branch
		if err := database.DB.First(&branch, "id = ?", branchID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Branch not found")
		}

		var body CreateBranchAdminRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Email = strings.ToLower(strings.TrimSpace(body.Email))
		body.Name = strings.TrimSpace(body.Name)

		if body.Name == "" || body.Email == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name, email and password are required")
		}

		var exist models.User
		if err := database.DB.Where("email = ?", body.Email).First(&exist).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "This email is already registered")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not hash password")
		}

		user := models.User{
			Name:         body.Name,
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         models.RoleBranchAdmin,
			BranchID:     &branch.ID,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create branch admin")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":        user.ID,
			"name":      user.Name,
			"email":     user.Email,
			"role":      user.Role,
			"branch_id": user.BranchID,
		})
	}
}

// GET /api/admin/branches/:id/admins
func ListBranchAdminsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID := c.Params("id")

		var users []models.User
		if err := database.DB.
			Where("branch_id = ? AND role = ?", branchID, models.RoleBranchAdmin).
			Order("created_at DESC").
			Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list admins")
		}

		res := make([]BranchAdminResponse, 0, len(users))
		for _, u := range users {
			res = append(res, BranchAdminResponse{
				ID:        u.ID,
				Name:      u.Name,
				Email:     u.Email,
				Role:      string(u.Role),
				BranchID:  u.BranchID,
				CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
				UpdatedAt: u.UpdatedAt.Format("2006-01-02 15:04:05"),
			})
		}

		return c.JSON(res)
	}
}
