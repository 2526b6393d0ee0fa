package menu

import (
	"strings"

	"cafepos-backend/internal/database"
	"cafepos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CategoryResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
	CreatedAt string `json:"created_at"`
}

type CreateCategoryRequest struct {
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

type UpdateCategoryRequest struct {
	Name      *string `json:"name"`
	SortOrder *int    `json:"sort_order"`
}

func categoryResponse(cat models.ProductCategory) CategoryResponse {
	return CategoryResponse{
		ID:        cat.ID,
		Name:      cat.Name,
		SortOrder: cat.SortOrder,
		CreatedAt: cat.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// GET /api/categories
func ListCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var categories []models.ProductCategory
		if err := database.DB.Order("sort_order asc, name asc").Find(&categories).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list categories")
		}

		res := make([]CategoryResponse, 0, len(categories))
		for _, cat := range categories {
			res = append(res, categoryResponse(cat))
		}
		return c.JSON(res)
	}
}

// POST /api/admin/categories
func CreateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Category name cannot be empty")
		}

		var existing models.ProductCategory
		if err := database.DB.Where("name = ?", body.Name).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "This category already exists")
		}

		cat := models.ProductCategory{
			Name:      body.Name,
			SortOrder: body.SortOrder,
		}

		if err := database.DB.Create(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create category")
		}

		return c.Status(fiber.StatusCreated).JSON(categoryResponse(cat))
	}
}

// PUT /api/admin/categories/:id
func UpdateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var cat models.ProductCategory
		if err := database.DB.First(&cat, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Category not found")
		}

		var body UpdateCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Category name cannot be empty")
			}
			cat.Name = name
		}
		if body.SortOrder != nil {
			cat.SortOrder = *body.SortOrder
		}

		if err := database.DB.Save(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update category")
		}

		return c.JSON(categoryResponse(cat))
	}
}

// DELETE /api/admin/categories/:id
func DeleteCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var count int64
		database.DB.Model(&models.Product{}).Where("category_id = ?", id).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Category still has products")
		}

		if err := database.DB.Delete(&models.ProductCategory{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete category")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
