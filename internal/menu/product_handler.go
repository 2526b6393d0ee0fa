package menu

import (
	"strings"

	"cafepos-backend/internal/audit"
	"cafepos-backend/internal/auth"
	"cafepos-backend/internal/database"
	"cafepos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ProductResponse struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	CategoryID   uint    `json:"category_id"`
	CategoryName string  `json:"category_name,omitempty"`
	Available    bool    `json:"available"`
}

type CreateProductRequest struct {
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	CategoryID uint    `json:"category_id"`
}

type UpdateProductRequest struct {
	Name       *string  `json:"name"`
	Price      *float64 `json:"price"`
	CategoryID *uint    `json:"category_id"`
	Available  *bool    `json:"available"`
}

func productResponse(p models.Product) ProductResponse {
	res := ProductResponse{
		ID:         p.ID,
		Name:       p.Name,
		Price:      p.Price,
		CategoryID: p.CategoryID,
		Available:  p.Available,
	}
	if p.Category != nil {
		res.CategoryName = p.Category.Name
	}
	return res
}

// GET /api/products?category_id=1 (any authenticated user)
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Product{}).Preload("Category")

		if categoryID := c.QueryInt("category_id", 0); categoryID > 0 {
			dbq = dbq.Where("category_id = ?", categoryID)
		}
		if c.Query("available") == "true" {
			dbq = dbq.Where("available = ?", true)
		}

		var products []models.Product
		if err := dbq.Order("name asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list products")
		}

		res := make([]ProductResponse, 0, len(products))
		for _, p := range products {
			res = append(res, productResponse(p))
		}
		return c.JSON(res)
	}
}

// POST /api/admin/products (super_admin only)
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)

		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Product name is required")
		}
		if body.Price < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Price cannot be negative")
		}

		var category models.ProductCategory
		if err := database.DB.First(&category, "id = ?", body.CategoryID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Category not found")
		}

		p := models.Product{
			Name:       body.Name,
			Price:      body.Price,
			CategoryID: category.ID,
			Category:   &category,
			Available:  true,
		}

		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create product")
		}

		if user, err := auth.CurrentUser(c); err == nil {
			audit.WriteLog(audit.LogOptions{
				UserID:     user.ID,
				UserName:   user.Name,
				EntityType: "product",
				EntityID:   p.ID,
				Action:     models.AuditActionCreate,
				After:      p,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(productResponse(p))
	}
}

// PUT /api/admin/products/:id
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var p models.Product
		if err := database.DB.Preload("Category").First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}
		before := p

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Product name cannot be empty")
			}
			p.Name = name
		}
		if body.Price != nil {
			if *body.Price < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Price cannot be negative")
			}
			p.Price = *body.Price
		}
		if body.CategoryID != nil {
			var category models.ProductCategory
			if err := database.DB.First(&category, "id = ?", *body.CategoryID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Category not found")
			}
			p.CategoryID = category.ID
			p.Category = &category
		}
		if body.Available != nil {
			p.Available = *body.Available
		}

		if err := database.DB.Save(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update product")
		}

		if user, err := auth.CurrentUser(c); err == nil {
			audit.WriteLog(audit.LogOptions{
				UserID:     user.ID,
				UserName:   user.Name,
				EntityType: "product",
				EntityID:   p.ID,
				Action:     models.AuditActionUpdate,
				Before:     before,
				After:      p,
			})
		}

		return c.JSON(productResponse(p))
	}
}

// DELETE /api/admin/products/:id
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		if err := database.DB.Delete(&models.Product{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete product")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
