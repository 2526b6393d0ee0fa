package customers

import (
	"strings"

	"cafepos-backend/internal/database"
	"cafepos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateCustomerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type UpdateCustomerRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Email *string `json:"email"`
}

type CustomerResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Phone      string  `json:"phone"`
	Email      string  `json:"email"`
	TotalSales float64 `json:"total_sales"`
	CreatedAt  string  `json:"created_at"`
}

func customerResponse(cu models.Customer) CustomerResponse {
	return CustomerResponse{
		ID:         cu.ID,
		Name:       cu.Name,
		Phone:      cu.Phone,
		Email:      cu.Email,
		TotalSales: cu.TotalSales,
		CreatedAt:  cu.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// POST /api/customers — fresh uuid, sales always start at zero.
func CreateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Customer name is required")
		}

		customer := models.Customer{
			ID:         uuid.NewString(),
			Name:       body.Name,
			Phone:      strings.TrimSpace(body.Phone),
			Email:      strings.TrimSpace(strings.ToLower(body.Email)),
			TotalSales: 0,
		}

		if err := database.DB.Create(&customer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create customer")
		}

		return c.Status(fiber.StatusCreated).JSON(customerResponse(customer))
	}
}

// GET /api/customers?q=ali
func ListCustomersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Customer{})

		if q := strings.TrimSpace(c.Query("q")); q != "" {
			like := "%" + q + "%"
			dbq = dbq.Where("name LIKE ? OR phone LIKE ?", like, like)
		}

		var customerRows []models.Customer
		if err := dbq.Order("created_at DESC").Find(&customerRows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list customers")
		}

		res := make([]CustomerResponse, 0, len(customerRows))
		for _, cu := range customerRows {
			res = append(res, customerResponse(cu))
		}
		return c.JSON(fiber.Map{"customers": res})
	}
}

// GET /api/customers/:id
func GetCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var customer models.Customer
		if err := database.DB.First(&customer, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Customer not found")
		}

		return c.JSON(customerResponse(customer))
	}
}

// PUT /api/customers/:id — merge of the provided fields only.
func UpdateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var customer models.Customer
		if err := database.DB.First(&customer, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Customer not found")
		}

		var body UpdateCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Customer name cannot be empty")
			}
			customer.Name = name
		}
		if body.Phone != nil {
			customer.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.Email != nil {
			customer.Email = strings.TrimSpace(strings.ToLower(*body.Email))
		}

		if err := database.DB.Save(&customer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update customer")
		}

		return c.JSON(customerResponse(customer))
	}
}

// DELETE /api/customers/:id — idempotent: deleting an id that does not
// exist is a no-op and still answers 204.
func DeleteCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		if err := database.DB.Delete(&models.Customer{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete customer")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
