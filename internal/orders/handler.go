package orders

import (
	"fmt"
	"strings"

	"cafepos-backend/internal/auth"
	"cafepos-backend/internal/database"
	"cafepos-backend/internal/metrics"
	"cafepos-backend/internal/models"
	"cafepos-backend/internal/realtime"
	"cafepos-backend/internal/tables"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MsgTableRequired is returned when a dine-in order arrives without a
// table. Kept as a constant because terminal clients match on it.
const MsgTableRequired = "A table is required for dine-in orders"

type CreateOrderItem struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type CreateOrderRequest struct {
	Type       models.OrderType  `json:"type"`
	TableID    *uint             `json:"table_id"`
	CustomerID *string           `json:"customer_id"`
	Items      []CreateOrderItem `json:"items"`
	// super_admin only; branch admins and cashiers order on their own branch
	BranchID *uint `json:"branch_id"`
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

type OrderItemResponse struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

type OrderResponse struct {
	ID          uint                `json:"id"`
	OrderNumber string              `json:"order_number"`
	BranchID    uint                `json:"branch_id"`
	TableID     *uint               `json:"table_id"`
	CustomerID  *string             `json:"customer_id"`
	Type        models.OrderType    `json:"type"`
	Status      models.OrderStatus  `json:"status"`
	Total       float64             `json:"total"`
	Items       []OrderItemResponse `json:"items"`
	CreatedAt   string              `json:"created_at"`
}

func orderResponse(o models.Order) OrderResponse {
	res := OrderResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		BranchID:    o.BranchID,
		TableID:     o.TableID,
		CustomerID:  o.CustomerID,
		Type:        o.Type,
		Status:      o.Status,
		Total:       o.Total,
		Items:       make([]OrderItemResponse, 0, len(o.Items)),
		CreatedAt:   o.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	for _, item := range o.Items {
		res.Items = append(res.Items, OrderItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}
	return res
}

func newOrderNumber() string {
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}

// branch id for the request: non-super-admins use their own branch,
// super_admin must say which one.
func resolveBranchID(c *fiber.Ctx, bodyBranchID *uint) (uint, error) {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return 0, err
	}

	if user.Role != models.RoleSuperAdmin {
		if user.BranchID == nil {
			return 0, fiber.NewError(fiber.StatusForbidden, "Branch information missing")
		}
		return *user.BranchID, nil
	}

	if bodyBranchID == nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "branch_id is required")
	}
	return *bodyBranchID, nil
}

// POST /api/orders
func CreateOrderHandler(hub *realtime.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Type != models.OrderDineIn && body.Type != models.OrderTakeaway {
			return fiber.NewError(fiber.StatusBadRequest, "Type must be DINE_IN or TAKEAWAY")
		}
		if body.Type == models.OrderDineIn && body.TableID == nil {
			return fiber.NewError(fiber.StatusBadRequest, MsgTableRequired)
		}
		if len(body.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "An order needs at least one item")
		}
		for _, item := range body.Items {
			if item.Quantity <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Item quantity must be greater than 0")
			}
		}

		branchID, err := resolveBranchID(c, body.BranchID)
		if err != nil {
			return err
		}

		if body.CustomerID != nil {
			var customer models.Customer
			if err := database.DB.First(&customer, "id = ?", *body.CustomerID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Customer not found")
			}
		}

		order := models.Order{
			OrderNumber: newOrderNumber(),
			BranchID:    branchID,
			TableID:     body.TableID,
			CustomerID:  body.CustomerID,
			Type:        body.Type,
			Status:      models.OrderCreated,
		}

		var occupiedTable *models.Table

		// Price snapshot, order row and table occupancy move together.
		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			for _, item := range body.Items {
				var product models.Product
				if err := tx.First(&product, "id = ?", item.ProductID).Error; err != nil {
					return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Product %d not found", item.ProductID))
				}
				if !product.Available {
					return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Product %q is not available", product.Name))
				}
				order.Items = append(order.Items, models.OrderItem{
					ProductID: product.ID,
					Name:      product.Name,
					UnitPrice: product.Price,
					Quantity:  item.Quantity,
				})
				order.Total += product.Price * float64(item.Quantity)
			}

			if body.TableID != nil {
				var table models.Table
				if err := tx.Preload("Floor").First(&table, "id = ?", *body.TableID).Error; err != nil {
					return fiber.NewError(fiber.StatusBadRequest, "Table not found")
				}
				table.Status = models.TableOccupied
				if err := tx.Save(&table).Error; err != nil {
					return err
				}
				occupiedTable = &table
			}

			return tx.Create(&order).Error
		})
		if txErr != nil {
			if e, ok := txErr.(*fiber.Error); ok {
				return e
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create order")
		}

		metrics.OrdersCreated.Inc()

		view := orderResponse(order)
		hub.Broadcast("order.created", view)
		if occupiedTable != nil {
			hub.Broadcast("table.updated", tables.MapTable(*occupiedTable))
		}

		return c.Status(fiber.StatusCreated).JSON(view)
	}
}

// GET /api/orders?status=CREATED&branch_id=1
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Order{}).Preload("Items")

		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", status)
		}
		if branchID := c.QueryInt("branch_id", 0); branchID > 0 {
			dbq = dbq.Where("branch_id = ?", branchID)
		}

		var orders []models.Order
		if err := dbq.Order("created_at DESC").Limit(200).Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list orders")
		}

		res := make([]OrderResponse, 0, len(orders))
		for _, o := range orders {
			res = append(res, orderResponse(o))
		}
		return c.JSON(fiber.Map{"orders": res})
	}
}

// GET /api/orders/:id
func GetOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var order models.Order
		if err := database.DB.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Order not found")
		}

		return c.JSON(orderResponse(order))
	}
}

// PUT /api/orders/:id/status
func UpdateOrderStatusHandler(hub *realtime.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var order models.Order
		if err := database.DB.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Order not found")
		}

		var body UpdateOrderStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if err := CanTransition(order.Status, body.Status); err != nil {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}

		order.Status = body.Status
		if err := database.DB.Save(&order).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update order status")
		}

		view := orderResponse(order)
		hub.Broadcast("order.status_changed", view)

		return c.JSON(view)
	}
}
