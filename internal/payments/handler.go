package payments

import (
	"fmt"
	"math"
	"time"

	"cafepos-backend/internal/database"
	"cafepos-backend/internal/metrics"
	"cafepos-backend/internal/models"
	"cafepos-backend/internal/orders"
	"cafepos-backend/internal/realtime"
	"cafepos-backend/internal/tables"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreatePaymentRequest struct {
	OrderID uint                 `json:"order_id"`
	Method  models.PaymentMethod `json:"method"`
	Amount  float64              `json:"amount"`
}

type UpdatePaymentStatusRequest struct {
	Status models.PaymentStatus `json:"status"`
}

type PaymentResponse struct {
	ID        uint                 `json:"id"`
	OrderID   uint                 `json:"order_id"`
	Method    models.PaymentMethod `json:"method"`
	Status    models.PaymentStatus `json:"status"`
	Amount    float64              `json:"amount"`
	CreatedAt string               `json:"created_at"`
}

type MonthlySummaryItem struct {
	Method models.PaymentMethod `json:"method"`
	Total  float64              `json:"total"`
}

type MonthlySummaryResponse struct {
	Year       int                  `json:"year"`
	Month      int                  `json:"month"`
	Items      []MonthlySummaryItem `json:"items"`
	GrandTotal float64              `json:"grand_total"`
}

func paymentResponse(p models.Payment) PaymentResponse {
	return PaymentResponse{
		ID:        p.ID,
		OrderID:   p.OrderID,
		Method:    p.Method,
		Status:    p.Status,
		Amount:    p.Amount,
		CreatedAt: p.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func validMethod(m models.PaymentMethod) bool {
	switch m {
	case models.PaymentCash, models.PaymentCard, models.PaymentUPI:
		return true
	}
	return false
}

// POST /api/payments — a payment starts PENDING and must cover the full
// order total; split payments are not supported.
func CreatePaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePaymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if !validMethod(body.Method) {
			return fiber.NewError(fiber.StatusBadRequest, "Method must be CASH, CARD or UPI")
		}

		var order models.Order
		if err := database.DB.First(&order, "id = ?", body.OrderID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Order not found")
		}
		if order.Status == models.OrderCompleted {
			return fiber.NewError(fiber.StatusConflict, "Order is already completed")
		}

		if math.Abs(body.Amount-order.Total) > 0.009 {
			return fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("Amount must equal the order total (%.2f)", order.Total))
		}

		payment := models.Payment{
			OrderID: order.ID,
			Method:  body.Method,
			Status:  models.PaymentPending,
			Amount:  body.Amount,
		}

		if err := database.DB.Create(&payment).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create payment")
		}

		return c.Status(fiber.StatusCreated).JSON(paymentResponse(payment))
	}
}

// PUT /api/payments/:id/status — PENDING may move to COMPLETED or FAILED.
// Completing a payment completes its READY order, frees the table and
// adds the amount to the customer's running total, all in one transaction.
func UpdatePaymentStatusHandler(hub *realtime.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var payment models.Payment
		if err := database.DB.First(&payment, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Payment not found")
		}

		var body UpdatePaymentStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if payment.Status != models.PaymentPending {
			return fiber.NewError(fiber.StatusConflict, "Only pending payments can change status")
		}
		if body.Status != models.PaymentCompleted && body.Status != models.PaymentFailed {
			return fiber.NewError(fiber.StatusBadRequest, "Status must be COMPLETED or FAILED")
		}

		if body.Status == models.PaymentFailed {
			payment.Status = models.PaymentFailed
			if err := database.DB.Save(&payment).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not update payment")
			}
			return c.JSON(paymentResponse(payment))
		}

		var freedTable *models.Table

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			var order models.Order
			if err := tx.First(&order, "id = ?", payment.OrderID).Error; err != nil {
				return err
			}

			if err := orders.CanTransition(order.Status, models.OrderCompleted); err != nil {
				return fiber.NewError(fiber.StatusConflict, err.Error())
			}
			order.Status = models.OrderCompleted
			if err := tx.Save(&order).Error; err != nil {
				return err
			}

			if order.TableID != nil {
				var table models.Table
				if err := tx.Preload("Floor").First(&table, "id = ?", *order.TableID).Error; err == nil {
					table.Status = models.TableFree
					if err := tx.Save(&table).Error; err != nil {
						return err
					}
					freedTable = &table
				}
			}

			if order.CustomerID != nil {
				if err := tx.Model(&models.Customer{}).
					Where("id = ?", *order.CustomerID).
					Update("total_sales", gorm.Expr("total_sales + ?", payment.Amount)).Error; err != nil {
					return err
				}
			}

			payment.Status = models.PaymentCompleted
			return tx.Save(&payment).Error
		})
		if txErr != nil {
			if e, ok := txErr.(*fiber.Error); ok {
				return e
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not complete payment")
		}

		metrics.PaymentsCompleted.Inc()

		view := paymentResponse(payment)
		hub.Broadcast("payment.completed", view)
		if freedTable != nil {
			hub.Broadcast("table.updated", tables.MapTable(*freedTable))
		}

		return c.JSON(view)
	}
}

// GET /api/payments?status=COMPLETED&order_id=1
func ListPaymentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Payment{})

		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", status)
		}
		if orderID := c.QueryInt("order_id", 0); orderID > 0 {
			dbq = dbq.Where("order_id = ?", orderID)
		}

		var paymentRows []models.Payment
		if err := dbq.Order("created_at DESC").Limit(200).Find(&paymentRows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list payments")
		}

		res := make([]PaymentResponse, 0, len(paymentRows))
		for _, p := range paymentRows {
			res = append(res, paymentResponse(p))
		}
		return c.JSON(res)
	}
}

// GET /api/payments/summary/monthly?year=2026&month=8
func MonthlySummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		now := time.Now()
		year := c.QueryInt("year", now.Year())
		month := c.QueryInt("month", int(now.Month()))
		if month < 1 || month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "month is invalid")
		}

		from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
		to := from.AddDate(0, 1, 0)

		type row struct {
			Method models.PaymentMethod
			Total  float64
		}
		var rows []row
		if err := database.DB.Model(&models.Payment{}).
			Select("method, SUM(amount) as total").
			Where("status = ? AND created_at >= ? AND created_at < ?", models.PaymentCompleted, from, to).
			Group("method").
			Scan(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not build summary")
		}

		res := MonthlySummaryResponse{
			Year:  year,
			Month: month,
			Items: make([]MonthlySummaryItem, 0, len(rows)),
		}
		for _, r := range rows {
			res.Items = append(res.Items, MonthlySummaryItem{Method: r.Method, Total: r.Total})
			res.GrandTotal += r.Total
		}

		return c.JSON(res)
	}
}
