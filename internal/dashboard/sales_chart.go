package dashboard

import (
	"time"

	"cafepos-backend/internal/database"
	"cafepos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SalesChartPoint struct {
	Hour  int     `json:"hour"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

type SalesChartResponse struct {
	Date       string            `json:"date"`
	Points     []SalesChartPoint `json:"points"`
	GrandTotal float64           `json:"grand_total"`
}

// GET /api/dashboard/sales-chart?date=2026-08-28
// Hourly totals of completed payments for one day. Bucketing happens in
// Go so the query stays portable between postgres and the test database.
func SalesChartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		day := time.Now()
		if dateStr := c.Query("date"); dateStr != "" {
			parsed, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
			}
			day = parsed
		}

		from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.Local)
		to := from.AddDate(0, 0, 1)

		var payments []models.Payment
		if err := database.DB.
			Where("status = ? AND created_at >= ? AND created_at < ?", models.PaymentCompleted, from, to).
			Find(&payments).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load payments")
		}

		points := make([]SalesChartPoint, 24)
		for i := range points {
			points[i].Hour = i
		}

		var grandTotal float64
		for _, p := range payments {
			h := p.CreatedAt.In(time.Local).Hour()
			points[h].Total += p.Amount
			points[h].Count++
			grandTotal += p.Amount
		}

		return c.JSON(SalesChartResponse{
			Date:       from.Format("2006-01-02"),
			Points:     points,
			GrandTotal: grandTotal,
		})
	}
}
