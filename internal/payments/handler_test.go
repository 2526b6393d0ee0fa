package payments

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"cafepos-backend/internal/database"
	"cafepos-backend/internal/models"
	"cafepos-backend/internal/realtime"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	app      *fiber.App
	order    models.Order
	table    models.Table
	customer models.Customer
}

func setupPaymentFixture(t *testing.T, orderStatus models.OrderStatus) fixture {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	database.DB = db

	branch := models.Branch{Name: "Test Branch"}
	require.NoError(t, db.Create(&branch).Error)

	table := models.Table{TableNumber: "3", Seats: 2, Status: models.TableOccupied, BranchID: &branch.ID}
	require.NoError(t, db.Create(&table).Error)

	customer := models.Customer{ID: uuid.NewString(), Name: "Regular", TotalSales: 10}
	require.NoError(t, db.Create(&customer).Error)

	order := models.Order{
		OrderNumber: "ORD-TEST0001",
		BranchID:    branch.ID,
		TableID:     &table.ID,
		CustomerID:  &customer.ID,
		Type:        models.OrderDineIn,
		Status:      orderStatus,
		Total:       25,
	}
	require.NoError(t, db.Create(&order).Error)

	hub := realtime.NewHub()

	app := fiber.New()
	app.Post("/api/payments", CreatePaymentHandler())
	app.Put("/api/payments/:id/status", UpdatePaymentStatusHandler(hub))
	app.Get("/api/payments", ListPaymentsHandler())

	return fixture{app: app, order: order, table: table, customer: customer}
}

func createPayment(t *testing.T, fx fixture, amount float64) (*http.Response, PaymentResponse) {
	raw, err := json.Marshal(CreatePaymentRequest{
		OrderID: fx.order.ID,
		Method:  models.PaymentCash,
		Amount:  amount,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/payments", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, err := fx.app.Test(req)
	require.NoError(t, err)

	var payment PaymentResponse
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if resp.StatusCode == http.StatusCreated {
		require.NoError(t, json.Unmarshal(data, &payment))
	}
	return resp, payment
}

func putPaymentStatus(t *testing.T, fx fixture, id uint, status models.PaymentStatus) *http.Response {
	raw, err := json.Marshal(UpdatePaymentStatusRequest{Status: status})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut,
		"/api/payments/"+strconv.FormatUint(uint64(id), 10)+"/status", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, err := fx.app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestCreatePayment_AmountMustMatchOrderTotal(t *testing.T) {
	fx := setupPaymentFixture(t, models.OrderReady)

	resp, _ := createPayment(t, fx, 20)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, payment := createPayment(t, fx, 25)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, models.PaymentPending, payment.Status)
}

func TestCompletePayment_CompletesOrderFreesTableAndBumpsCustomer(t *testing.T) {
	fx := setupPaymentFixture(t, models.OrderReady)

	resp, payment := createPayment(t, fx, 25)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = putPaymentStatus(t, fx, payment.ID, models.PaymentCompleted)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var order models.Order
	require.NoError(t, database.DB.First(&order, fx.order.ID).Error)
	assert.Equal(t, models.OrderCompleted, order.Status)

	var table models.Table
	require.NoError(t, database.DB.First(&table, fx.table.ID).Error)
	assert.Equal(t, models.TableFree, table.Status)

	var customer models.Customer
	require.NoError(t, database.DB.First(&customer, "id = ?", fx.customer.ID).Error)
	assert.InDelta(t, 35, customer.TotalSales, 0.001, "10 existing + 25 paid")
}

func TestCompletePayment_OrderMustBeReady(t *testing.T) {
	fx := setupPaymentFixture(t, models.OrderCreated)

	resp, payment := createPayment(t, fx, 25)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = putPaymentStatus(t, fx, payment.ID, models.PaymentCompleted)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var order models.Order
	require.NoError(t, database.DB.First(&order, fx.order.ID).Error)
	assert.Equal(t, models.OrderCreated, order.Status, "failed completion must not move the order")
}

func TestFailPayment_LeavesOrderAlone(t *testing.T) {
	fx := setupPaymentFixture(t, models.OrderReady)

	resp, payment := createPayment(t, fx, 25)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = putPaymentStatus(t, fx, payment.ID, models.PaymentFailed)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var order models.Order
	require.NoError(t, database.DB.First(&order, fx.order.ID).Error)
	assert.Equal(t, models.OrderReady, order.Status)

	// a failed payment is final
	resp = putPaymentStatus(t, fx, payment.ID, models.PaymentCompleted)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}
