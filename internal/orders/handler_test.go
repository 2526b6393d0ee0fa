package orders

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"cafepos-backend/internal/auth"
	"cafepos-backend/internal/database"
	"cafepos-backend/internal/models"
	"cafepos-backend/internal/realtime"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	app     *fiber.App
	branch  models.Branch
	table   models.Table
	product models.Product
}

func setupOrderFixture(t *testing.T) fixture {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	database.DB = db

	branch := models.Branch{Name: "Test Branch"}
	require.NoError(t, db.Create(&branch).Error)

	user := models.User{
		Name: "Cashier", Email: "cashier@example.com", PasswordHash: "x",
		Role: models.RoleCashier, BranchID: &branch.ID,
	}
	require.NoError(t, db.Create(&user).Error)

	category := models.ProductCategory{Name: "Drinks"}
	require.NoError(t, db.Create(&category).Error)

	product := models.Product{Name: "Latte", Price: 4.5, CategoryID: category.ID, Available: true}
	require.NoError(t, db.Create(&product).Error)

	table := models.Table{TableNumber: "1", Seats: 4, Status: models.TableFree, BranchID: &branch.ID}
	require.NoError(t, db.Create(&table).Error)

	hub := realtime.NewHub()

	app := fiber.New()
	// stand-in for the JWT middleware: tests run as this cashier
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxUserIDKey, user.ID)
		c.Locals(auth.CtxUserRoleKey, user.Role)
		c.Locals(auth.CtxBranchIDKey, user.BranchID)
		c.Locals(auth.CtxUserKey, &user)
		return c.Next()
	})
	app.Post("/api/orders", CreateOrderHandler(hub))
	app.Get("/api/orders/:id", GetOrderHandler())
	app.Put("/api/orders/:id/status", UpdateOrderStatusHandler(hub))

	return fixture{app: app, branch: branch, table: table, product: product}
}

func postOrder(t *testing.T, app *fiber.App, body CreateOrderRequest) (*http.Response, []byte) {
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestCreateOrder_DineInRequiresTable(t *testing.T) {
	fx := setupOrderFixture(t)

	resp, _ := postOrder(t, fx.app, CreateOrderRequest{
		Type:  models.OrderDineIn,
		Items: []CreateOrderItem{{ProductID: fx.product.ID, Quantity: 1}},
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateOrder_ComputesTotalAndOccupiesTable(t *testing.T) {
	fx := setupOrderFixture(t)

	resp, data := postOrder(t, fx.app, CreateOrderRequest{
		Type:    models.OrderDineIn,
		TableID: &fx.table.ID,
		Items:   []CreateOrderItem{{ProductID: fx.product.ID, Quantity: 3}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))

	var created OrderResponse
	require.NoError(t, json.Unmarshal(data, &created))

	assert.Equal(t, models.OrderCreated, created.Status)
	assert.InDelta(t, 13.5, created.Total, 0.001, "3 x 4.50")
	assert.NotEmpty(t, created.OrderNumber)
	require.Len(t, created.Items, 1)
	assert.Equal(t, "Latte", created.Items[0].Name)
	assert.InDelta(t, 4.5, created.Items[0].UnitPrice, 0.001)

	var table models.Table
	require.NoError(t, database.DB.First(&table, fx.table.ID).Error)
	assert.Equal(t, models.TableOccupied, table.Status)
}

func TestCreateOrder_Validation(t *testing.T) {
	fx := setupOrderFixture(t)

	tests := []struct {
		name string
		body CreateOrderRequest
	}{
		{
			name: "empty items",
			body: CreateOrderRequest{Type: models.OrderTakeaway},
		},
		{
			name: "unknown type",
			body: CreateOrderRequest{Type: "DELIVERY", Items: []CreateOrderItem{{ProductID: fx.product.ID, Quantity: 1}}},
		},
		{
			name: "zero quantity",
			body: CreateOrderRequest{Type: models.OrderTakeaway, Items: []CreateOrderItem{{ProductID: fx.product.ID, Quantity: 0}}},
		},
		{
			name: "unknown product",
			body: CreateOrderRequest{Type: models.OrderTakeaway, Items: []CreateOrderItem{{ProductID: 9999, Quantity: 1}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := postOrder(t, fx.app, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestUpdateOrderStatus_WalksTheLifecycle(t *testing.T) {
	fx := setupOrderFixture(t)

	resp, data := postOrder(t, fx.app, CreateOrderRequest{
		Type:  models.OrderTakeaway,
		Items: []CreateOrderItem{{ProductID: fx.product.ID, Quantity: 1}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created OrderResponse
	require.NoError(t, json.Unmarshal(data, &created))

	putStatus := func(status models.OrderStatus) *http.Response {
		raw, err := json.Marshal(UpdateOrderStatusRequest{Status: status})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPut,
			"/api/orders/"+strconv.FormatUint(uint64(created.ID), 10)+"/status", bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		resp, err := fx.app.Test(req)
		require.NoError(t, err)
		return resp
	}

	// skipping ahead is rejected
	assert.Equal(t, http.StatusConflict, putStatus(models.OrderCompleted).StatusCode)

	assert.Equal(t, http.StatusOK, putStatus(models.OrderInProgress).StatusCode)
	assert.Equal(t, http.StatusOK, putStatus(models.OrderReady).StatusCode)
	assert.Equal(t, http.StatusOK, putStatus(models.OrderCompleted).StatusCode)

	// terminal
	assert.Equal(t, http.StatusConflict, putStatus(models.OrderInProgress).StatusCode)
}
