package customers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"cafepos-backend/internal/database"
	"cafepos-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	database.DB = db
}

func newCustomerApp() *fiber.App {
	app := fiber.New()
	app.Post("/api/customers", CreateCustomerHandler())
	app.Get("/api/customers", ListCustomersHandler())
	app.Get("/api/customers/:id", GetCustomerHandler())
	app.Put("/api/customers/:id", UpdateCustomerHandler())
	app.Delete("/api/customers/:id", DeleteCustomerHandler())
	return app
}

func postCustomer(t *testing.T, app *fiber.App, name string) CustomerResponse {
	body, err := json.Marshal(CreateCustomerRequest{Name: name})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/customers", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var created CustomerResponse
	require.NoError(t, json.Unmarshal(raw, &created))
	return created
}

func TestCreateCustomer_ZeroSalesAndUniqueIDs(t *testing.T) {
	setupTestDB(t)
	app := newCustomerApp()

	seen := make(map[string]bool, 1000)
	for i := 0; i < 1000; i++ {
		created := postCustomer(t, app, fmt.Sprintf("Customer %d", i))

		require.NotEmpty(t, created.ID)
		require.False(t, seen[created.ID], "duplicate customer id after %d insertions", i)
		seen[created.ID] = true

		require.Zero(t, created.TotalSales)
	}

	var count int64
	require.NoError(t, database.DB.Model(&models.Customer{}).Count(&count).Error)
	assert.EqualValues(t, 1000, count)
}

func TestDeleteCustomer_IdempotentNoOp(t *testing.T) {
	setupTestDB(t)
	app := newCustomerApp()

	kept := postCustomer(t, app, "Keep Me")

	req := httptest.NewRequest(http.MethodDelete, "/api/customers/does-not-exist", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	var count int64
	require.NoError(t, database.DB.Model(&models.Customer{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "deleting a missing id must not touch other rows")

	// deleting twice is also fine
	req = httptest.NewRequest(http.MethodDelete, "/api/customers/"+kept.ID, nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	req = httptest.NewRequest(http.MethodDelete, "/api/customers/"+kept.ID, nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestUpdateCustomer_PartialMerge(t *testing.T) {
	setupTestDB(t)
	app := newCustomerApp()

	created := postCustomer(t, app, "Before")

	phone := "555-1234"
	body, err := json.Marshal(UpdateCustomerRequest{Phone: &phone})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/api/customers/"+created.ID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var updated CustomerResponse
	require.NoError(t, json.Unmarshal(raw, &updated))

	assert.Equal(t, "Before", updated.Name, "omitted fields stay untouched")
	assert.Equal(t, phone, updated.Phone)
}

func TestUpdateCustomer_NotFound(t *testing.T) {
	setupTestDB(t)
	app := newCustomerApp()

	name := "Ghost"
	body, err := json.Marshal(UpdateCustomerRequest{Name: &name})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/api/customers/nope", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
