package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tailortrack-backend/config"
	"tailortrack-backend/models"
)

// setupTestRouter wires the handlers against an in-memory database with a stub
// auth middleware standing in for JWT verification.
func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.Log = zap.NewNop()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Phone{},
		&models.Book{},
		&models.Bill{},
		&models.BillMeasurement{},
		&models.GarmentType{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	config.DB = db

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", uuid.New().String())
		c.Set("role", models.RoleAdmin)
		c.Next()
	})

	api := r.Group("/api")
	{
		customers := api.Group("/customers")
		customers.POST("", CreateCustomer)
		customers.GET("/search", SearchCustomers)
		customers.GET("/:id", GetCustomer)

		books := api.Group("/books")
		books.POST("", CreateBook)
		books.GET("/current", GetCurrentBook)
		books.PUT("/:id/set-current", SetCurrentBook)
		books.GET("/:id/next-folio", GetNextFolio)
		books.GET("/:id/check-folio", CheckFolio)

		bills := api.Group("/bills")
		bills.POST("", CreateBill)
		bills.GET("/:id", GetBill)
		bills.POST("/:id/payments", RecordPayment)
	}

	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return env
}

func createBookViaAPI(t *testing.T, r *gin.Engine, name string, startSerial int, current bool) models.Book {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/books", gin.H{
		"name": name, "startSerial": startSerial, "isCurrent": current,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("book create returned %d: %s", w.Code, w.Body.String())
	}
	var book models.Book
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &book); err != nil {
		t.Fatalf("failed to decode book: %v", err)
	}
	return book
}

func createCustomerViaAPI(t *testing.T, r *gin.Engine, name, phone string) models.Customer {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/customers?force=true", gin.H{
		"name":   name,
		"phones": []gin.H{{"phone": phone}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("customer create returned %d: %s", w.Code, w.Body.String())
	}
	var customer models.Customer
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &customer); err != nil {
		t.Fatalf("failed to decode customer: %v", err)
	}
	return customer
}
