package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"tailortrack-backend/models"
)

func TestCreateCustomerDuplicateGate(t *testing.T) {
	r := setupTestRouter(t)
	createCustomerViaAPI(t, r, "Ramesh Kumar", "9876543210")

	// Near-identical name is blocked with the candidate list
	w := doJSON(t, r, http.MethodPost, "/api/customers", gin.H{
		"name":   "Ramesh Kumarr",
		"phones": []gin.H{{"phone": "9876543211"}},
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 from duplicate gate, got %d: %s", w.Code, w.Body.String())
	}
	var payload struct {
		Duplicates []models.Customer `json:"duplicates"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &payload); err != nil {
		t.Fatalf("failed to decode duplicates: %v", err)
	}
	if len(payload.Duplicates) == 0 {
		t.Errorf("expected duplicate candidates in response")
	}

	// force=true overrides after review
	w = doJSON(t, r, http.MethodPost, "/api/customers?force=true", gin.H{
		"name":   "Ramesh Kumarr",
		"phones": []gin.H{{"phone": "9876543211"}},
	})
	if w.Code != http.StatusCreated {
		t.Errorf("expected forced create to succeed, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateCustomerPhoneValidation(t *testing.T) {
	r := setupTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/customers", gin.H{
		"name":   "Ramesh Kumar",
		"phones": []gin.H{{"phone": "12ab"}},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed phone, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/customers", gin.H{
		"name": "Ramesh Kumar",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 when no phones given, got %d", w.Code)
	}
}

func TestSearchCustomersEndpoint(t *testing.T) {
	r := setupTestRouter(t)
	createCustomerViaAPI(t, r, "Ramesh Kumar", "9876543210")
	createCustomerViaAPI(t, r, "Anita Sharma", "9123456789")

	w := doJSON(t, r, http.MethodGet, "/api/customers/search?q=6543", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("phone search returned %d: %s", w.Code, w.Body.String())
	}
	var hits []models.Customer
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &hits); err != nil {
		t.Fatalf("failed to decode hits: %v", err)
	}
	if len(hits) != 1 || hits[0].Name != "Ramesh Kumar" {
		t.Errorf("expected phone search to find Ramesh Kumar, got %d hits", len(hits))
	}

	w = doJSON(t, r, http.MethodGet, "/api/customers/search?q=Anita&type=name", nil)
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &hits); err != nil {
		t.Fatalf("failed to decode hits: %v", err)
	}
	if len(hits) == 0 || hits[0].Name != "Anita Sharma" {
		t.Errorf("expected name search to find Anita Sharma")
	}

	w = doJSON(t, r, http.MethodGet, "/api/customers/search", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without query, got %d", w.Code)
	}
}
