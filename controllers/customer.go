package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tailortrack-backend/config"
	"tailortrack-backend/models"
	"tailortrack-backend/store"
	"tailortrack-backend/utils"
)

type PhoneInput struct {
	Phone     string `json:"phone" binding:"required"`
	IsPrimary bool   `json:"isPrimary"`
}

// CreateCustomerInput defines the expected JSON structure for creating a customer
type CreateCustomerInput struct {
	Name    string       `json:"name" binding:"required"`
	Address string       `json:"address"`
	Notes   string       `json:"notes"`
	Phones  []PhoneInput `json:"phones" binding:"required,min=1"`
}

// UpdateCustomerInput defines the expected JSON structure for updating a customer
type UpdateCustomerInput struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
}

// CreateCustomer creates a new customer with their phone numbers. Before
// inserting, a fuzzy duplicate check runs against existing customers; when it
// finds candidates the request is answered with 409 and the candidate list so
// staff can review. Passing ?force=true skips the gate after review.
func CreateCustomer(c *gin.Context) {
	var input CreateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	for _, p := range input.Phones {
		if !utils.ValidatePhone(p.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format: "+p.Phone)
			return
		}
	}

	if c.Query("force") != "true" {
		duplicates, err := store.FindDuplicateCustomers(config.DB, input.Name, input.Address)
		if err != nil {
			respondStoreError(c, err, "Customer")
			return
		}
		if len(duplicates) > 0 {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error":   "Possible duplicate customers found",
				"data":    gin.H{"duplicates": duplicates},
			})
			return
		}
	}

	userID := currentUserID(c)
	customer := models.Customer{
		Name:            input.Name,
		Address:         input.Address,
		Notes:           input.Notes,
		CreatedByUserID: userID,
		UpdatedByUserID: userID,
	}
	phones := make([]models.Phone, 0, len(input.Phones))
	for _, p := range input.Phones {
		phones = append(phones, models.Phone{Phone: p.Phone, IsPrimary: p.IsPrimary})
	}

	if err := store.CreateCustomer(config.DB, &customer, phones); err != nil {
		respondStoreError(c, err, "Customer")
		return
	}

	complete, err := store.GetCustomer(config.DB, customer.ID)
	if err != nil {
		respondStoreError(c, err, "Customer")
		return
	}

	utils.RespondWithData(c, http.StatusCreated, complete)
}

// GetCustomers retrieves customers with pagination
func GetCustomers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	customers, err := store.ListCustomers(config.DB, limit, offset)
	if err != nil {
		respondStoreError(c, err, "Customers")
		return
	}

	utils.RespondWithData(c, http.StatusOK, customers)
}

// GetCustomer retrieves a specific customer with phones and bill statistics
func GetCustomer(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	customer, err := store.GetCustomer(config.DB, customerID)
	if err != nil {
		respondStoreError(c, err, "Customer")
		return
	}

	stats, err := store.GetCustomerStats(config.DB, customerID)
	if err != nil {
		respondStoreError(c, err, "Customer")
		return
	}

	utils.RespondWithData(c, http.StatusOK, gin.H{"customer": customer, "stats": stats})
}

// SearchCustomers searches by phone fragment (default) or fuzzy name match
func SearchCustomers(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "Search query is required")
		return
	}

	var customers []models.Customer
	var err error
	switch c.DefaultQuery("type", "phone") {
	case "phone":
		customers, err = store.SearchCustomersByPhone(config.DB, q)
	case "name":
		customers, err = store.SearchCustomersByName(config.DB, q)
	default:
		utils.RespondWithError(c, http.StatusBadRequest, "Search type must be 'phone' or 'name'")
		return
	}
	if err != nil {
		respondStoreError(c, err, "Customers")
		return
	}

	utils.RespondWithData(c, http.StatusOK, customers)
}

// UpdateCustomer updates an existing customer
func UpdateCustomer(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	var input UpdateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	customer, err := store.GetCustomer(config.DB, customerID)
	if err != nil {
		respondStoreError(c, err, "Customer")
		return
	}

	if input.Name != nil {
		customer.Name = *input.Name
	}
	if input.Address != nil {
		customer.Address = *input.Address
	}
	if input.Notes != nil {
		customer.Notes = *input.Notes
	}
	customer.UpdatedByUserID = currentUserID(c)

	if err := store.SaveCustomer(config.DB, customer); err != nil {
		respondStoreError(c, err, "Customer")
		return
	}

	utils.RespondWithData(c, http.StatusOK, customer)
}

// DeleteCustomer soft deletes a customer; bill history stays intact
func DeleteCustomer(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	if err := store.SoftDeleteCustomer(config.DB, customerID, currentUserID(c)); err != nil {
		respondStoreError(c, err, "Customer")
		return
	}

	utils.RespondWithData(c, http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}

// AddPhone attaches a phone number to a customer
func AddPhone(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	var input PhoneInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	phone := models.Phone{
		CustomerID: customerID,
		Phone:      input.Phone,
		IsPrimary:  input.IsPrimary,
	}
	if err := store.AddPhone(config.DB, &phone); err != nil {
		respondStoreError(c, err, "Customer")
		return
	}

	utils.RespondWithData(c, http.StatusCreated, phone)
}

// SetPrimaryPhone marks one of a customer's phones as the preferred contact
func SetPrimaryPhone(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}
	phoneID, err := uuid.Parse(c.Param("phoneId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone ID format")
		return
	}

	phone, err := store.SetPrimaryPhone(config.DB, customerID, phoneID)
	if err != nil {
		respondStoreError(c, err, "Phone")
		return
	}

	utils.RespondWithData(c, http.StatusOK, phone)
}

// DeletePhone removes a customer's phone number
func DeletePhone(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}
	phoneID, err := uuid.Parse(c.Param("phoneId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone ID format")
		return
	}

	if err := store.DeletePhone(config.DB, customerID, phoneID); err != nil {
		respondStoreError(c, err, "Phone")
		return
	}

	utils.RespondWithData(c, http.StatusOK, gin.H{"message": "Phone deleted successfully"})
}
