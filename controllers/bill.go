package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"tailortrack-backend/config"
	"tailortrack-backend/models"
	"tailortrack-backend/services"
	"tailortrack-backend/store"
	"tailortrack-backend/utils"
)

const dateLayout = "2006-01-02"

// deliveryItem pairs a bill with its delivery bucket, recomputed against the
// current date on every request.
type deliveryItem struct {
	models.Bill
	DeliveryBucket store.DeliveryBucket `json:"deliveryBucket"`
}

func withBuckets(bills []models.Bill, now time.Time) []deliveryItem {
	items := make([]deliveryItem, 0, len(bills))
	for _, b := range bills {
		items = append(items, deliveryItem{Bill: b, DeliveryBucket: store.ClassifyDelivery(&b, now)})
	}
	return items
}

// CreateBill records a new bill from the multipart intake form. The optional
// bill photo is normalized and thumbnailed before the row is written. A folio
// collision answers 409 so the client can refetch the next folio and retry.
func CreateBill(c *gin.Context) {
	bookID, err := uuid.Parse(c.PostForm("bookId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Book ID, Customer ID, and Folio Number are required")
		return
	}
	customerID, err := uuid.Parse(c.PostForm("customerId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Book ID, Customer ID, and Folio Number are required")
		return
	}
	folio, err := strconv.Atoi(c.PostForm("folioNumber"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Book ID, Customer ID, and Folio Number are required")
		return
	}

	status := c.DefaultPostForm("status", models.StatusPending)
	if !models.ValidStatus(status) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid status: "+status)
		return
	}

	billDate := time.Now()
	if v := c.PostForm("billDate"); v != "" {
		if billDate, err = time.Parse(dateLayout, v); err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid bill date, expected YYYY-MM-DD")
			return
		}
	}
	var deliveryDate *time.Time
	if v := c.PostForm("deliveryDate"); v != "" {
		d, err := time.Parse(dateLayout, v)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid delivery date, expected YYYY-MM-DD")
			return
		}
		deliveryDate = &d
	}

	var totalAmount, advancePaid float64
	if v := c.PostForm("totalAmount"); v != "" {
		if totalAmount, err = strconv.ParseFloat(v, 64); err != nil || totalAmount < 0 {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid total amount")
			return
		}
	}
	if v := c.PostForm("advancePaid"); v != "" {
		if advancePaid, err = strconv.ParseFloat(v, 64); err != nil || advancePaid < 0 {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid advance amount")
			return
		}
	}

	var imageURL, thumbnailURL string
	if file, err := c.FormFile("image"); err == nil {
		imageURL, thumbnailURL, err = services.ProcessBillImage(file)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	userID := currentUserID(c)
	bill := models.Bill{
		BookID:          bookID,
		CustomerID:      customerID,
		FolioNumber:     folio,
		ImageURL:        imageURL,
		ThumbnailURL:    thumbnailURL,
		BillDate:        billDate,
		DeliveryDate:    deliveryDate,
		TotalAmount:     totalAmount,
		AdvancePaid:     advancePaid,
		Status:          status,
		Remarks:         c.PostForm("remarks"),
		CreatedByUserID: userID,
		UpdatedByUserID: userID,
	}

	if err := store.CreateBill(config.DB, &bill); err != nil {
		respondStoreError(c, err, "Bill")
		return
	}

	complete, err := store.GetBill(config.DB, bill.ID)
	if err != nil {
		respondStoreError(c, err, "Bill")
		return
	}
	utils.RespondWithData(c, http.StatusCreated, complete)
}

// GetBills lists bills with optional book/status/date filters
func GetBills(c *gin.Context) {
	var filter store.BillFilter

	if v := c.Query("bookId"); v != "" {
		bookID, err := uuid.Parse(v)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid book ID format")
			return
		}
		filter.BookID = &bookID
	}
	if v := c.Query("status"); v != "" {
		if !models.ValidStatus(v) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid status: "+v)
			return
		}
		filter.Status = v
	}
	if v := c.Query("fromDate"); v != "" {
		d, err := time.Parse(dateLayout, v)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid from date, expected YYYY-MM-DD")
			return
		}
		filter.FromDate = &d
	}
	if v := c.Query("toDate"); v != "" {
		d, err := time.Parse(dateLayout, v)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid to date, expected YYYY-MM-DD")
			return
		}
		filter.ToDate = &d
	}
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	bills, err := store.ListBills(config.DB, filter)
	if err != nil {
		respondStoreError(c, err, "Bills")
		return
	}
	utils.RespondWithData(c, http.StatusOK, bills)
}

// GetBillStats aggregates live bills, optionally for one book
func GetBillStats(c *gin.Context) {
	var bookID *uuid.UUID
	if v := c.Query("bookId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid book ID format")
			return
		}
		bookID = &id
	}

	stats, err := store.GetBillStats(config.DB, bookID, time.Now())
	if err != nil {
		respondStoreError(c, err, "Stats")
		return
	}
	utils.RespondWithData(c, http.StatusOK, stats)
}

// GetDueDeliveries lists undelivered bills due today or earlier
func GetDueDeliveries(c *gin.Context) {
	asOf := time.Now()
	if v := c.Query("date"); v != "" {
		d, err := time.Parse(dateLayout, v)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		asOf = d
	}

	bills, err := store.DueDeliveries(config.DB, asOf)
	if err != nil {
		respondStoreError(c, err, "Bills")
		return
	}
	utils.RespondWithData(c, http.StatusOK, withBuckets(bills, asOf))
}

// GetUpcomingDeliveries lists bills due within the next N days (default 3)
func GetUpcomingDeliveries(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "3"))
	if err != nil || days < 1 {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid days value")
		return
	}

	now := time.Now()
	bills, err := store.UpcomingDeliveries(config.DB, now, days)
	if err != nil {
		respondStoreError(c, err, "Bills")
		return
	}
	utils.RespondWithData(c, http.StatusOK, withBuckets(bills, now))
}

// GetPendingPayments lists bills with outstanding balances, largest first
func GetPendingPayments(c *gin.Context) {
	bills, err := store.PendingPayments(config.DB)
	if err != nil {
		respondStoreError(c, err, "Bills")
		return
	}
	utils.RespondWithData(c, http.StatusOK, bills)
}

// SearchByFolio finds bills by folio number, optionally within one book
func SearchByFolio(c *gin.Context) {
	folio, err := strconv.Atoi(c.Param("folio"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid folio number")
		return
	}

	var bookID *uuid.UUID
	if v := c.Query("bookId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid book ID format")
			return
		}
		bookID = &id
	}

	bills, err := store.BillsByFolio(config.DB, folio, bookID)
	if err != nil {
		respondStoreError(c, err, "Bills")
		return
	}
	utils.RespondWithData(c, http.StatusOK, bills)
}

// GetBillsByCustomer lists a customer's bills, most recent first
func GetBillsByCustomer(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("customerId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}

	bills, err := store.BillsByCustomer(config.DB, customerID)
	if err != nil {
		respondStoreError(c, err, "Bills")
		return
	}
	utils.RespondWithData(c, http.StatusOK, bills)
}

// GetBill retrieves one bill with customer, phones, book and measurements
func GetBill(c *gin.Context) {
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid bill ID format")
		return
	}

	bill, err := store.GetBill(config.DB, billID)
	if err != nil {
		respondStoreError(c, err, "Bill")
		return
	}
	utils.RespondWithData(c, http.StatusOK, bill)
}

// UpdateBillInput defines the expected JSON structure for updating a bill
type UpdateBillInput struct {
	BillDate           *time.Time      `json:"billDate"`
	DeliveryDate       *time.Time      `json:"deliveryDate"`
	ActualDeliveryDate *time.Time      `json:"actualDeliveryDate"`
	TotalAmount        *float64        `json:"totalAmount" binding:"omitempty,min=0"`
	AdvancePaid        *float64        `json:"advancePaid" binding:"omitempty,min=0"`
	Status             *string         `json:"status" binding:"omitempty,oneof=pending cutting stitching ready delivered cancelled"`
	Remarks            *string         `json:"remarks"`
	ExtractionStatus   *string         `json:"extractionStatus"`
	RawExtraction      *datatypes.JSON `json:"rawExtraction"`
}

// UpdateBill updates an existing bill. AdvancePaid here is an absolute
// correction; incremental payments go through RecordPayment.
func UpdateBill(c *gin.Context) {
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid bill ID format")
		return
	}

	var input UpdateBillInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	bill, err := store.GetBill(config.DB, billID)
	if err != nil {
		respondStoreError(c, err, "Bill")
		return
	}

	if input.BillDate != nil {
		bill.BillDate = *input.BillDate
	}
	if input.DeliveryDate != nil {
		bill.DeliveryDate = input.DeliveryDate
	}
	if input.ActualDeliveryDate != nil {
		bill.ActualDeliveryDate = input.ActualDeliveryDate
	}
	if input.TotalAmount != nil {
		bill.TotalAmount = *input.TotalAmount
	}
	if input.AdvancePaid != nil {
		bill.AdvancePaid = *input.AdvancePaid
	}
	if input.Status != nil {
		bill.Status = *input.Status
	}
	if input.Remarks != nil {
		bill.Remarks = *input.Remarks
	}
	if input.ExtractionStatus != nil {
		bill.ExtractionStatus = *input.ExtractionStatus
	}
	if input.RawExtraction != nil {
		bill.RawExtraction = *input.RawExtraction
	}
	bill.UpdatedByUserID = currentUserID(c)

	// Save only the bill row; preloaded associations stay untouched
	if err := config.DB.Omit("Customer", "Book", "Measurements").Save(bill).Error; err != nil {
		respondStoreError(c, err, "Bill")
		return
	}

	complete, err := store.GetBill(config.DB, billID)
	if err != nil {
		respondStoreError(c, err, "Bill")
		return
	}
	utils.RespondWithData(c, http.StatusOK, complete)
}

// DeleteBill soft deletes a bill; the financial record is kept
func DeleteBill(c *gin.Context) {
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid bill ID format")
		return
	}

	if err := store.SoftDeleteBill(config.DB, billID, currentUserID(c)); err != nil {
		respondStoreError(c, err, "Bill")
		return
	}
	utils.RespondWithData(c, http.StatusOK, gin.H{"message": "Bill deleted successfully"})
}

type RecordPaymentInput struct {
	Amount float64 `json:"amount" binding:"required"`
}

// RecordPayment adds an incremental payment to a bill's advance. The store
// applies it as a single atomic increment, so concurrent entries never lose
// each other.
func RecordPayment(c *gin.Context) {
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid bill ID format")
		return
	}

	var input RecordPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	bill, err := store.RecordPayment(config.DB, billID, input.Amount, currentUserID(c))
	if err != nil {
		respondStoreError(c, err, "Bill")
		return
	}
	utils.RespondWithData(c, http.StatusOK, bill)
}

// AddMeasurementInput defines the expected JSON structure for a measurement
type AddMeasurementInput struct {
	GarmentTypeID   *uuid.UUID             `json:"garmentTypeId"`
	GarmentName     string                 `json:"garmentName" binding:"required"`
	Measurements    map[string]interface{} `json:"measurements"`
	Confidence      *float64               `json:"confidence"`
	Remarks         string                 `json:"remarks"`
	UnknownValues   datatypes.JSON         `json:"unknownValues"`
	IsAutoExtracted bool                   `json:"isAutoExtracted"`
}

// AddMeasurement attaches garment measurements to a bill
func AddMeasurement(c *gin.Context) {
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid bill ID format")
		return
	}

	var input AddMeasurementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	m := models.BillMeasurement{
		BillID:          billID,
		GarmentTypeID:   input.GarmentTypeID,
		GarmentName:     input.GarmentName,
		Measurements:    datatypes.JSONMap(input.Measurements),
		Confidence:      input.Confidence,
		Remarks:         input.Remarks,
		UnknownValues:   input.UnknownValues,
		IsAutoExtracted: input.IsAutoExtracted,
	}
	if err := store.AddMeasurement(config.DB, &m); err != nil {
		respondStoreError(c, err, "Bill")
		return
	}
	utils.RespondWithData(c, http.StatusCreated, m)
}

// VerifyMeasurement marks an auto-extracted measurement as staff-checked
func VerifyMeasurement(c *gin.Context) {
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid bill ID format")
		return
	}
	measurementID, err := uuid.Parse(c.Param("measurementId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid measurement ID format")
		return
	}

	m, err := store.VerifyMeasurement(config.DB, billID, measurementID)
	if err != nil {
		respondStoreError(c, err, "Measurement")
		return
	}
	utils.RespondWithData(c, http.StatusOK, m)
}

// GetGarmentTypes lists the active garment catalog for the intake form
func GetGarmentTypes(c *gin.Context) {
	types := []models.GarmentType{}
	if err := config.DB.Where("is_active = ?", true).Order("name ASC").Find(&types).Error; err != nil {
		respondStoreError(c, err, "Garment types")
		return
	}
	utils.RespondWithData(c, http.StatusOK, types)
}
