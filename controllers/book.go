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

// CreateBookInput defines the expected JSON structure for creating a book
type CreateBookInput struct {
	Name        string `json:"name" binding:"required"`
	StartSerial int    `json:"startSerial" binding:"required,min=1"`
	EndSerial   *int   `json:"endSerial" binding:"omitempty,min=1"`
	IsCurrent   bool   `json:"isCurrent"`
}

// UpdateBookInput defines the expected JSON structure for updating a book
type UpdateBookInput struct {
	Name        *string `json:"name"`
	StartSerial *int    `json:"startSerial" binding:"omitempty,min=1"`
	EndSerial   *int    `json:"endSerial"`
	IsCurrent   *bool   `json:"isCurrent"`
}

// CreateBook starts a new physical ledger
func CreateBook(c *gin.Context) {
	var input CreateBookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	book := models.Book{
		Name:        input.Name,
		StartSerial: input.StartSerial,
		EndSerial:   input.EndSerial,
		IsCurrent:   input.IsCurrent,
	}
	if err := store.CreateBook(config.DB, &book); err != nil {
		respondStoreError(c, err, "Book")
		return
	}

	utils.RespondWithData(c, http.StatusCreated, book)
}

// GetBooks lists all books with bill counts and last folios
func GetBooks(c *gin.Context) {
	books, err := store.ListBooks(config.DB)
	if err != nil {
		respondStoreError(c, err, "Books")
		return
	}
	utils.RespondWithData(c, http.StatusOK, books)
}

// GetCurrentBook returns the book currently in use
func GetCurrentBook(c *gin.Context) {
	book, err := store.CurrentBook(config.DB)
	if err != nil {
		respondStoreError(c, err, "Current book")
		return
	}
	utils.RespondWithData(c, http.StatusOK, book)
}

// GetBook retrieves a specific book by ID
func GetBook(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid book ID format")
		return
	}

	book, err := store.GetBook(config.DB, bookID)
	if err != nil {
		respondStoreError(c, err, "Book")
		return
	}
	utils.RespondWithData(c, http.StatusOK, book)
}

// GetNextFolio suggests the next free folio number for a book. The value is
// advisory; the insert-time uniqueness check stays authoritative.
func GetNextFolio(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid book ID format")
		return
	}

	nextFolio, err := store.NextFolio(config.DB, bookID)
	if err != nil {
		respondStoreError(c, err, "Book")
		return
	}
	utils.RespondWithData(c, http.StatusOK, gin.H{"nextFolio": nextFolio})
}

// CheckFolio reports whether a folio number is already taken in a book
func CheckFolio(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid book ID format")
		return
	}
	folio, err := strconv.Atoi(c.Query("folio"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Folio number is required")
		return
	}

	exists, err := store.FolioExists(config.DB, bookID, folio)
	if err != nil {
		respondStoreError(c, err, "Book")
		return
	}
	utils.RespondWithData(c, http.StatusOK, gin.H{"exists": exists})
}

// UpdateBook updates an existing book
func UpdateBook(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid book ID format")
		return
	}

	var input UpdateBookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	summary, err := store.GetBook(config.DB, bookID)
	if err != nil {
		respondStoreError(c, err, "Book")
		return
	}
	book := summary.Book

	if input.Name != nil {
		book.Name = *input.Name
	}
	if input.StartSerial != nil {
		book.StartSerial = *input.StartSerial
	}
	if input.EndSerial != nil {
		book.EndSerial = input.EndSerial
	}
	if input.IsCurrent != nil {
		book.IsCurrent = *input.IsCurrent
	}

	if err := store.SaveBook(config.DB, &book); err != nil {
		respondStoreError(c, err, "Book")
		return
	}

	utils.RespondWithData(c, http.StatusOK, book)
}

// SetCurrentBook switches which book new bills are written into
func SetCurrentBook(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid book ID format")
		return
	}

	book, err := store.SetCurrentBook(config.DB, bookID)
	if err != nil {
		respondStoreError(c, err, "Book")
		return
	}
	utils.RespondWithData(c, http.StatusOK, book)
}

// DeleteBook removes a book that owns no bills
func DeleteBook(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid book ID format")
		return
	}

	if err := store.DeleteBook(config.DB, bookID); err != nil {
		respondStoreError(c, err, "Book")
		return
	}
	utils.RespondWithData(c, http.StatusOK, gin.H{"message": "Book deleted successfully"})
}
