package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tailortrack-backend/config"
	"tailortrack-backend/models"
	"tailortrack-backend/store"
	"tailortrack-backend/utils"
)

type LoginInput struct {
	Name string `json:"name" binding:"required"`
	Pin  string `json:"pin" binding:"required"`
}

// Login verifies a staff name+PIN pair and issues a JWT.
func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	user, err := store.VerifyPin(config.DB, input.Name, input.Pin)
	if err != nil {
		// Same answer for unknown user and wrong PIN
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid name or PIN")
		return
	}

	token, err := utils.GenerateToken(user.ID.String(), user.Role)
	if err != nil {
		respondStoreError(c, err, "Token")
		return
	}

	utils.RespondWithData(c, http.StatusOK, gin.H{"token": token, "user": user})
}

// Me returns the authenticated user's account.
func Me(c *gin.Context) {
	user, err := store.GetUser(config.DB, currentUserID(c))
	if err != nil {
		respondStoreError(c, err, "User")
		return
	}
	utils.RespondWithData(c, http.StatusOK, user)
}

type CreateUserInput struct {
	Name string `json:"name" binding:"required"`
	Pin  string `json:"pin" binding:"required,min=4"`
	Role string `json:"role" binding:"omitempty,oneof=admin helper"`
}

// CreateUser adds a staff account (admin only).
func CreateUser(c *gin.Context) {
	var input CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	pinHash, err := utils.HashPin(input.Pin)
	if err != nil {
		respondStoreError(c, err, "User")
		return
	}

	role := input.Role
	if role == "" {
		role = models.RoleHelper
	}

	user := models.User{
		Name:     input.Name,
		PinHash:  pinHash,
		Role:     role,
		IsActive: true,
	}

	if err := store.CreateUser(config.DB, &user); err != nil {
		respondStoreError(c, err, "User")
		return
	}

	utils.RespondWithData(c, http.StatusCreated, user)
}

// GetUsers lists all staff accounts (admin only).
func GetUsers(c *gin.Context) {
	users, err := store.ListUsers(config.DB)
	if err != nil {
		respondStoreError(c, err, "Users")
		return
	}
	utils.RespondWithData(c, http.StatusOK, users)
}

type UpdateUserInput struct {
	Name     *string `json:"name"`
	Role     *string `json:"role" binding:"omitempty,oneof=admin helper"`
	IsActive *bool   `json:"isActive"`
}

// UpdateUser changes a user's name, role or active flag (admin only).
func UpdateUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	var input UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	user, err := store.GetUser(config.DB, userID)
	if err != nil {
		respondStoreError(c, err, "User")
		return
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := store.SaveUser(config.DB, user); err != nil {
		respondStoreError(c, err, "User")
		return
	}

	utils.RespondWithData(c, http.StatusOK, user)
}

type ChangePinInput struct {
	Pin string `json:"pin" binding:"required,min=4"`
}

// ChangePin replaces a user's PIN (admin only).
func ChangePin(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	var input ChangePinInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	pinHash, err := utils.HashPin(input.Pin)
	if err != nil {
		respondStoreError(c, err, "User")
		return
	}

	if err := store.ChangePin(config.DB, userID, pinHash); err != nil {
		respondStoreError(c, err, "User")
		return
	}

	utils.RespondWithData(c, http.StatusOK, gin.H{"message": "PIN updated successfully"})
}
