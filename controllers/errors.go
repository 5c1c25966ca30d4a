package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"tailortrack-backend/config"
	"tailortrack-backend/store"
	"tailortrack-backend/utils"
)

// respondStoreError maps store-layer errors onto the HTTP error taxonomy:
// missing rows become 404, uniqueness conflicts 409 with their domain
// message, referential guards and bad amounts 400. Anything else is an
// unexpected store failure: the underlying error is logged server-side and
// the caller gets a generic message.
func respondStoreError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		utils.RespondWithError(c, http.StatusNotFound, fallback+" not found")
	case errors.Is(err, store.ErrDuplicateFolio),
		errors.Is(err, store.ErrDuplicatePhone),
		errors.Is(err, store.ErrDuplicateUser):
		utils.RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrBookHasBills),
		errors.Is(err, store.ErrInvalidAmount):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	default:
		config.Log.Error("store error", zap.String("entity", fallback), zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
	}
}

// currentUserID reads the authenticated user's ID from the request context.
func currentUserID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get("userId"); ok {
		if s, ok := v.(string); ok {
			if id, err := uuid.Parse(s); err == nil {
				return id
			}
		}
	}
	return uuid.Nil
}
