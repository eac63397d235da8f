package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/presentation/http/middleware"
	"github.com/sangkips/billing-api/pkg/apperror"
	"github.com/sangkips/billing-api/pkg/utils"
)

// GetAccountID extracts the authenticated account ID from the Gin context
func GetAccountID(c *gin.Context) *uuid.UUID {
	val, exists := c.Get(middleware.ContextAccountID)
	if !exists {
		return nil
	}
	accountID, ok := val.(uuid.UUID)
	if !ok {
		return nil
	}
	return &accountID
}

// GetAccountEmail extracts the authenticated account email from the Gin context
func GetAccountEmail(c *gin.Context) string {
	return c.GetString(middleware.ContextAccountEmail)
}

// parseOptionalDate parses an optional date field. An empty value yields
// nil; a malformed one is a validation error on field.
func parseOptionalDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	d, err := utils.ParseDate(value)
	if err != nil {
		return nil, apperror.NewFieldError(field, "Invalid date, expected YYYY-MM-DD")
	}
	return &d, nil
}

// parseOptionalUUID parses an optional UUID query value
func parseOptionalUUID(field, value string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, apperror.NewFieldError(field, "Invalid ID")
	}
	return &id, nil
}

// parseOptionalInt parses an optional integer query value
func parseOptionalInt(field, value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, apperror.NewFieldError(field, "Must be a whole number")
	}
	return n, nil
}

// parseUintParam parses a numeric path parameter
func parseUintParam(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
