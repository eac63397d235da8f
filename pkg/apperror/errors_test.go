package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/sangkips/billing-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
)

func TestGetAppError_HidesUnknownErrors(t *testing.T) {
	appErr := apperror.GetAppError(errors.New("pq: connection refused on 10.0.0.3"))
	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
	assert.Equal(t, "Internal server error", appErr.Message)
}

func TestGetAppError_Unwraps(t *testing.T) {
	wrapped := fmt.Errorf("record payment: %w", apperror.NewNotFoundError("Transaction"))
	appErr := apperror.GetAppError(wrapped)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
	assert.Equal(t, "Transaction not found", appErr.Message)
	assert.True(t, apperror.IsAppError(wrapped))
}

func TestExceedsBalance(t *testing.T) {
	err := apperror.NewExceedsBalanceError(600)
	assert.Equal(t, http.StatusUnprocessableEntity, err.Code)
	assert.Equal(t, "Amount exceeds remaining balance of 600.00", err.Message)

	remaining, ok := apperror.RemainingAmount(err)
	assert.True(t, ok)
	assert.Equal(t, 600.0, remaining)

	_, ok = apperror.RemainingAmount(apperror.NewNotFoundError("Payment"))
	assert.False(t, ok)
}
