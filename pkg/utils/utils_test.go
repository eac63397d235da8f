package utils_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_AccessToken(t *testing.T) {
	m := utils.NewJWTManager("secret", time.Hour, 24*time.Hour)
	accountID := uuid.New()

	token, err := m.GenerateAccessToken(accountID, "owner@example.com")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, accountID, claims.AccountID)
	assert.Equal(t, "owner@example.com", claims.Email)

	other := utils.NewJWTManager("other-secret", time.Hour, time.Hour)
	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_RefreshToken(t *testing.T) {
	m := utils.NewJWTManager("secret", time.Hour, 24*time.Hour)
	accountID := uuid.New()

	token, err := m.GenerateRefreshToken(accountID)
	require.NoError(t, err)

	got, err := m.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, accountID, got)

	// A refresh token carries no account claim and is not an access token
	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_Expired(t *testing.T) {
	m := utils.NewJWTManager("secret", -time.Minute, time.Hour)
	token, err := m.GenerateAccessToken(uuid.New(), "a@b.c")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := utils.HashPassword("hunter22")
	require.NoError(t, err)
	assert.True(t, utils.CheckPasswordHash("hunter22", hash))
	assert.False(t, utils.CheckPasswordHash("hunter23", hash))
}

func TestParseDate(t *testing.T) {
	d, err := utils.ParseDate("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), d)

	d, err = utils.ParseDate("2025-03-10T18:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), d)

	_, err = utils.ParseDate("10/03/2025")
	assert.Error(t, err)
}

func TestRanges(t *testing.T) {
	start, end := utils.MonthRange(2024, time.December)
	assert.Equal(t, time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), end)

	start, end = utils.YearRange(2025)
	assert.Equal(t, 2025, start.Year())
	assert.Equal(t, 2026, end.Year())
}

func TestGenerateReferenceNo(t *testing.T) {
	ref := utils.GenerateReferenceNo("INV")
	assert.Len(t, ref, len("INV-")+8)
	assert.NotEqual(t, ref, utils.GenerateReferenceNo("INV"))
}
