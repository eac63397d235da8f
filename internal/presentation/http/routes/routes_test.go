package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/application/service"
	"github.com/sangkips/billing-api/internal/config"
	"github.com/sangkips/billing-api/internal/domain/entity"
	domainRepo "github.com/sangkips/billing-api/internal/domain/repository"
	"github.com/sangkips/billing-api/internal/infrastructure/database"
	"github.com/sangkips/billing-api/internal/infrastructure/repository"
	"github.com/sangkips/billing-api/internal/presentation/http/handler"
	"github.com/sangkips/billing-api/internal/presentation/http/middleware"
	"github.com/sangkips/billing-api/internal/presentation/http/routes"
	"github.com/sangkips/billing-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type apiEnv struct {
	router *gin.Engine
	repos  *domainRepo.Repositories
}

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
	Details map[string]interface{} `json:"details"`
}

func newAPIEnv(t *testing.T, limiter *middleware.AccountRateLimiter) *apiEnv {
	t.Helper()

	db, err := database.NewMemoryDB(uuid.NewString())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	logger := zap.NewNop()
	store := repository.NewStore(db)
	repos := store.Repos()
	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)

	ledger := service.NewLedgerMirror(logger)
	transactions := service.NewTransactionService(store, ledger, logger)
	staffPayments := service.NewStaffPaymentService(store, ledger, logger)

	handlers := &routes.Handlers{
		Auth:         handler.NewAuthHandler(service.NewAuthService(repos.Accounts, jwtManager)),
		Payment:      handler.NewPaymentHandler(service.NewPaymentService(store, ledger, logger, false)),
		Transaction:  handler.NewTransactionHandler(transactions),
		StaffPayment: handler.NewStaffPaymentHandler(staffPayments),
		Template:     handler.NewTemplateHandler(service.NewTemplateService(store, transactions, staffPayments, logger)),
		Ledger:       handler.NewLedgerHandler(service.NewReportService(store)),
	}

	cfg := &config.Config{App: config.AppConfig{Name: "billing-api"}}
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		Logger:          logger,
		IdempotencyRepo: repos.Idempotency,
		RateLimiter:     limiter,
	})

	return &apiEnv{router: router, repos: repos}
}

// newAccount creates an account with a client and returns a bearer token
func (e *apiEnv) newAccount(t *testing.T, email string) (string, uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)
	account := &entity.Account{Name: "Owner", Email: email, Password: hash}
	require.NoError(t, e.repos.Accounts.Create(ctx, account))

	client := &entity.Client{AccountID: account.ID, Name: "Acme Ltd"}
	require.NoError(t, e.repos.Clients.Create(ctx, client))

	rec := e.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": "secret123",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	var tokens struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &tokens))
	require.NotEmpty(t, tokens.AccessToken)
	return tokens.AccessToken, client.ID
}

func (e *apiEnv) do(t *testing.T, method, path, token string, payload interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var body apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func transactionBody(clientID uuid.UUID, unitPrice float64) map[string]interface{} {
	return map[string]interface{}{
		"client_id":        clientID,
		"transaction_date": "2025-03-01",
		"items": []map[string]interface{}{
			{"description": "Consulting", "quantity": 1, "unit_price": unitPrice},
		},
	}
}

// createTransaction creates a pending transaction and returns its external id
func (e *apiEnv) createTransaction(t *testing.T, token string, clientID uuid.UUID, unitPrice float64) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/v1/transactions", token, transactionBody(clientID, unitPrice), nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var txn struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &txn))
	assert.Equal(t, "pending", txn.Status)
	return txn.ID
}

func TestHealth(t *testing.T) {
	env := newAPIEnv(t, nil)
	rec := env.do(t, http.MethodGet, "/health", "", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestAuth(t *testing.T) {
	env := newAPIEnv(t, nil)
	token, _ := env.newAccount(t, "owner@example.com")

	t.Run("missing token", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/payments", "", map[string]string{"action": "get-payments"}, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email":    "owner@example.com",
			"password": "not-the-password",
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("profile", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/auth/profile", token, nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, string(decode(t, rec).Data), "owner@example.com")
	})
}

func TestPaymentActions(t *testing.T) {
	env := newAPIEnv(t, nil)
	token, clientID := env.newAccount(t, "owner@example.com")
	txnID := env.createTransaction(t, token, clientID, 1000)

	t.Run("record partial payment", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/payments", token, map[string]interface{}{
			"action":        "record-payment",
			"transactionId": txnID,
			"amount":        400,
			"paymentDate":   "2025-03-05",
		}, nil)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var result struct {
			TransactionStatus string  `json:"transaction_status"`
			TotalPaid         float64 `json:"total_paid"`
			RemainingAmount   float64 `json:"remaining_amount"`
		}
		require.NoError(t, json.Unmarshal(decode(t, rec).Data, &result))
		assert.Equal(t, "partial", result.TransactionStatus)
		assert.Equal(t, 400.0, result.TotalPaid)
		assert.Equal(t, 600.0, result.RemainingAmount)
	})

	t.Run("overpayment carries remaining amount", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/payments", token, map[string]interface{}{
			"action":        "record-payment",
			"transactionId": txnID,
			"amount":        700,
		}, nil)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decode(t, rec)
		assert.False(t, body.Success)
		assert.Equal(t, 600.0, body.Details["remaining_amount"])
	})

	t.Run("summary", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/payments", token, map[string]interface{}{
			"action":        "get-payment-summary",
			"transactionId": txnID,
		}, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var summary struct {
			PaymentCount      int     `json:"payment_count"`
			PaymentPercentage float64 `json:"payment_percentage"`
		}
		require.NoError(t, json.Unmarshal(decode(t, rec).Data, &summary))
		assert.Equal(t, 1, summary.PaymentCount)
		assert.Equal(t, 40.0, summary.PaymentPercentage)
	})

	t.Run("history", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/payments", token, map[string]interface{}{
			"action":        "get-payments",
			"transactionId": txnID,
		}, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var list struct {
			Payments []struct {
				ID uint `json:"id"`
			} `json:"payments"`
			TotalPaid float64 `json:"totalPaid"`
		}
		require.NoError(t, json.Unmarshal(decode(t, rec).Data, &list))
		require.Len(t, list.Payments, 1)
		assert.Equal(t, 400.0, list.TotalPaid)

		rec = env.do(t, http.MethodPost, "/api/v1/payments", token, map[string]interface{}{
			"action":    "delete-payment",
			"paymentId": list.Payments[0].ID,
		}, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("unknown action", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/payments", token, map[string]interface{}{
			"action": "refund-payment",
		}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid action", decode(t, rec).Error)
	})

	t.Run("malformed date", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/payments", token, map[string]interface{}{
			"action":        "record-payment",
			"transactionId": txnID,
			"amount":        10,
			"paymentDate":   "05/03/2025",
		}, nil)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decode(t, rec)
		require.Len(t, body.Errors, 1)
		assert.Equal(t, "paymentDate", body.Errors[0].Field)
	})

	t.Run("missing amount", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/payments", token, map[string]interface{}{
			"action":        "record-payment",
			"transactionId": txnID,
		}, nil)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "amount", decode(t, rec).Errors[0].Field)
	})
}

func TestCrossAccountAccessIsNotFound(t *testing.T) {
	env := newAPIEnv(t, nil)
	ownerToken, clientID := env.newAccount(t, "owner@example.com")
	otherToken, _ := env.newAccount(t, "other@example.com")
	txnID := env.createTransaction(t, ownerToken, clientID, 500)

	rec := env.do(t, http.MethodGet, "/api/v1/transactions/"+txnID, otherToken, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/payments", otherToken, map[string]interface{}{
		"action":        "record-payment",
		"transactionId": txnID,
		"amount":        100,
	}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Transaction not found", decode(t, rec).Error)

	rec = env.do(t, http.MethodDelete, "/api/v1/transactions/"+txnID, otherToken, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/transactions/"+txnID, ownerToken, nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTransactionCreateIsIdempotent(t *testing.T) {
	env := newAPIEnv(t, nil)
	token, clientID := env.newAccount(t, "owner@example.com")
	headers := map[string]string{middleware.IdempotencyKeyHeader: "create-1"}

	first := env.do(t, http.MethodPost, "/api/v1/transactions", token, transactionBody(clientID, 250), headers)
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	second := env.do(t, http.MethodPost, "/api/v1/transactions", token, transactionBody(clientID, 250), headers)
	require.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replayed"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	rec := env.do(t, http.MethodGet, "/api/v1/transactions", token, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Items []json.RawMessage `json:"items"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &list))
	assert.Len(t, list.Items, 1)
}

func TestTransactionListRejectsUnknownStatus(t *testing.T) {
	env := newAPIEnv(t, nil)
	token, _ := env.newAccount(t, "owner@example.com")

	rec := env.do(t, http.MethodGet, "/api/v1/transactions?status=settled", token, nil, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestLedgerEndpoints(t *testing.T) {
	env := newAPIEnv(t, nil)
	token, clientID := env.newAccount(t, "owner@example.com")
	txnID := env.createTransaction(t, token, clientID, 300)

	rec := env.do(t, http.MethodPost, "/api/v1/payments", token, map[string]interface{}{
		"action":        "record-payment",
		"transactionId": txnID,
		"amount":        300,
		"paymentDate":   "2025-03-05",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/v1/ledger?year=2025&month=3", token, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []json.RawMessage
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &entries))
	assert.Len(t, entries, 1)

	rec = env.do(t, http.MethodGet, "/api/v1/ledger/summary/monthly?year=2025", token, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var months []struct {
		Month  int     `json:"month"`
		Income float64 `json:"income"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &months))
	require.Len(t, months, 12)
	assert.Equal(t, 300.0, months[2].Income)

	rec = env.do(t, http.MethodGet, "/api/v1/ledger?entry_type=refund", token, nil, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/ledger/export?year=2025", token, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment; filename=ledger_")
	assert.NotZero(t, rec.Body.Len())
}

func TestRateLimiterRejectsBurst(t *testing.T) {
	limiter := middleware.NewAccountRateLimiter(middleware.RateLimiterConfigFor(2, 60))
	t.Cleanup(limiter.Stop)

	env := newAPIEnv(t, limiter)
	token, _ := env.newAccount(t, "owner@example.com")

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := env.do(t, http.MethodGet, "/api/v1/auth/profile", token, nil, nil)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
