package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/application/service"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/internal/domain/repository"
	"github.com/sangkips/billing-api/internal/presentation/http/dto/request"
	"github.com/sangkips/billing-api/internal/presentation/http/dto/response"
	"github.com/sangkips/billing-api/pkg/apperror"
	"github.com/sangkips/billing-api/pkg/pagination"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// toTransactionInput converts a request body into service input
func toTransactionInput(accountID uuid.UUID, req *request.TransactionRequest) (*service.TransactionInput, error) {
	transactionDate, err := parseOptionalDate("transaction_date", req.TransactionDate)
	if err != nil {
		return nil, err
	}
	dueDate, err := parseOptionalDate("due_date", req.DueDate)
	if err != nil {
		return nil, err
	}

	items := make([]service.TransactionItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.TransactionItemInput{
			ProductID:   item.ProductID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TaxRate:     item.TaxRate,
		}
	}

	return &service.TransactionInput{
		AccountID:       accountID,
		ClientID:        req.ClientID,
		TransactionDate: transactionDate,
		DueDate:         dueDate,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
		Terms:           req.Terms,
		PaymentMethod:   req.PaymentMethod,
		Status:          req.Status,
		Items:           items,
	}, nil
}

// List handles listing transactions
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Param search query string false "Reference number search"
// @Param status query string false "Status name"
// @Param client_id query string false "Client ID"
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD), exclusive"
// @Success 200 {object} response.APIResponse
// @Router /transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	accountID := GetAccountID(c)
	if accountID == nil {
		response.Unauthorized(c, "Account not authenticated")
		return
	}

	var query request.TransactionFilterRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.TransactionFilterParams{
		Pagination: pagination.ParseParams(query.Page, query.PerPage),
		Search:     query.Search,
		SortBy:     query.SortBy,
		SortOrder:  query.SortOrder,
	}

	if query.Status != "" {
		status, err := enum.ParseTransactionStatus(query.Status)
		if err != nil {
			response.Error(c, apperror.NewFieldError("status", "Invalid status"))
			return
		}
		params.Status = &status
	}

	var err error
	if params.ClientID, err = parseOptionalUUID("client_id", query.ClientID); err != nil {
		response.Error(c, err)
		return
	}
	if params.StartDate, err = parseOptionalDate("start_date", query.StartDate); err != nil {
		response.Error(c, err)
		return
	}
	if params.EndDate, err = parseOptionalDate("end_date", query.EndDate); err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.transactionService.ListTransactions(c.Request.Context(), *accountID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Transactions retrieved successfully", result)
}

// Create handles creating a transaction
// @Summary Create transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Idempotency key"
// @Param request body request.TransactionRequest true "Transaction"
// @Success 201 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	accountID := GetAccountID(c)
	if accountID == nil {
		response.Unauthorized(c, "Account not authenticated")
		return
	}

	var req request.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input, err := toTransactionInput(*accountID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	txn, err := h.transactionService.CreateTransaction(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Transaction created successfully", txn)
}

// Get handles getting a transaction by ID
func (h *TransactionHandler) Get(c *gin.Context) {
	accountID := GetAccountID(c)
	if accountID == nil {
		response.Unauthorized(c, "Account not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	txn, err := h.transactionService.GetTransaction(c.Request.Context(), *accountID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction retrieved successfully", txn)
}

// Update handles replacing a transaction and its items
func (h *TransactionHandler) Update(c *gin.Context) {
	accountID := GetAccountID(c)
	if accountID == nil {
		response.Unauthorized(c, "Account not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	var req request.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input, err := toTransactionInput(*accountID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	txn, err := h.transactionService.UpdateTransaction(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction updated successfully", txn)
}

// Delete handles deleting a transaction with its payments and ledger entries
func (h *TransactionHandler) Delete(c *gin.Context) {
	accountID := GetAccountID(c)
	if accountID == nil {
		response.Unauthorized(c, "Account not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	if err := h.transactionService.DeleteTransaction(c.Request.Context(), *accountID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction deleted successfully", nil)
}
