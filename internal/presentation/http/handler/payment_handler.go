package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/application/service"
	"github.com/sangkips/billing-api/internal/presentation/http/dto/request"
	"github.com/sangkips/billing-api/internal/presentation/http/dto/response"
	"github.com/sangkips/billing-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// PaymentHandler handles the payment action endpoint
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Handle dispatches a payment action
// @Summary Payment actions
// @Description Record, update, delete and inspect payments against a transaction
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request.PaymentActionRequest true "Payment action"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /payments [post]
func (h *PaymentHandler) Handle(c *gin.Context) {
	accountID := GetAccountID(c)
	if accountID == nil {
		response.Unauthorized(c, "Account not authenticated")
		return
	}

	var req request.PaymentActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	switch req.Action {
	case request.ActionGetPayments:
		h.getPayments(c, *accountID, &req)
	case request.ActionRecordPayment:
		h.recordPayment(c, *accountID, &req)
	case request.ActionUpdatePayment:
		h.updatePayment(c, *accountID, &req)
	case request.ActionDeletePayment:
		h.deletePayment(c, *accountID, &req)
	case request.ActionGetPaymentSummary:
		h.getPaymentSummary(c, *accountID, &req)
	default:
		response.BadRequest(c, "Invalid action")
	}
}

func requireTransactionID(req *request.PaymentActionRequest) (uuid.UUID, error) {
	if req.TransactionID == "" {
		return uuid.Nil, apperror.NewFieldError("transactionId", "Transaction ID is required")
	}
	id, err := uuid.Parse(req.TransactionID)
	if err != nil {
		return uuid.Nil, apperror.NewFieldError("transactionId", "Invalid transaction ID")
	}
	return id, nil
}

func requirePaymentID(req *request.PaymentActionRequest) (uint, error) {
	if req.PaymentID == 0 {
		return 0, apperror.NewFieldError("paymentId", "Payment ID is required")
	}
	return req.PaymentID, nil
}

func requireAmount(req *request.PaymentActionRequest) (decimal.Decimal, error) {
	if req.Amount == nil {
		return decimal.Zero, apperror.NewFieldError("amount", "Amount is required")
	}
	return *req.Amount, nil
}

func (h *PaymentHandler) getPayments(c *gin.Context, accountID uuid.UUID, req *request.PaymentActionRequest) {
	transactionID, err := requireTransactionID(req)
	if err != nil {
		response.Error(c, err)
		return
	}

	list, err := h.paymentService.GetPayments(c.Request.Context(), accountID, transactionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payments retrieved successfully", list)
}

func (h *PaymentHandler) recordPayment(c *gin.Context, accountID uuid.UUID, req *request.PaymentActionRequest) {
	transactionID, err := requireTransactionID(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	amount, err := requireAmount(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	paymentDate, err := parseOptionalDate("paymentDate", req.PaymentDate)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.paymentService.RecordPayment(c.Request.Context(), &service.RecordPaymentInput{
		AccountID:       accountID,
		TransactionID:   transactionID,
		Amount:          amount,
		PaymentDate:     paymentDate,
		PaymentMethod:   req.PaymentMethod,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result.Message, result)
}

func (h *PaymentHandler) updatePayment(c *gin.Context, accountID uuid.UUID, req *request.PaymentActionRequest) {
	paymentID, err := requirePaymentID(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	amount, err := requireAmount(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	paymentDate, err := parseOptionalDate("paymentDate", req.PaymentDate)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.paymentService.UpdatePayment(c.Request.Context(), &service.UpdatePaymentInput{
		AccountID:       accountID,
		PaymentID:       paymentID,
		Amount:          amount,
		PaymentDate:     paymentDate,
		PaymentMethod:   req.PaymentMethod,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result.Message, result)
}

func (h *PaymentHandler) deletePayment(c *gin.Context, accountID uuid.UUID, req *request.PaymentActionRequest) {
	paymentID, err := requirePaymentID(req)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.paymentService.DeletePayment(c.Request.Context(), accountID, paymentID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result.Message, result)
}

func (h *PaymentHandler) getPaymentSummary(c *gin.Context, accountID uuid.UUID, req *request.PaymentActionRequest) {
	transactionID, err := requireTransactionID(req)
	if err != nil {
		response.Error(c, err)
		return
	}

	summary, err := h.paymentService.GetPaymentSummary(c.Request.Context(), accountID, transactionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment summary retrieved successfully", summary)
}
