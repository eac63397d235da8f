package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/billing-api/internal/application/service"
	"github.com/sangkips/billing-api/internal/presentation/http/dto/request"
	"github.com/sangkips/billing-api/internal/presentation/http/dto/response"
	"github.com/sangkips/billing-api/pkg/pagination"
)

// StaffPaymentHandler handles staff payout requests
type StaffPaymentHandler struct {
	staffPaymentService *service.StaffPaymentService
}

// NewStaffPaymentHandler creates a new staff payment handler
func NewStaffPaymentHandler(staffPaymentService *service.StaffPaymentService) *StaffPaymentHandler {
	return &StaffPaymentHandler{staffPaymentService: staffPaymentService}
}

// List handles listing staff payments, optionally for one staff member
func (h *StaffPaymentHandler) List(c *gin.Context) {
	accountID := GetAccountID(c)
	if accountID == nil {
		response.Unauthorized(c, "Account not authenticated")
		return
	}

	staffID, err := parseOptionalUUID("staff_id", c.Query("staff_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	params := pagination.ParseParams(c.Query("page"), c.Query("per_page"))

	result, err := h.staffPaymentService.ListStaffPayments(c.Request.Context(), *accountID, staffID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Staff payments retrieved successfully", result)
}

// Create handles recording a staff payment
func (h *StaffPaymentHandler) Create(c *gin.Context) {
	accountID := GetAccountID(c)
	if accountID == nil {
		response.Unauthorized(c, "Account not authenticated")
		return
	}

	var req request.StaffPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	paymentDate, err := parseOptionalDate("payment_date", req.PaymentDate)
	if err != nil {
		response.Error(c, err)
		return
	}

	payment, err := h.staffPaymentService.RecordStaffPayment(c.Request.Context(), &service.RecordStaffPaymentInput{
		AccountID:       *accountID,
		StaffID:         req.StaffID,
		Amount:          req.Amount,
		PaymentDate:     paymentDate,
		PaymentMethod:   req.PaymentMethod,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Staff payment recorded successfully", payment)
}

// Delete handles deleting a staff payment and its expense entry
func (h *StaffPaymentHandler) Delete(c *gin.Context) {
	accountID := GetAccountID(c)
	if accountID == nil {
		response.Unauthorized(c, "Account not authenticated")
		return
	}

	id, ok := parseUintParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid staff payment ID")
		return
	}

	if err := h.staffPaymentService.DeleteStaffPayment(c.Request.Context(), *accountID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Staff payment deleted successfully", nil)
}
