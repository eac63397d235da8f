package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/application/service"
	"github.com/sangkips/billing-api/internal/presentation/http/dto/request"
	"github.com/sangkips/billing-api/internal/presentation/http/dto/response"
)

// TemplateHandler handles quick transaction and staff payment templates
type TemplateHandler struct {
	templateService *service.TemplateService
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(templateService *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

// templateIDs returns the authenticated account and the :id path parameter,
// writing the error response itself when either is missing
func templateIDs(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	accountID := GetAccountID(c)
	if accountID == nil {
		response.Unauthorized(c, "Account not authenticated")
		return uuid.Nil, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid template ID")
		return uuid.Nil, uuid.Nil, false
	}
	return *accountID, id, true
}

func toTransactionTemplateInput(accountID uuid.UUID, req *request.TransactionTemplateRequest) *service.TransactionTemplateInput {
	return &service.TransactionTemplateInput{
		AccountID:     accountID,
		Name:          req.Name,
		ClientID:      req.ClientID,
		ProductID:     req.ProductID,
		Description:   req.Description,
		Amount:        req.Amount,
		Quantity:      req.Quantity,
		TaxRate:       req.TaxRate,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		MarkAsPaid:    req.MarkAsPaid,
		IsActive:      req.IsActive,
	}
}

func toStaffPaymentTemplateInput(accountID uuid.UUID, req *request.StaffPaymentTemplateRequest) *service.StaffPaymentTemplateInput {
	return &service.StaffPaymentTemplateInput{
		AccountID:     accountID,
		Name:          req.Name,
		StaffID:       req.StaffID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		IsActive:      req.IsActive,
	}
}

// ListTransactionTemplates handles listing quick transaction templates.
// ?active=true limits the list to active templates.
func (h *TemplateHandler) ListTransactionTemplates(c *gin.Context) {
	accountID := GetAccountID(c)
	if accountID == nil {
		response.Unauthorized(c, "Account not authenticated")
		return
	}

	templates, err := h.templateService.ListTransactionTemplates(c.Request.Context(), *accountID, c.Query("active") == "true")
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Templates retrieved successfully", templates)
}

// CreateTransactionTemplate handles creating a quick transaction template
func (h *TemplateHandler) CreateTransactionTemplate(c *gin.Context) {
	accountID := GetAccountID(c)
	if accountID == nil {
		response.Unauthorized(c, "Account not authenticated")
		return
	}

	var req request.TransactionTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	tmpl, err := h.templateService.CreateTransactionTemplate(c.Request.Context(), toTransactionTemplateInput(*accountID, &req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Template created successfully", tmpl)
}

// GetTransactionTemplate handles getting a quick transaction template
func (h *TemplateHandler) GetTransactionTemplate(c *gin.Context) {
	accountID, id, ok := templateIDs(c)
	if !ok {
		return
	}

	tmpl, err := h.templateService.GetTransactionTemplate(c.Request.Context(), accountID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Template retrieved successfully", tmpl)
}

// UpdateTransactionTemplate handles updating a quick transaction template
func (h *TemplateHandler) UpdateTransactionTemplate(c *gin.Context) {
	accountID, id, ok := templateIDs(c)
	if !ok {
		return
	}

	var req request.TransactionTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	tmpl, err := h.templateService.UpdateTransactionTemplate(c.Request.Context(), id, toTransactionTemplateInput(accountID, &req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Template updated successfully", tmpl)
}

// DeleteTransactionTemplate handles deleting a quick transaction template
func (h *TemplateHandler) DeleteTransactionTemplate(c *gin.Context) {
	accountID, id, ok := templateIDs(c)
	if !ok {
		return
	}

	if err := h.templateService.DeleteTransactionTemplate(c.Request.Context(), accountID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Template deleted successfully", nil)
}

// ExecuteTransactionTemplate creates a transaction from a template
// @Summary Execute transaction template
// @Tags templates
// @Produce json
// @Security BearerAuth
// @Param id path string true "Template ID"
// @Success 201 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /templates/transactions/{id}/execute [post]
func (h *TemplateHandler) ExecuteTransactionTemplate(c *gin.Context) {
	accountID, id, ok := templateIDs(c)
	if !ok {
		return
	}

	txn, err := h.templateService.ExecuteTransactionTemplate(c.Request.Context(), accountID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Transaction created from template", txn)
}

// ListStaffPaymentTemplates handles listing quick staff payment templates
func (h *TemplateHandler) ListStaffPaymentTemplates(c *gin.Context) {
	accountID := GetAccountID(c)
	if accountID == nil {
		response.Unauthorized(c, "Account not authenticated")
		return
	}

	templates, err := h.templateService.ListStaffPaymentTemplates(c.Request.Context(), *accountID, c.Query("active") == "true")
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Templates retrieved successfully", templates)
}

// CreateStaffPaymentTemplate handles creating a quick staff payment template
func (h *TemplateHandler) CreateStaffPaymentTemplate(c *gin.Context) {
	accountID := GetAccountID(c)
	if accountID == nil {
		response.Unauthorized(c, "Account not authenticated")
		return
	}

	var req request.StaffPaymentTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	tmpl, err := h.templateService.CreateStaffPaymentTemplate(c.Request.Context(), toStaffPaymentTemplateInput(*accountID, &req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Template created successfully", tmpl)
}

// GetStaffPaymentTemplate handles getting a quick staff payment template
func (h *TemplateHandler) GetStaffPaymentTemplate(c *gin.Context) {
	accountID, id, ok := templateIDs(c)
	if !ok {
		return
	}

	tmpl, err := h.templateService.GetStaffPaymentTemplate(c.Request.Context(), accountID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Template retrieved successfully", tmpl)
}

// UpdateStaffPaymentTemplate handles updating a quick staff payment template
func (h *TemplateHandler) UpdateStaffPaymentTemplate(c *gin.Context) {
	accountID, id, ok := templateIDs(c)
	if !ok {
		return
	}

	var req request.StaffPaymentTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	tmpl, err := h.templateService.UpdateStaffPaymentTemplate(c.Request.Context(), id, toStaffPaymentTemplateInput(accountID, &req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Template updated successfully", tmpl)
}

// DeleteStaffPaymentTemplate handles deleting a quick staff payment template
func (h *TemplateHandler) DeleteStaffPaymentTemplate(c *gin.Context) {
	accountID, id, ok := templateIDs(c)
	if !ok {
		return
	}

	if err := h.templateService.DeleteStaffPaymentTemplate(c.Request.Context(), accountID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Template deleted successfully", nil)
}

// ExecuteStaffPaymentTemplate records a staff payment from a template
func (h *TemplateHandler) ExecuteStaffPaymentTemplate(c *gin.Context) {
	accountID, id, ok := templateIDs(c)
	if !ok {
		return
	}

	payment, err := h.templateService.ExecuteStaffPaymentTemplate(c.Request.Context(), accountID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Staff payment recorded from template", payment)
}
