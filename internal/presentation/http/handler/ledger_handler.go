package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/billing-api/internal/application/service"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/internal/presentation/http/dto/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// LedgerHandler handles ledger queries, summaries and exports
type LedgerHandler struct {
	reportService *service.ReportService
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(reportService *service.ReportService) *LedgerHandler {
	return &LedgerHandler{reportService: reportService}
}

// ledgerFilter reads the ledger query parameters
func ledgerFilter(c *gin.Context) (*service.LedgerFilter, error) {
	var (
		filter service.LedgerFilter
		err    error
	)
	if filter.Year, err = parseOptionalInt("year", c.Query("year")); err != nil {
		return nil, err
	}
	if filter.Month, err = parseOptionalInt("month", c.Query("month")); err != nil {
		return nil, err
	}
	if filter.ClientID, err = parseOptionalUUID("client_id", c.Query("client_id")); err != nil {
		return nil, err
	}
	if filter.StaffID, err = parseOptionalUUID("staff_id", c.Query("staff_id")); err != nil {
		return nil, err
	}
	if v := c.Query("entry_type"); v != "" {
		entryType := enum.EntryType(v)
		filter.EntryType = &entryType
	}
	return &filter, nil
}

// Entries handles listing ledger entries
// @Summary List ledger entries
// @Tags ledger
// @Produce json
// @Security BearerAuth
// @Param year query int false "Year"
// @Param month query int false "Month (1-12)"
// @Param client_id query string false "Client ID"
// @Param staff_id query string false "Staff ID"
// @Param entry_type query string false "income or expense"
// @Success 200 {object} response.APIResponse
// @Router /ledger [get]
func (h *LedgerHandler) Entries(c *gin.Context) {
	accountID := GetAccountID(c)
	if accountID == nil {
		response.Unauthorized(c, "Account not authenticated")
		return
	}

	filter, err := ledgerFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	entries, err := h.reportService.ListLedger(c.Request.Context(), *accountID, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Ledger entries retrieved successfully", entries)
}

// MonthlySummary returns income, expense and profit for each month of a year
func (h *LedgerHandler) MonthlySummary(c *gin.Context) {
	accountID := GetAccountID(c)
	if accountID == nil {
		response.Unauthorized(c, "Account not authenticated")
		return
	}

	year, err := parseOptionalInt("year", c.Query("year"))
	if err != nil {
		response.Error(c, err)
		return
	}

	summary, err := h.reportService.MonthlySummary(c.Request.Context(), *accountID, year)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Monthly summary retrieved successfully", summary)
}

// YearlySummary returns income, expense and profit per year
func (h *LedgerHandler) YearlySummary(c *gin.Context) {
	accountID := GetAccountID(c)
	if accountID == nil {
		response.Unauthorized(c, "Account not authenticated")
		return
	}

	summary, err := h.reportService.YearlySummary(c.Request.Context(), *accountID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Yearly summary retrieved successfully", summary)
}

// CurrentMonth returns the running totals of the current month
func (h *LedgerHandler) CurrentMonth(c *gin.Context) {
	accountID := GetAccountID(c)
	if accountID == nil {
		response.Unauthorized(c, "Account not authenticated")
		return
	}

	summary, err := h.reportService.CurrentMonth(c.Request.Context(), *accountID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Current month summary retrieved successfully", summary)
}

// ClientTotals returns income per client, highest first
func (h *LedgerHandler) ClientTotals(c *gin.Context) {
	accountID := GetAccountID(c)
	if accountID == nil {
		response.Unauthorized(c, "Account not authenticated")
		return
	}

	year, err := parseOptionalInt("year", c.Query("year"))
	if err != nil {
		response.Error(c, err)
		return
	}

	totals, err := h.reportService.ClientTotals(c.Request.Context(), *accountID, year)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Client totals retrieved successfully", totals)
}

// Export streams the filtered ledger as an XLSX workbook
// @Summary Export ledger
// @Tags ledger
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file
// @Router /ledger/export [get]
func (h *LedgerHandler) Export(c *gin.Context) {
	accountID := GetAccountID(c)
	if accountID == nil {
		response.Unauthorized(c, "Account not authenticated")
		return
	}

	filter, err := ledgerFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	buf, err := h.reportService.ExportLedger(c.Request.Context(), *accountID, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	fileName := fmt.Sprintf("ledger_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	response.Attachment(c, fileName, xlsxContentType, buf.Bytes())
}
