package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/internal/domain/repository"
	"github.com/sangkips/billing-api/pkg/apperror"
	"github.com/sangkips/billing-api/pkg/money"
	"github.com/sangkips/billing-api/pkg/utils"
	"github.com/xuri/excelize/v2"
)

const ledgerSheet = "Ledger"

// ReportService aggregates ledger entries. Every figure is recomputed from
// the ledger on each call.
type ReportService struct {
	store repository.Store
	now   func() time.Time
}

// NewReportService creates a new report service
func NewReportService(store repository.Store) *ReportService {
	return &ReportService{store: store, now: time.Now}
}

// LedgerFilter narrows ledger queries. Year and Month are optional; a month
// without a year means the month in the current year.
type LedgerFilter struct {
	Year      int
	Month     int
	ClientID  *uuid.UUID
	StaffID   *uuid.UUID
	EntryType *enum.EntryType
}

// PeriodSummary is the income, expense and profit of a month or a year
type PeriodSummary struct {
	Year    int   `json:"year"`
	Month   int   `json:"month,omitempty"`
	Income  int64 `json:"-"`
	Expense int64 `json:"-"`
}

// Profit returns income minus expense in cents
func (p PeriodSummary) Profit() int64 {
	return p.Income - p.Expense
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (p PeriodSummary) MarshalJSON() ([]byte, error) {
	type Alias PeriodSummary
	return json.Marshal(&struct {
		Alias
		Income  float64 `json:"income"`
		Expense float64 `json:"expense"`
		Profit  float64 `json:"profit"`
	}{
		Alias:   Alias(p),
		Income:  money.ToFloat(p.Income),
		Expense: money.ToFloat(p.Expense),
		Profit:  money.ToFloat(p.Profit()),
	})
}

func (p *PeriodSummary) add(e *entity.LedgerEntry) {
	switch e.EntryType {
	case enum.EntryTypeIncome:
		p.Income += e.Amount
	case enum.EntryTypeExpense:
		p.Expense += e.Amount
	}
}

// ClientTotal is the income received from one client
type ClientTotal struct {
	ClientID     uuid.UUID `json:"client_id"`
	ClientName   string    `json:"client_name"`
	Income       int64     `json:"-"`
	Transactions int       `json:"transactions"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (c ClientTotal) MarshalJSON() ([]byte, error) {
	type Alias ClientTotal
	return json.Marshal(&struct {
		Alias
		Income float64 `json:"income"`
	}{
		Alias:  Alias(c),
		Income: money.ToFloat(c.Income),
	})
}

// filterParams turns the year and month of f into a date range
func (s *ReportService) filterParams(f *LedgerFilter) (*repository.LedgerFilterParams, error) {
	params := &repository.LedgerFilterParams{
		ClientID:  f.ClientID,
		StaffID:   f.StaffID,
		EntryType: f.EntryType,
	}

	if f.EntryType != nil && !f.EntryType.IsValid() {
		return nil, apperror.NewFieldError("entry_type", "Entry type must be income or expense")
	}
	if f.Month < 0 || f.Month > 12 {
		return nil, apperror.NewFieldError("month", "Month must be between 1 and 12")
	}
	if f.Year < 0 {
		return nil, apperror.NewFieldError("year", "Year is invalid")
	}

	year := f.Year
	if f.Month > 0 && year == 0 {
		year = s.now().Year()
	}

	var start, end time.Time
	switch {
	case f.Month > 0:
		start, end = utils.MonthRange(year, time.Month(f.Month))
	case year > 0:
		start, end = utils.YearRange(year)
	default:
		return params, nil
	}
	params.StartDate = &start
	params.EndDate = &end
	return params, nil
}

// ListLedger returns ledger entries, newest first
func (s *ReportService) ListLedger(ctx context.Context, accountID uuid.UUID, filter *LedgerFilter) ([]entity.LedgerEntry, error) {
	params, err := s.filterParams(filter)
	if err != nil {
		return nil, err
	}

	entries, err := s.store.Repos().Ledger.List(ctx, accountID, params)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []entity.LedgerEntry{}
	}
	return entries, nil
}

// MonthlySummary returns twelve rows, one per month of year
func (s *ReportService) MonthlySummary(ctx context.Context, accountID uuid.UUID, year int) ([]PeriodSummary, error) {
	if year <= 0 {
		year = s.now().Year()
	}

	entries, err := s.ListLedger(ctx, accountID, &LedgerFilter{Year: year})
	if err != nil {
		return nil, err
	}

	months := make([]PeriodSummary, 12)
	for i := range months {
		months[i] = PeriodSummary{Year: year, Month: i + 1}
	}
	for i := range entries {
		months[entries[i].EntryDate.Month()-1].add(&entries[i])
	}
	return months, nil
}

// YearlySummary returns one row per year that has ledger entries, oldest first
func (s *ReportService) YearlySummary(ctx context.Context, accountID uuid.UUID) ([]PeriodSummary, error) {
	entries, err := s.ListLedger(ctx, accountID, &LedgerFilter{})
	if err != nil {
		return nil, err
	}

	byYear := make(map[int]*PeriodSummary)
	for i := range entries {
		year := entries[i].EntryDate.Year()
		summary, ok := byYear[year]
		if !ok {
			summary = &PeriodSummary{Year: year}
			byYear[year] = summary
		}
		summary.add(&entries[i])
	}

	years := make([]PeriodSummary, 0, len(byYear))
	for _, summary := range byYear {
		years = append(years, *summary)
	}
	sort.Slice(years, func(i, j int) bool { return years[i].Year < years[j].Year })
	return years, nil
}

// CurrentMonth returns the summary of the current calendar month
func (s *ReportService) CurrentMonth(ctx context.Context, accountID uuid.UUID) (*PeriodSummary, error) {
	now := s.now()
	entries, err := s.ListLedger(ctx, accountID, &LedgerFilter{Year: now.Year(), Month: int(now.Month())})
	if err != nil {
		return nil, err
	}

	summary := &PeriodSummary{Year: now.Year(), Month: int(now.Month())}
	for i := range entries {
		summary.add(&entries[i])
	}
	return summary, nil
}

// ClientTotals returns the income per client, highest first. A zero year
// covers every year.
func (s *ReportService) ClientTotals(ctx context.Context, accountID uuid.UUID, year int) ([]ClientTotal, error) {
	income := enum.EntryTypeIncome
	entries, err := s.ListLedger(ctx, accountID, &LedgerFilter{Year: year, EntryType: &income})
	if err != nil {
		return nil, err
	}

	byClient := make(map[uuid.UUID]*ClientTotal)
	clientIDs := make([]uuid.UUID, 0)
	for i := range entries {
		if entries[i].ClientID == nil {
			continue
		}
		id := *entries[i].ClientID
		total, ok := byClient[id]
		if !ok {
			total = &ClientTotal{ClientID: id}
			byClient[id] = total
			clientIDs = append(clientIDs, id)
		}
		total.Income += entries[i].Amount
		total.Transactions++
	}

	totals := make([]ClientTotal, 0, len(byClient))
	if len(clientIDs) == 0 {
		return totals, nil
	}

	clients, err := s.store.Repos().Clients.GetByIDs(ctx, accountID, clientIDs)
	if err != nil {
		return nil, err
	}
	for i := range clients {
		if total, ok := byClient[clients[i].ID]; ok {
			total.ClientName = clients[i].Name
		}
	}

	for _, id := range clientIDs {
		totals = append(totals, *byClient[id])
	}
	sort.SliceStable(totals, func(i, j int) bool { return totals[i].Income > totals[j].Income })
	return totals, nil
}

// ExportLedger renders the filtered ledger as an XLSX workbook
func (s *ReportService) ExportLedger(ctx context.Context, accountID uuid.UUID, filter *LedgerFilter) (*bytes.Buffer, error) {
	entries, err := s.ListLedger(ctx, accountID, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ledgerSheet); err != nil {
		return nil, err
	}

	headers := []string{"Date", "Type", "Description", "Reference", "Amount"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(ledgerSheet, cell, header); err != nil {
			return nil, err
		}
	}

	var income, expense int64
	for i, e := range entries {
		row := i + 2
		amount := money.ToFloat(e.Amount)
		if e.EntryType == enum.EntryTypeExpense {
			expense += e.Amount
			amount = -amount
		} else {
			income += e.Amount
		}

		values := []interface{}{
			e.EntryDate.Format(utils.DateLayout),
			string(e.EntryType),
			e.Description,
			e.ReferenceID,
			amount,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(ledgerSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	totalsRow := len(entries) + 3
	totals := [][2]interface{}{
		{"Income", money.ToFloat(income)},
		{"Expense", money.ToFloat(expense)},
		{"Profit", money.ToFloat(income - expense)},
	}
	for i, t := range totals {
		row := totalsRow + i
		if err := f.SetCellValue(ledgerSheet, fmt.Sprintf("D%d", row), t[0]); err != nil {
			return nil, err
		}
		if err := f.SetCellValue(ledgerSheet, fmt.Sprintf("E%d", row), t[1]); err != nil {
			return nil, err
		}
	}

	return f.WriteToBuffer()
}
