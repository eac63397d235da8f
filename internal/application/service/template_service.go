package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/internal/domain/repository"
	"github.com/sangkips/billing-api/pkg/apperror"
	"github.com/sangkips/billing-api/pkg/money"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TemplateService manages quick templates and replays them through the
// transaction and staff payment services
type TemplateService struct {
	store         repository.Store
	transactions  *TransactionService
	staffPayments *StaffPaymentService
	logger        *zap.Logger
}

// NewTemplateService creates a new template service
func NewTemplateService(
	store repository.Store,
	transactions *TransactionService,
	staffPayments *StaffPaymentService,
	logger *zap.Logger,
) *TemplateService {
	return &TemplateService{
		store:         store,
		transactions:  transactions,
		staffPayments: staffPayments,
		logger:        logger,
	}
}

// TransactionTemplateInput represents the create and update input of a
// quick transaction template. Amount is the unit price used when no product
// is set; a nil IsActive means active on create and unchanged on update.
type TransactionTemplateInput struct {
	AccountID     uuid.UUID
	Name          string
	ClientID      uuid.UUID
	ProductID     *uuid.UUID
	Description   string
	Amount        *decimal.Decimal
	Quantity      decimal.Decimal
	TaxRate       *decimal.Decimal
	PaymentMethod string
	Notes         string
	MarkAsPaid    bool
	IsActive      *bool
}

// StaffPaymentTemplateInput represents the create and update input of a
// quick staff payment template
type StaffPaymentTemplateInput struct {
	AccountID     uuid.UUID
	Name          string
	StaffID       uuid.UUID
	Amount        decimal.Decimal
	PaymentMethod string
	Notes         string
	IsActive      *bool
}

func (s *TemplateService) applyTransactionTemplate(ctx context.Context, tmpl *entity.QuickTransactionTemplate, input *TransactionTemplateInput) error {
	r := s.store.Repos()
	var fieldErrors []apperror.FieldError

	if input.Name == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "Name is required"})
	}

	client, err := r.Clients.GetByID(ctx, input.AccountID, input.ClientID)
	if err != nil {
		return err
	}
	if client == nil {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "client_id", Message: "Client not found"})
	}

	var amount int64
	if input.ProductID != nil {
		product, err := r.Products.GetByID(ctx, input.AccountID, *input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "product_id", Message: "Product not found"})
		}
	} else {
		if input.Amount == nil || !input.Amount.IsPositive() {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "amount", Message: "Amount is required without a product"})
		} else {
			amount = money.FromDecimal(*input.Amount)
		}
		if input.Description == "" {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "description", Message: "Description is required without a product"})
		}
	}

	quantity := input.Quantity
	if quantity.IsZero() {
		quantity = decimal.NewFromInt(1)
	}
	if !quantity.IsPositive() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "quantity", Message: "Quantity must be greater than zero"})
	}

	if input.TaxRate != nil && (input.TaxRate.IsNegative() || input.TaxRate.GreaterThan(maxTaxRate)) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "tax_rate", Message: "Tax rate must be between 0 and 100"})
	}

	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}

	tmpl.AccountID = input.AccountID
	tmpl.Name = input.Name
	tmpl.ClientID = input.ClientID
	tmpl.ProductID = input.ProductID
	tmpl.Description = input.Description
	tmpl.Amount = amount
	tmpl.Quantity = quantity
	tmpl.TaxRate = input.TaxRate
	tmpl.PaymentMethod = input.PaymentMethod
	tmpl.Notes = input.Notes
	tmpl.MarkAsPaid = input.MarkAsPaid
	if input.IsActive != nil {
		tmpl.IsActive = *input.IsActive
	}
	return nil
}

// CreateTransactionTemplate creates a quick transaction template
func (s *TemplateService) CreateTransactionTemplate(ctx context.Context, input *TransactionTemplateInput) (*entity.QuickTransactionTemplate, error) {
	tmpl := &entity.QuickTransactionTemplate{IsActive: true}
	if err := s.applyTransactionTemplate(ctx, tmpl, input); err != nil {
		return nil, err
	}
	if err := s.store.Repos().TransactionTemplates.Create(ctx, tmpl); err != nil {
		return nil, err
	}
	return tmpl, nil
}

// GetTransactionTemplate retrieves a quick transaction template
func (s *TemplateService) GetTransactionTemplate(ctx context.Context, accountID, id uuid.UUID) (*entity.QuickTransactionTemplate, error) {
	tmpl, err := s.store.Repos().TransactionTemplates.GetByID(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, apperror.NewNotFoundError("Template")
	}
	return tmpl, nil
}

// ListTransactionTemplates lists quick transaction templates
func (s *TemplateService) ListTransactionTemplates(ctx context.Context, accountID uuid.UUID, activeOnly bool) ([]entity.QuickTransactionTemplate, error) {
	templates, err := s.store.Repos().TransactionTemplates.List(ctx, accountID, activeOnly)
	if err != nil {
		return nil, err
	}
	if templates == nil {
		templates = []entity.QuickTransactionTemplate{}
	}
	return templates, nil
}

// UpdateTransactionTemplate replaces a quick transaction template
func (s *TemplateService) UpdateTransactionTemplate(ctx context.Context, id uuid.UUID, input *TransactionTemplateInput) (*entity.QuickTransactionTemplate, error) {
	tmpl, err := s.GetTransactionTemplate(ctx, input.AccountID, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyTransactionTemplate(ctx, tmpl, input); err != nil {
		return nil, err
	}
	if err := s.store.Repos().TransactionTemplates.Update(ctx, tmpl); err != nil {
		return nil, err
	}
	return tmpl, nil
}

// DeleteTransactionTemplate deletes a quick transaction template
func (s *TemplateService) DeleteTransactionTemplate(ctx context.Context, accountID, id uuid.UUID) error {
	tmpl, err := s.GetTransactionTemplate(ctx, accountID, id)
	if err != nil {
		return err
	}
	return s.store.Repos().TransactionTemplates.Delete(ctx, tmpl.ID)
}

// ExecuteTransactionTemplate creates a transaction dated today from an
// active template. The template itself is left untouched.
func (s *TemplateService) ExecuteTransactionTemplate(ctx context.Context, accountID, id uuid.UUID) (*entity.Transaction, error) {
	tmpl, err := s.GetTransactionTemplate(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	if !tmpl.IsActive {
		return nil, apperror.NewFieldError("template", "Template is inactive")
	}

	item := TransactionItemInput{
		ProductID:   tmpl.ProductID,
		Description: tmpl.Description,
		Quantity:    tmpl.Quantity,
		TaxRate:     tmpl.TaxRate,
	}
	if tmpl.ProductID == nil {
		price := money.ToDecimal(tmpl.Amount)
		item.UnitPrice = &price
	}

	status := enum.TransactionStatusPending
	if tmpl.MarkAsPaid {
		status = enum.TransactionStatusPaid
	}

	txn, err := s.transactions.CreateTransaction(ctx, &TransactionInput{
		AccountID:     accountID,
		ClientID:      tmpl.ClientID,
		PaymentMethod: tmpl.PaymentMethod,
		Notes:         tmpl.Notes,
		Status:        &status,
		Items:         []TransactionItemInput{item},
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("transaction template executed",
		zap.String("account_id", accountID.String()),
		zap.String("template_id", tmpl.ID.String()),
		zap.String("transaction_id", txn.ExternalID.String()),
	)
	return txn, nil
}

func (s *TemplateService) applyStaffPaymentTemplate(ctx context.Context, tmpl *entity.QuickStaffPaymentTemplate, input *StaffPaymentTemplateInput) error {
	var fieldErrors []apperror.FieldError

	if input.Name == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "Name is required"})
	}

	staff, err := s.store.Repos().Staff.GetByID(ctx, input.AccountID, input.StaffID)
	if err != nil {
		return err
	}
	if staff == nil {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "staff_id", Message: "Staff not found"})
	}

	amount := money.FromDecimal(input.Amount)
	if amount <= 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "amount", Message: "Amount must be greater than zero"})
	}

	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}

	tmpl.AccountID = input.AccountID
	tmpl.Name = input.Name
	tmpl.StaffID = input.StaffID
	tmpl.Amount = amount
	tmpl.PaymentMethod = input.PaymentMethod
	tmpl.Notes = input.Notes
	if input.IsActive != nil {
		tmpl.IsActive = *input.IsActive
	}
	return nil
}

// CreateStaffPaymentTemplate creates a quick staff payment template
func (s *TemplateService) CreateStaffPaymentTemplate(ctx context.Context, input *StaffPaymentTemplateInput) (*entity.QuickStaffPaymentTemplate, error) {
	tmpl := &entity.QuickStaffPaymentTemplate{IsActive: true}
	if err := s.applyStaffPaymentTemplate(ctx, tmpl, input); err != nil {
		return nil, err
	}
	if err := s.store.Repos().StaffPaymentTemplates.Create(ctx, tmpl); err != nil {
		return nil, err
	}
	return tmpl, nil
}

// GetStaffPaymentTemplate retrieves a quick staff payment template
func (s *TemplateService) GetStaffPaymentTemplate(ctx context.Context, accountID, id uuid.UUID) (*entity.QuickStaffPaymentTemplate, error) {
	tmpl, err := s.store.Repos().StaffPaymentTemplates.GetByID(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, apperror.NewNotFoundError("Template")
	}
	return tmpl, nil
}

// ListStaffPaymentTemplates lists quick staff payment templates
func (s *TemplateService) ListStaffPaymentTemplates(ctx context.Context, accountID uuid.UUID, activeOnly bool) ([]entity.QuickStaffPaymentTemplate, error) {
	templates, err := s.store.Repos().StaffPaymentTemplates.List(ctx, accountID, activeOnly)
	if err != nil {
		return nil, err
	}
	if templates == nil {
		templates = []entity.QuickStaffPaymentTemplate{}
	}
	return templates, nil
}

// UpdateStaffPaymentTemplate replaces a quick staff payment template
func (s *TemplateService) UpdateStaffPaymentTemplate(ctx context.Context, id uuid.UUID, input *StaffPaymentTemplateInput) (*entity.QuickStaffPaymentTemplate, error) {
	tmpl, err := s.GetStaffPaymentTemplate(ctx, input.AccountID, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyStaffPaymentTemplate(ctx, tmpl, input); err != nil {
		return nil, err
	}
	if err := s.store.Repos().StaffPaymentTemplates.Update(ctx, tmpl); err != nil {
		return nil, err
	}
	return tmpl, nil
}

// DeleteStaffPaymentTemplate deletes a quick staff payment template
func (s *TemplateService) DeleteStaffPaymentTemplate(ctx context.Context, accountID, id uuid.UUID) error {
	tmpl, err := s.GetStaffPaymentTemplate(ctx, accountID, id)
	if err != nil {
		return err
	}
	return s.store.Repos().StaffPaymentTemplates.Delete(ctx, tmpl.ID)
}

// ExecuteStaffPaymentTemplate records a staff payment dated today from an
// active template
func (s *TemplateService) ExecuteStaffPaymentTemplate(ctx context.Context, accountID, id uuid.UUID) (*entity.StaffPayment, error) {
	tmpl, err := s.GetStaffPaymentTemplate(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	if !tmpl.IsActive {
		return nil, apperror.NewFieldError("template", "Template is inactive")
	}

	payment, err := s.staffPayments.RecordStaffPayment(ctx, &RecordStaffPaymentInput{
		AccountID:     accountID,
		StaffID:       tmpl.StaffID,
		Amount:        money.ToDecimal(tmpl.Amount),
		PaymentMethod: tmpl.PaymentMethod,
		Notes:         tmpl.Notes,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("staff payment template executed",
		zap.String("account_id", accountID.String()),
		zap.String("template_id", tmpl.ID.String()),
		zap.Uint("staff_payment_id", payment.ID),
	)
	return payment, nil
}
