package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/internal/domain/repository"
	"github.com/sangkips/billing-api/pkg/apperror"
	"github.com/sangkips/billing-api/pkg/money"
	"github.com/sangkips/billing-api/pkg/pagination"
	"github.com/sangkips/billing-api/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var maxTaxRate = decimal.NewFromInt(100)

// TransactionService handles the transaction lifecycle
type TransactionService struct {
	store  repository.Store
	ledger *LedgerMirror
	logger *zap.Logger
	now    func() time.Time
}

// NewTransactionService creates a new transaction service
func NewTransactionService(store repository.Store, ledger *LedgerMirror, logger *zap.Logger) *TransactionService {
	return &TransactionService{
		store:  store,
		ledger: ledger,
		logger: logger,
		now:    time.Now,
	}
}

// TransactionItemInput represents a line on a transaction. UnitPrice and
// TaxRate fall back to the product's values when nil.
type TransactionItemInput struct {
	ProductID   *uuid.UUID
	Description string
	Quantity    decimal.Decimal
	UnitPrice   *decimal.Decimal
	TaxRate     *decimal.Decimal
}

// TransactionInput represents the create and update transaction input.
// A nil Status means pending on create and unchanged on update.
type TransactionInput struct {
	AccountID       uuid.UUID
	ClientID        uuid.UUID
	TransactionDate *time.Time
	DueDate         *time.Time
	ReferenceNumber string
	Notes           string
	Terms           string
	PaymentMethod   string
	Status          *enum.TransactionStatus
	Items           []TransactionItemInput
}

// builtItems holds validated lines and the totals derived from them
type builtItems struct {
	items     []entity.TransactionItem
	subtotal  int64
	taxAmount int64
}

func (b *builtItems) total() int64 {
	return b.subtotal + b.taxAmount
}

// validateStatus accepts every status a caller may set directly. Partial is
// only ever reached through payments.
func validateStatus(status enum.TransactionStatus) error {
	if !status.IsValid() || status == enum.TransactionStatusPartial {
		return apperror.NewFieldError("status", "Status must be one of draft, pending, paid, overdue")
	}
	return nil
}

// buildItems validates the submitted lines against the account's products
// and computes their totals. Tax is summed unrounded and rounded once.
func buildItems(ctx context.Context, r *repository.Repositories, accountID uuid.UUID, inputs []TransactionItemInput) (*builtItems, error) {
	if len(inputs) == 0 {
		return nil, apperror.NewFieldError("items", "At least one item is required")
	}

	// Batch fetch all products in one query
	productIDs := make([]uuid.UUID, 0, len(inputs))
	for _, item := range inputs {
		if item.ProductID != nil {
			productIDs = append(productIDs, *item.ProductID)
		}
	}

	productMap := make(map[uuid.UUID]*entity.Product, len(productIDs))
	if len(productIDs) > 0 {
		products, err := r.Products.GetByIDs(ctx, accountID, productIDs)
		if err != nil {
			return nil, err
		}
		for i := range products {
			productMap[products[i].ID] = &products[i]
		}
	}

	var fieldErrors []apperror.FieldError
	addError := func(i int, field, msg string) {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field:   fmt.Sprintf("items.%d.%s", i, field),
			Message: msg,
		})
	}

	built := &builtItems{items: make([]entity.TransactionItem, 0, len(inputs))}
	taxTotal := decimal.Zero

	for i, in := range inputs {
		var product *entity.Product
		if in.ProductID != nil {
			product = productMap[*in.ProductID]
			if product == nil {
				addError(i, "product_id", "Product not found")
				continue
			}
		}

		if !in.Quantity.IsPositive() {
			addError(i, "quantity", "Quantity must be greater than zero")
			continue
		}

		var unitPrice int64
		switch {
		case in.UnitPrice != nil:
			if in.UnitPrice.IsNegative() {
				addError(i, "unit_price", "Unit price cannot be negative")
				continue
			}
			unitPrice = money.FromDecimal(*in.UnitPrice)
		case product != nil:
			unitPrice = product.Price
		default:
			addError(i, "unit_price", "Unit price is required without a product")
			continue
		}

		taxRate := decimal.Zero
		switch {
		case in.TaxRate != nil:
			taxRate = *in.TaxRate
		case product != nil:
			taxRate = product.TaxRate
		}
		if taxRate.IsNegative() || taxRate.GreaterThan(maxTaxRate) {
			addError(i, "tax_rate", "Tax rate must be between 0 and 100")
			continue
		}

		description := in.Description
		if description == "" && product != nil {
			description = product.Name
		}
		if description == "" {
			addError(i, "description", "Description is required")
			continue
		}

		lineTotal := money.LineTotal(in.Quantity, unitPrice)
		built.subtotal += lineTotal
		taxTotal = taxTotal.Add(money.TaxPortion(lineTotal, taxRate))

		built.items = append(built.items, entity.TransactionItem{
			ProductID:   in.ProductID,
			Description: description,
			Quantity:    in.Quantity,
			UnitPrice:   unitPrice,
			TaxRate:     taxRate,
			Total:       lineTotal,
		})
	}

	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	built.taxAmount = money.RoundCents(taxTotal)
	return built, nil
}

func (s *TransactionService) checkClient(ctx context.Context, r *repository.Repositories, accountID, clientID uuid.UUID) error {
	client, err := r.Clients.GetByID(ctx, accountID, clientID)
	if err != nil {
		return err
	}
	if client == nil {
		return apperror.NewFieldError("client_id", "Client not found")
	}
	return nil
}

func (s *TransactionService) dateOrToday(d *time.Time) time.Time {
	if d == nil {
		return utils.DateOnly(s.now())
	}
	return utils.DateOnly(*d)
}

func dateOnlyPtr(d *time.Time) *time.Time {
	if d == nil {
		return nil
	}
	v := utils.DateOnly(*d)
	return &v
}

// CreateTransaction creates a transaction with its items. A transaction
// created as paid also gets its income mirrored into the ledger.
func (s *TransactionService) CreateTransaction(ctx context.Context, input *TransactionInput) (*entity.Transaction, error) {
	status := enum.TransactionStatusPending
	if input.Status != nil {
		status = *input.Status
	}
	if err := validateStatus(status); err != nil {
		return nil, err
	}

	reference := input.ReferenceNumber
	if reference == "" {
		reference = utils.GenerateReferenceNo("INV")
	}

	var created *entity.Transaction
	err := s.store.Atomic(ctx, func(r *repository.Repositories) error {
		if err := s.checkClient(ctx, r, input.AccountID, input.ClientID); err != nil {
			return err
		}

		built, err := buildItems(ctx, r, input.AccountID, input.Items)
		if err != nil {
			return err
		}

		txn := &entity.Transaction{
			ExternalID:      uuid.New(),
			AccountID:       input.AccountID,
			ClientID:        input.ClientID,
			TransactionDate: s.dateOrToday(input.TransactionDate),
			DueDate:         dateOnlyPtr(input.DueDate),
			ReferenceNumber: reference,
			Notes:           input.Notes,
			Terms:           input.Terms,
			PaymentMethod:   input.PaymentMethod,
			Status:          status,
			Subtotal:        built.subtotal,
			TaxAmount:       built.taxAmount,
			TotalAmount:     built.total(),
		}
		if err := r.Transactions.Create(ctx, txn); err != nil {
			return err
		}

		for i := range built.items {
			built.items[i].TransactionID = txn.ID
		}
		if err := r.TransactionItems.CreateBatch(ctx, built.items); err != nil {
			return err
		}

		if status == enum.TransactionStatusPaid {
			if err := s.ledger.MirrorSettledTransaction(ctx, r, txn); err != nil {
				return err
			}
		}

		created, err = r.Transactions.GetWithDetails(ctx, input.AccountID, txn.ExternalID)
		return err
	})
	if err != nil {
		logRollback(s.logger, "create transaction", input.AccountID, err)
		return nil, err
	}

	s.logger.Info("transaction created",
		zap.String("account_id", input.AccountID.String()),
		zap.String("transaction_id", created.ExternalID.String()),
		zap.String("total", money.Format(created.TotalAmount)),
		zap.Stringer("status", created.Status),
	)
	return created, nil
}

// UpdateTransaction replaces a transaction's fields and items and keeps its
// creation mirror in step. The new total may not drop below what has
// already been paid.
func (s *TransactionService) UpdateTransaction(ctx context.Context, externalID uuid.UUID, input *TransactionInput) (*entity.Transaction, error) {
	if input.Status != nil {
		if err := validateStatus(*input.Status); err != nil {
			return nil, err
		}
	}

	var updated *entity.Transaction
	err := s.store.Atomic(ctx, func(r *repository.Repositories) error {
		txn, err := r.Transactions.GetForUpdate(ctx, input.AccountID, externalID)
		if err != nil {
			return err
		}
		if txn == nil {
			return apperror.NewNotFoundError("Transaction")
		}

		if err := s.checkClient(ctx, r, input.AccountID, input.ClientID); err != nil {
			return err
		}

		built, err := buildItems(ctx, r, input.AccountID, input.Items)
		if err != nil {
			return err
		}

		paymentsSum, err := r.Payments.SumByTransactionID(ctx, txn.ID, 0)
		if err != nil {
			return err
		}
		if built.total() < paymentsSum {
			return apperror.NewFieldError("items", fmt.Sprintf(
				"Total cannot be lower than the amount already paid (%s)", money.Format(paymentsSum)))
		}

		txn.ClientID = input.ClientID
		if input.TransactionDate != nil {
			txn.TransactionDate = utils.DateOnly(*input.TransactionDate)
		}
		txn.DueDate = dateOnlyPtr(input.DueDate)
		if input.ReferenceNumber != "" {
			txn.ReferenceNumber = input.ReferenceNumber
		}
		txn.Notes = input.Notes
		txn.Terms = input.Terms
		txn.PaymentMethod = input.PaymentMethod
		txn.Subtotal = built.subtotal
		txn.TaxAmount = built.taxAmount
		txn.TotalAmount = built.total()
		if input.Status != nil {
			txn.Status = *input.Status
		}
		if paymentsSum > 0 && paymentsSum < txn.TotalAmount {
			if input.Status != nil && *input.Status == enum.TransactionStatusPaid {
				return apperror.NewFieldError("status", fmt.Sprintf(
					"Cannot mark as paid while %s remains outstanding", money.Format(txn.TotalAmount-paymentsSum)))
			}
			// A raised total reopens a settled transaction
			if txn.Status == enum.TransactionStatusPaid {
				txn.Status = enum.TransactionStatusPartial
			}
		}
		if paymentsSum > 0 {
			txn.Status = DeriveStatus(txn.TotalAmount, paymentsSum, txn.Status)
		}

		if err := r.Transactions.Update(ctx, txn); err != nil {
			return err
		}

		if err := r.TransactionItems.DeleteByTransactionID(ctx, txn.ID); err != nil {
			return err
		}
		for i := range built.items {
			built.items[i].TransactionID = txn.ID
		}
		if err := r.TransactionItems.CreateBatch(ctx, built.items); err != nil {
			return err
		}

		if err := s.ledger.SyncTransactionMirror(ctx, r, txn, paymentsSum); err != nil {
			return err
		}

		updated, err = r.Transactions.GetWithDetails(ctx, input.AccountID, externalID)
		return err
	})
	if err != nil {
		logRollback(s.logger, "update transaction", input.AccountID, err)
		return nil, err
	}

	s.logger.Info("transaction updated",
		zap.String("account_id", input.AccountID.String()),
		zap.String("transaction_id", externalID.String()),
		zap.String("total", money.Format(updated.TotalAmount)),
		zap.Stringer("status", updated.Status),
	)
	return updated, nil
}

// DeleteTransaction removes a transaction with its items, payments and
// every ledger entry mirrored from them
func (s *TransactionService) DeleteTransaction(ctx context.Context, accountID, externalID uuid.UUID) error {
	err := s.store.Atomic(ctx, func(r *repository.Repositories) error {
		txn, err := r.Transactions.GetForUpdate(ctx, accountID, externalID)
		if err != nil {
			return err
		}
		if txn == nil {
			return apperror.NewNotFoundError("Transaction")
		}

		payments, err := r.Payments.ListByTransactionID(ctx, txn.ID)
		if err != nil {
			return err
		}

		if err := s.ledger.RemoveTransactionMirrors(ctx, r, txn, payments); err != nil {
			return err
		}
		if err := r.Payments.DeleteByTransactionID(ctx, txn.ID); err != nil {
			return err
		}
		if err := r.TransactionItems.DeleteByTransactionID(ctx, txn.ID); err != nil {
			return err
		}
		return r.Transactions.Delete(ctx, txn.ID)
	})
	if err != nil {
		logRollback(s.logger, "delete transaction", accountID, err)
		return err
	}

	s.logger.Info("transaction deleted",
		zap.String("account_id", accountID.String()),
		zap.String("transaction_id", externalID.String()),
	)
	return nil
}

// GetTransaction retrieves a transaction with its client, items and payments
func (s *TransactionService) GetTransaction(ctx context.Context, accountID, externalID uuid.UUID) (*entity.Transaction, error) {
	txn, err := s.store.Repos().Transactions.GetWithDetails(ctx, accountID, externalID)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	return txn, nil
}

// ListTransactions lists an account's transactions with pagination
func (s *TransactionService) ListTransactions(ctx context.Context, accountID uuid.UUID, params *repository.TransactionFilterParams) (*pagination.PaginatedResult[entity.Transaction], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	txns, total, err := s.store.Repos().Transactions.List(ctx, accountID, params)
	if err != nil {
		return nil, err
	}

	p := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(txns, p), nil
}
