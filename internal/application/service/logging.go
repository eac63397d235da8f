package service

import (
	"github.com/google/uuid"
	"github.com/sangkips/billing-api/pkg/apperror"
	"go.uber.org/zap"
)

// logRollback reports a failed atomic block. Application errors are
// rejections of the request and go to debug; anything else rolled back a
// write and is logged as an error.
func logRollback(logger *zap.Logger, op string, accountID uuid.UUID, err error) {
	fields := []zap.Field{
		zap.String("op", op),
		zap.String("account_id", accountID.String()),
		zap.Error(err),
	}
	if apperror.IsAppError(err) {
		logger.Debug("request rejected", fields...)
		return
	}
	logger.Error("atomic block rolled back", fields...)
}
