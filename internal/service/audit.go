package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/campora/college-admin-api/internal/models"
)

type auditRecorder interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

// emitAudit records an audit entry fire-and-forget: failures are logged
// and never propagated to the caller.
func emitAudit(ctx context.Context, logger *zap.Logger, recorder auditRecorder, log *models.AuditLog) {
	if recorder == nil {
		return
	}
	if err := recorder.Create(ctx, log); err != nil {
		logger.Warn("failed to record audit log",
			zap.String("action", log.Action),
			zap.String("resource", log.Resource),
			zap.Error(err))
	}
}
