package ports

import (
	"context"

	"github.com/Sirpyerre/user-management/internal/core/domain"
)

// AuditSink accepts auth events without blocking the caller.
type AuditSink interface {
	Record(event domain.AuthEvent)
}

// AuditRepository persists auth events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuthEvent) error
}
