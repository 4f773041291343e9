package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shiftbook/mailroom/internal/domain"
)

type pgAuditLogRepository struct {
	pool *pgxpool.Pool
}

// NewPgAuditLogRepository returns an AuditLogRepository backed by PostgreSQL.
func NewPgAuditLogRepository(pool *pgxpool.Pool) AuditLogRepository {
	return &pgAuditLogRepository{pool: pool}
}

func (r *pgAuditLogRepository) Insert(ctx context.Context, l *domain.AuditLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO audit_logs
			(id, event_type, severity, metadata, ip_address, user_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		l.ID, l.EventType, l.Severity, l.Metadata, l.IPAddress, l.UserID, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}
