package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shiftbook/mailroom/internal/domain"
)

type pgEmailRepository struct {
	pool *pgxpool.Pool
}

// NewPgEmailRepository returns an EmailRepository backed by PostgreSQL.
func NewPgEmailRepository(pool *pgxpool.Pool) EmailRepository {
	return &pgEmailRepository{pool: pool}
}

const emailColumns = `id, type, recipient, recipient_name, template_data,
       status, error_message, created_at, updated_at`

func (r *pgEmailRepository) Enqueue(ctx context.Context, m *domain.EmailMessage) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO email_queue
			(id, type, recipient, recipient_name, template_data, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		m.ID, m.Type, m.Recipient, m.RecipientName, m.TemplateData, m.Status, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert email: %w", err)
	}
	return nil
}

func (r *pgEmailRepository) GetByID(ctx context.Context, id string) (*domain.EmailMessage, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+emailColumns+`
		FROM email_queue WHERE id = $1`, id)

	m, err := scanEmail(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return m, err
}

func (r *pgEmailRepository) List(ctx context.Context, f domain.ListFilter) ([]*domain.EmailMessage, int, error) {
	where, args := buildListWhere(f)
	offset := (f.Page - 1) * f.Limit

	// Count total matching rows for pagination metadata.
	var total int
	countQuery := "SELECT COUNT(*) FROM email_queue" + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count emails: %w", err)
	}

	// Append pagination args after the WHERE args.
	args = append(args, f.Limit, offset)
	limitPlaceholder := fmt.Sprintf("$%d", len(args)-1)
	offsetPlaceholder := fmt.Sprintf("$%d", len(args))

	query := fmt.Sprintf(`
		SELECT `+emailColumns+`
		FROM email_queue%s
		ORDER BY created_at DESC
		LIMIT %s OFFSET %s`, where, limitPlaceholder, offsetPlaceholder)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list emails: %w", err)
	}
	defer rows.Close()

	messages, err := scanEmails(rows)
	return messages, total, err
}

func (r *pgEmailRepository) CountByStatus(ctx context.Context) (map[domain.Status]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM email_queue GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.Status]int)
	for rows.Next() {
		var status domain.Status
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// ClaimPending selects and transitions in a single statement. The inner
// SELECT takes row locks with SKIP LOCKED, so a concurrent claim simply
// skips rows already being claimed instead of waiting on them or — worse —
// claiming them twice after its own stale read.
func (r *pgEmailRepository) ClaimPending(ctx context.Context, batchSize int) ([]*domain.EmailMessage, error) {
	rows, err := r.pool.Query(ctx, `
		UPDATE email_queue
		SET status = 'processing', updated_at = now()
		WHERE id IN (
			SELECT id FROM email_queue
			WHERE status = 'pending'
			ORDER BY created_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING `+emailColumns, batchSize)
	if err != nil {
		return nil, fmt.Errorf("claim pending: %w", err)
	}
	defer rows.Close()
	return scanEmails(rows)
}

// MarkSent only fires on rows that are processing (the normal path) or
// already sent (a repeated finalize). It can never resurrect a failed row.
func (r *pgEmailRepository) MarkSent(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE email_queue
		SET status = 'sent', error_message = NULL, updated_at = now()
		WHERE id = $1 AND status IN ('processing', 'sent')`, id)
	return err
}

func (r *pgEmailRepository) MarkFailed(ctx context.Context, id, errMsg string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE email_queue
		SET status = 'failed', error_message = $1, updated_at = now()
		WHERE id = $2 AND status IN ('processing', 'failed')`, errMsg, id)
	return err
}

func (r *pgEmailRepository) ReleaseStale(ctx context.Context, olderThan time.Duration) (int, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE email_queue
		SET status = 'pending', updated_at = now()
		WHERE status = 'processing'
		  AND updated_at < now() - $1::interval`,
		fmt.Sprintf("%d milliseconds", olderThan.Milliseconds()),
	)
	if err != nil {
		return 0, fmt.Errorf("release stale: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *pgEmailRepository) Requeue(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE email_queue
		SET status = 'pending', error_message = NULL, updated_at = now()
		WHERE id = $1 AND status = 'failed'`, id)
	if err != nil {
		return fmt.Errorf("requeue: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either the id does not exist or the row is not failed.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrNotRequeueable
	}
	return nil
}

// ---- helpers ----

// scanEmail reads a single email row from any pgx row type.
func scanEmail(row pgx.Row) (*domain.EmailMessage, error) {
	var m domain.EmailMessage
	err := row.Scan(
		&m.ID, &m.Type, &m.Recipient, &m.RecipientName, &m.TemplateData,
		&m.Status, &m.ErrorMessage, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scanEmails(rows pgx.Rows) ([]*domain.EmailMessage, error) {
	var result []*domain.EmailMessage
	for rows.Next() {
		m, err := scanEmail(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// buildListWhere builds a parameterised WHERE clause from a ListFilter.
func buildListWhere(f domain.ListFilter) (string, []any) {
	var conditions []string
	var args []any

	add := func(condition string, val any) {
		args = append(args, val)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if f.Status != nil {
		add("status = $%d", *f.Status)
	}
	if f.Type != nil {
		add("type = $%d", *f.Type)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}
