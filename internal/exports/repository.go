// Package exports records an audit trail of roster exports: who requested
// one, where the rendered file lives, and whether an archive copy exists.
package exports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ExportLog represents a single recorded roster export.
type ExportLog struct {
	ID          uuid.UUID `json:"id"`
	RequestedBy int64     `json:"requestedBy"`
	Recipient   string    `json:"recipient"`
	FilePath    string    `json:"filePath"`
	ObjectKey   *string   `json:"objectKey"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Repository provides data access for export audit records.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// RecordExport stores a single export audit row.
func (r *Repository) RecordExport(ctx context.Context, requestedBy int64, recipient, filePath string, objectKey *string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO export_logs (id, requested_by, recipient, file_path, object_key)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.New(), requestedBy, recipient, filePath, objectKey)
	return err
}

// ListRecent returns the most recent export records, newest first.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]ExportLog, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, requested_by, recipient, file_path, object_key, created_at
		FROM export_logs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]ExportLog, 0)
	for rows.Next() {
		var item ExportLog
		if err := rows.Scan(
			&item.ID,
			&item.RequestedBy,
			&item.Recipient,
			&item.FilePath,
			&item.ObjectKey,
			&item.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
