package postgres

import (
	"context"
	"database/sql"

	"github.com/ds124wfegd/bgremove/internal/entity"

	_ "github.com/lib/pq"
)

type HistoryRepository struct {
	db *sql.DB
}

func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Record(ctx context.Context, record *entity.HistoryRecord) error {
	query := `INSERT INTO variant_history (image_id, variant, mode, threshold, erased, path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		record.ImageID, record.Variant, string(record.Mode), record.Threshold, record.Erased, record.Path, record.CreatedAt,
	).Scan(&record.ID)
}

func (r *HistoryRepository) ListByImage(ctx context.Context, imageID string) ([]entity.HistoryRecord, error) {
	query := `SELECT id, image_id, variant, mode, threshold, erased, path, created_at
		FROM variant_history WHERE image_id = $1 ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, imageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []entity.HistoryRecord{}
	for rows.Next() {
		var rec entity.HistoryRecord
		var mode string
		err := rows.Scan(&rec.ID, &rec.ImageID, &rec.Variant, &mode, &rec.Threshold, &rec.Erased, &rec.Path, &rec.CreatedAt)
		if err != nil {
			return nil, err
		}
		rec.Mode = entity.Mode(mode)
		records = append(records, rec)
	}

	return records, rows.Err()
}

func (r *HistoryRepository) DeleteByImage(ctx context.Context, imageID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM variant_history WHERE image_id = $1`, imageID)
	return err
}
