package postgres

import (
	"context"
	"fmt"

	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/models"
)

// AuditStore appends to and pages through catalog_item_versions.
type AuditStore struct {
	db DB
}

func NewAuditStore(db DB) *AuditStore {
	return &AuditStore{db: db}
}

func (s *AuditStore) Append(ctx context.Context, rec models.AuditRecord) (*models.AuditRecord, error) {
	// id is a bigserial; Postgres assigns it and RETURNING hands it back.
	query := `
		INSERT INTO catalog_item_versions (item_id, action, summary, changes, actor_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	changes := rec.Changes
	if changes == nil {
		changes = map[string]any{}
	}

	err := QuerierFromCtx(ctx, s.db).QueryRow(ctx, query,
		rec.ItemID, rec.Action, rec.Summary, changes, rec.ActorID,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return nil, classify(err, "insert audit record")
	}
	rec.Changes = changes
	return &rec, nil
}

func (s *AuditStore) ListByItem(ctx context.Context, itemID string, before int64, limit int) ([]models.AuditRecord, error) {
	// before=0 → newest records. before=42 → records older than id 42.
	//
	// Keyset on id rather than OFFSET: rows appended while a client pages
	// back do not shift the pages it has not read yet. id is monotonic per
	// insert, so "id < before" is exactly "older than what you saw".
	var (
		query string
		args  []any
	)
	if before > 0 {
		query = `
			SELECT id, item_id, action, summary, changes, actor_id, created_at
			FROM catalog_item_versions
			WHERE item_id = $1 AND id < $2
			ORDER BY id DESC
			LIMIT $3`
		args = []any{itemID, before, limit}
	} else {
		query = `
			SELECT id, item_id, action, summary, changes, actor_id, created_at
			FROM catalog_item_versions
			WHERE item_id = $1
			ORDER BY id DESC
			LIMIT $2`
		args = []any{itemID, limit}
	}

	rows, err := QuerierFromCtx(ctx, s.db).Query(ctx, query, args...)
	if err != nil {
		return nil, classify(err, "list audit records")
	}
	defer rows.Close()

	records := make([]models.AuditRecord, 0)
	for rows.Next() {
		var r models.AuditRecord
		if err := rows.Scan(
			&r.ID,
			&r.ItemID,
			&r.Action,
			&r.Summary,
			&r.Changes,
			&r.ActorID,
			&r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "iterate audit records")
	}

	return records, nil
}
