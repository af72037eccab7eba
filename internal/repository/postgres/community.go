package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/models"
)

// CommunityStore reads and writes the communities table. member_count is a
// denormalized column: only RefreshMemberCount writes it, after a
// membership change.
type CommunityStore struct {
	db DB
}

func NewCommunityStore(db DB) *CommunityStore {
	return &CommunityStore{db: db}
}

func (s *CommunityStore) Create(ctx context.Context, name, description string) (*models.Community, error) {
	query := `
		INSERT INTO communities (name, description)
		VALUES ($1, $2)
		RETURNING id, name, description, member_count, created_at`

	var c models.Community
	err := QuerierFromCtx(ctx, s.db).QueryRow(ctx, query, name, description).Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.MemberCount,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, classify(err, "insert community")
	}
	return &c, nil
}

func (s *CommunityStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Community, error) {
	query := `
		SELECT id, name, description, member_count, created_at
		FROM communities
		WHERE id = $1`

	var c models.Community
	err := QuerierFromCtx(ctx, s.db).QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.MemberCount,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, classify(err, "get community "+id.String())
	}
	return &c, nil
}

func (s *CommunityStore) List(ctx context.Context) ([]models.Community, error) {
	query := `
		SELECT id, name, description, member_count, created_at
		FROM communities
		ORDER BY created_at DESC, id`

	rows, err := QuerierFromCtx(ctx, s.db).Query(ctx, query)
	if err != nil {
		return nil, classify(err, "list communities")
	}
	return collectCommunities(rows)
}

func (s *CommunityStore) ListByMember(ctx context.Context, userID string) ([]models.Community, error) {
	// Ordered by when the user joined, not when the community was created,
	// so a fresh join shows up first. c.id breaks ties between joins in
	// the same transaction timestamp.
	query := `
		SELECT c.id, c.name, c.description, c.member_count, c.created_at
		FROM communities c
		JOIN community_members m ON m.community_id = c.id
		WHERE m.user_id = $1
		ORDER BY m.created_at DESC, c.id`

	rows, err := QuerierFromCtx(ctx, s.db).Query(ctx, query, userID)
	if err != nil {
		return nil, classify(err, "list member communities")
	}
	return collectCommunities(rows)
}

func (s *CommunityStore) RefreshMemberCount(ctx context.Context, id uuid.UUID) (int, error) {
	// The count is recomputed from the rows rather than incremented, so a
	// lost refresh heals on the next one.
	query := `
		UPDATE communities
		SET member_count = (
			SELECT count(*) FROM community_members WHERE community_id = $1
		)
		WHERE id = $1
		RETURNING member_count`

	var n int
	if err := QuerierFromCtx(ctx, s.db).QueryRow(ctx, query, id).Scan(&n); err != nil {
		return 0, classify(err, "refresh member count")
	}
	return n, nil
}

func collectCommunities(rows pgx.Rows) ([]models.Community, error) {
	defer rows.Close()

	communities := make([]models.Community, 0)
	for rows.Next() {
		var c models.Community
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Description,
			&c.MemberCount,
			&c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan community: %w", err)
		}
		communities = append(communities, c)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "iterate communities")
	}
	return communities, nil
}
