package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/models"
)

type MembershipStore struct {
	db DB
}

func NewMembershipStore(db DB) *MembershipStore {
	return &MembershipStore{db: db}
}

func (s *MembershipStore) IsMember(ctx context.Context, communityID uuid.UUID, userID string) (bool, error) {
	// EXISTS stops at the first matching row.
	query := `
		SELECT EXISTS (
			SELECT 1 FROM community_members
			WHERE community_id = $1 AND user_id = $2
		)`

	var exists bool
	err := QuerierFromCtx(ctx, s.db).QueryRow(ctx, query, communityID, userID).Scan(&exists)
	if err != nil {
		return false, classify(err, "check membership")
	}
	return exists, nil
}

func (s *MembershipStore) AddMember(ctx context.Context, communityID uuid.UUID, userID string) error {
	// Plain INSERT, no ON CONFLICT: a racing duplicate must surface as
	// ErrDuplicate so the membership service can tell it apart from a
	// fresh insert.
	query := `
		INSERT INTO community_members (community_id, user_id)
		VALUES ($1, $2)`

	if _, err := QuerierFromCtx(ctx, s.db).Exec(ctx, query, communityID, userID); err != nil {
		return classify(err, "add member")
	}
	return nil
}

func (s *MembershipStore) RemoveMember(ctx context.Context, communityID uuid.UUID, userID string) error {
	// DELETE of a missing row affects zero rows and is not an error.
	query := `
		DELETE FROM community_members
		WHERE community_id = $1 AND user_id = $2`

	if _, err := QuerierFromCtx(ctx, s.db).Exec(ctx, query, communityID, userID); err != nil {
		return classify(err, "remove member")
	}
	return nil
}

func (s *MembershipStore) ListMembers(ctx context.Context, communityID uuid.UUID) ([]models.Membership, error) {
	query := `
		SELECT community_id, user_id, created_at
		FROM community_members
		WHERE community_id = $1
		ORDER BY created_at, user_id`

	rows, err := QuerierFromCtx(ctx, s.db).Query(ctx, query, communityID)
	if err != nil {
		return nil, classify(err, "list members")
	}
	defer rows.Close()

	members := make([]models.Membership, 0)
	for rows.Next() {
		var m models.Membership
		if err := rows.Scan(&m.CommunityID, &m.UserID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "iterate members")
	}

	return members, nil
}
