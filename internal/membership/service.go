// Package membership owns the NotMember/Member state of a (user, community)
// pair. The unique (community_id, user_id) constraint in the store is the
// backstop for concurrent joins; this service makes repeated calls
// idempotent and turns store failures into user-safe errors.
package membership

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/apperr"
	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/repository"
)

// User-facing messages.
const (
	msgSignIn      = "sign in to manage memberships"
	msgInvalidRef  = "invalid community or user"
	msgJoinFailed  = "failed to join community"
	msgLeaveFailed = "failed to leave community"
	msgReadFailed  = "failed to load membership"
)

// RefreshFunc lets the caller re-synchronize derived state (member counts,
// cached lists) after a successful join or leave. It may be nil.
type RefreshFunc func(ctx context.Context) error

type Service struct {
	repo   repository.MembershipRepository
	logger *zap.Logger
}

func NewService(repo repository.MembershipRepository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Join makes userID a member of communityID. Joining twice is a no-op, and a
// concurrent join that wins the insert race is absorbed as success.
func (s *Service) Join(ctx context.Context, userID string, communityID uuid.UUID, refresh RefreshFunc) error {
	if userID == "" {
		return apperr.New(apperr.KindUnauthorized, msgSignIn, apperr.ErrUnauthorized)
	}

	// Re-read state right before writing so repeated clicks stay no-ops.
	member, err := s.repo.IsMember(ctx, communityID, userID)
	if err != nil {
		return s.fail(err, msgJoinFailed, userID, communityID)
	}

	if !member {
		if err := s.repo.AddMember(ctx, communityID, userID); err != nil {
			if apperr.KindOf(err) != apperr.KindDuplicate {
				return s.fail(err, msgJoinFailed, userID, communityID)
			}
			// Another join landed between our read and our insert.
			s.logger.Debug("concurrent join absorbed",
				zap.String("user_id", userID),
				zap.String("community_id", communityID.String()),
			)
		}
	}

	s.runRefresh(ctx, refresh, "join", userID, communityID)
	return nil
}

// Leave removes userID from communityID. Leaving when not a member is a
// no-op.
func (s *Service) Leave(ctx context.Context, userID string, communityID uuid.UUID, refresh RefreshFunc) error {
	if userID == "" {
		return apperr.New(apperr.KindUnauthorized, msgSignIn, apperr.ErrUnauthorized)
	}

	member, err := s.repo.IsMember(ctx, communityID, userID)
	if err != nil {
		return s.fail(err, msgLeaveFailed, userID, communityID)
	}

	if member {
		if err := s.repo.RemoveMember(ctx, communityID, userID); err != nil {
			return s.fail(err, msgLeaveFailed, userID, communityID)
		}
	}

	s.runRefresh(ctx, refresh, "leave", userID, communityID)
	return nil
}

// Status reports whether userID is a member of communityID.
func (s *Service) Status(ctx context.Context, userID string, communityID uuid.UUID) (bool, error) {
	if userID == "" {
		return false, apperr.New(apperr.KindUnauthorized, msgSignIn, apperr.ErrUnauthorized)
	}

	member, err := s.repo.IsMember(ctx, communityID, userID)
	if err != nil {
		return false, s.fail(err, msgReadFailed, userID, communityID)
	}
	return member, nil
}

// fail maps a store error onto the taxonomy. Only upstream failures are
// logged here; the raw cause never reaches the message.
func (s *Service) fail(err error, fallback, userID string, communityID uuid.UUID) error {
	if apperr.KindOf(err) == apperr.KindForeignKey {
		return apperr.New(apperr.KindForeignKey, msgInvalidRef, err)
	}

	s.logger.Error(fallback,
		zap.String("user_id", userID),
		zap.String("community_id", communityID.String()),
		zap.Error(err),
	)
	return apperr.New(apperr.KindUpstream, fallback, fmt.Errorf("membership store: %w", err))
}

func (s *Service) runRefresh(ctx context.Context, refresh RefreshFunc, op, userID string, communityID uuid.UUID) {
	if refresh == nil {
		return
	}
	if err := refresh(ctx); err != nil {
		s.logger.Warn("membership refresh failed",
			zap.String("op", op),
			zap.String("user_id", userID),
			zap.String("community_id", communityID.String()),
			zap.Error(err),
		)
	}
}
