package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/events"
	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/membership"
	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/middleware"
	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/repository"
)

// MembershipService is what the handler needs from membership.Service.
type MembershipService interface {
	Join(ctx context.Context, userID string, communityID uuid.UUID, refresh membership.RefreshFunc) error
	Leave(ctx context.Context, userID string, communityID uuid.UUID, refresh membership.RefreshFunc) error
	Status(ctx context.Context, userID string, communityID uuid.UUID) (bool, error)
}

// MembershipHandler handles community membership operations.
type MembershipHandler struct {
	service     MembershipService
	members     repository.MembershipRepository
	communities repository.CommunityRepository
	events      events.Publisher
	logger      *zap.Logger
}

func NewMembershipHandler(
	service MembershipService,
	members repository.MembershipRepository,
	communities repository.CommunityRepository,
	pub events.Publisher,
	logger *zap.Logger,
) *MembershipHandler {
	return &MembershipHandler{
		service:     service,
		members:     members,
		communities: communities,
		events:      pub,
		logger:      logger,
	}
}

// Join handles POST /v1/communities/:id/join
//
// The route is not behind RequireAuth. An anonymous caller reaches the
// service with an empty user id and gets its 401 "sign in to manage
// memberships", the same message the leave path uses.
//
// Joining twice is a 204 both times. The member count and the
// community.membership_changed event only follow a join that changed
// something.
func (h *MembershipHandler) Join(c *gin.Context) {
	id, ok := communityID(c)
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.service.Join(c.Request.Context(), userID, id, h.refresh(id, userID, "join")); err != nil {
		respondError(c, h.logger, err, "failed to join community")
		return
	}

	// 204 No Content: nothing to return beyond success.
	c.Status(http.StatusNoContent)
}

// Leave handles POST /v1/communities/:id/leave
func (h *MembershipHandler) Leave(c *gin.Context) {
	id, ok := communityID(c)
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.service.Leave(c.Request.Context(), userID, id, h.refresh(id, userID, "leave")); err != nil {
		respondError(c, h.logger, err, "failed to leave community")
		return
	}

	c.Status(http.StatusNoContent)
}

// Status handles GET /v1/communities/:id/membership
func (h *MembershipHandler) Status(c *gin.Context) {
	id, ok := communityID(c)
	if !ok {
		return
	}

	member, err := h.service.Status(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		respondError(c, h.logger, err, "failed to load membership")
		return
	}

	c.JSON(http.StatusOK, gin.H{"member": member})
}

// ListMembers handles GET /v1/communities/:id/members
func (h *MembershipHandler) ListMembers(c *gin.Context) {
	id, ok := communityID(c)
	if !ok {
		return
	}

	members, err := h.members.ListMembers(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "failed to list members")
		return
	}

	c.JSON(http.StatusOK, members)
}

// refresh recomputes the community's member count and announces the
// change. The membership service logs its error; it never fails the call.
func (h *MembershipHandler) refresh(communityID uuid.UUID, userID, action string) membership.RefreshFunc {
	return func(ctx context.Context) error {
		count, err := h.communities.RefreshMemberCount(ctx, communityID)
		if err != nil {
			return err
		}
		return h.events.Publish(ctx, events.Event{
			Type: events.TypeMembershipChanged,
			Key:  communityID.String(),
			Data: gin.H{
				"communityId": communityID,
				"userId":      userID,
				"action":      action,
				"memberCount": count,
			},
		})
	}
}
