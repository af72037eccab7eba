package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/apperr"
	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/middleware"
	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/repository"
)

type CommunityHandler struct {
	repo   repository.CommunityRepository
	logger *zap.Logger
}

func NewCommunityHandler(repo repository.CommunityRepository, logger *zap.Logger) *CommunityHandler {
	return &CommunityHandler{repo: repo, logger: logger}
}

type createCommunityRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Create handles POST /v1/communities
//
// A body that does not parse is a 400; a body that parses but has a blank
// name is a 422. Communities start with member_count 0; the creator is
// not joined automatically.
func (h *CommunityHandler) Create(c *gin.Context) {
	var req createCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "name is required"})
		return
	}

	community, err := h.repo.Create(c.Request.Context(), name, strings.TrimSpace(req.Description))
	if err != nil {
		respondError(c, h.logger, err, "failed to create community")
		return
	}

	h.logger.Info("community created",
		zap.String("id", community.ID.String()),
		zap.String("actor", middleware.GetUserID(c)),
	)
	c.JSON(http.StatusCreated, community)
}

// List handles GET /v1/communities
func (h *CommunityHandler) List(c *gin.Context) {
	communities, err := h.repo.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "failed to list communities")
		return
	}
	c.JSON(http.StatusOK, communities)
}

// Get handles GET /v1/communities/:id
func (h *CommunityHandler) Get(c *gin.Context) {
	id, ok := communityID(c)
	if !ok {
		return
	}

	community, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
			return
		}
		respondError(c, h.logger, err, "failed to get community")
		return
	}
	c.JSON(http.StatusOK, community)
}

// Mine handles GET /v1/me/memberships
//
// Lists the communities the caller belongs to, newest join first. The user
// id is the token's oid (or sub); there is no local users table to join
// against.
func (h *CommunityHandler) Mine(c *gin.Context) {
	communities, err := h.repo.ListByMember(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, h.logger, err, "failed to list memberships")
		return
	}
	c.JSON(http.StatusOK, communities)
}
