package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/apperr"
	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/catalog"
	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/events"
	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/middleware"
	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/models"
)

// GuideCatalog is what the handler needs from catalog.GuideService.
type GuideCatalog interface {
	List(ctx context.Context, fs catalog.FilterSet, includeUnpublished bool) (*catalog.GuideListing, error)
	Get(ctx context.Context, idOrSlug string, withBody, includeUnpublished bool) (*models.Guide, error)
	Taxonomies(ctx context.Context) (*models.Taxonomies, error)
	Create(ctx context.Context, actorID string, in models.GuideInput) (string, error)
	Update(ctx context.Context, actorID, id string, in models.GuideInput) error
	Delete(ctx context.Context, actorID, id string) error
	Versions(ctx context.Context, itemID string, before int64, limit int) ([]models.AuditRecord, error)
}

// guideQueryKeys are the selections read from a listing query. Status is
// honoured for admins only; public listings are pinned to Approved.
var guideQueryKeys = append(append([]string(nil), catalog.GuideFacetKeys...), catalog.FacetStatus)

type CatalogHandler struct {
	guides    GuideCatalog
	cache     ResponseCache
	events    events.Publisher
	adminRole string
	logger    *zap.Logger
}

func NewCatalogHandler(guides GuideCatalog, cache ResponseCache, pub events.Publisher, adminRole string, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		guides:    guides,
		cache:     cache,
		events:    pub,
		adminRole: adminRole,
		logger:    logger,
	}
}

// List handles GET /v1/catalog?q&sort&pageSize&cursor&domain&type&functionArea&status
//
// Filter values may repeat (?domain=HR&domain=IT) or be comma separated
// (?domain=HR,IT). Listings are not put in the response cache: the cursor
// and every filter combination would each need their own entry. The ETag
// still lets clients revalidate.
func (h *CatalogHandler) List(c *gin.Context) {
	fs, err := catalog.ParseFilterSet(c.Request.URL.Query(), guideQueryKeys...)
	if err != nil {
		respondError(c, h.logger, err, "invalid query")
		return
	}

	listing, err := h.guides.List(c.Request.Context(), fs, h.isAdmin(c))
	if err != nil {
		respondError(c, h.logger, err, "failed to list guides")
		return
	}

	writeJSON(c, h.logger, listing, "failed to list guides")
}

// Taxonomies handles GET /v1/catalog/taxonomies
func (h *CatalogHandler) Taxonomies(c *gin.Context) {
	serveCached(c, h.cache, h.logger, "taxonomies", func() (any, error) {
		return h.guides.Taxonomies(c.Request.Context())
	}, "failed to load taxonomies")
}

// Get handles GET /v1/catalog/:id?include=body
//
// :id may be an id or a slug. Admin reads bypass the shared cache because
// they can see unpublished guides.
func (h *CatalogHandler) Get(c *gin.Context) {
	idOrSlug := c.Param("id")
	withBody := wantsBody(c.Query("include"))
	admin := h.isAdmin(c)

	load := func() (any, error) {
		return h.guides.Get(c.Request.Context(), idOrSlug, withBody, admin)
	}

	if admin {
		v, err := load()
		if err != nil {
			respondError(c, h.logger, err, "failed to get guide")
			return
		}
		writeJSON(c, h.logger, v, "failed to get guide")
		return
	}

	name := "guide:" + idOrSlug + ":body=" + strconv.FormatBool(withBody)
	serveCached(c, h.cache, h.logger, name, load, "failed to get guide")
}

// Versions handles GET /v1/catalog/:id/versions?before=123&limit=50
//
// before is the id of the oldest record already seen; 0 starts from the
// newest.
func (h *CatalogHandler) Versions(c *gin.Context) {
	var (
		before int64
		limit  int
		err    error
	)
	if b := c.Query("before"); b != "" {
		before, err = strconv.ParseInt(b, 10, 64)
		if err != nil || before < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'before' parameter"})
			return
		}
	}
	if l := c.Query("limit"); l != "" {
		limit, err = strconv.Atoi(l)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'limit' parameter"})
			return
		}
	}

	records, err := h.guides.Versions(c.Request.Context(), c.Param("id"), before, limit)
	if err != nil {
		respondError(c, h.logger, err, "failed to list versions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": records})
}

// Create handles POST /v1/catalog (admin)
func (h *CatalogHandler) Create(c *gin.Context) {
	in, ok := h.bindGuide(c)
	if !ok {
		return
	}

	id, err := h.guides.Create(c.Request.Context(), middleware.GetUserID(c), in)
	if err != nil {
		respondError(c, h.logger, err, "failed to create guide")
		return
	}

	h.changed(c.Request.Context(), id, models.AuditActionCreate)
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// Update handles PUT /v1/catalog/:id (admin)
func (h *CatalogHandler) Update(c *gin.Context) {
	in, ok := h.bindGuide(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if err := h.guides.Update(c.Request.Context(), middleware.GetUserID(c), id, in); err != nil {
		respondError(c, h.logger, err, "failed to update guide")
		return
	}

	h.changed(c.Request.Context(), id, models.AuditActionUpdate)
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// Delete handles DELETE /v1/catalog/:id (admin)
func (h *CatalogHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.guides.Delete(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		respondError(c, h.logger, err, "failed to delete guide")
		return
	}

	h.changed(c.Request.Context(), id, models.AuditActionDelete)
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) bindGuide(c *gin.Context) (models.GuideInput, bool) {
	var in models.GuideInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, h.logger,
			apperr.New(apperr.KindParse, "invalid request body", errors.Join(apperr.ErrParse, err)),
			"invalid request body")
		return in, false
	}
	return in, true
}

// changed drops cached bodies and announces the write. Neither step can
// fail the request; the write is already committed.
func (h *CatalogHandler) changed(ctx context.Context, id, action string) {
	h.cache.Invalidate(ctx)

	err := h.events.Publish(ctx, events.Event{
		Type: events.TypeCatalogChanged,
		Key:  id,
		Data: gin.H{"id": id, "action": action},
	})
	if err != nil {
		h.logger.Warn("failed to publish catalog event", zap.String("id", id), zap.Error(err))
	}
}

func (h *CatalogHandler) isAdmin(c *gin.Context) bool {
	return middleware.HasRole(c, h.adminRole)
}

// wantsBody reports whether ?include asks for the guide body.
func wantsBody(include string) bool {
	switch strings.ToLower(strings.TrimSpace(include)) {
	case "body", "all", "1":
		return true
	}
	return false
}
