package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/catalog"
	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/models"
)

// CourseCatalog is what the handler needs from catalog.CourseService.
type CourseCatalog interface {
	List(ctx context.Context, fs catalog.FilterSet) (*catalog.CourseListing, error)
	Get(ctx context.Context, idOrSlug string) (*models.Course, error)
}

type CourseHandler struct {
	courses CourseCatalog
	cache   ResponseCache
	logger  *zap.Logger
}

func NewCourseHandler(courses CourseCatalog, cache ResponseCache, logger *zap.Logger) *CourseHandler {
	return &CourseHandler{courses: courses, cache: cache, logger: logger}
}

// List handles GET /v1/lms/courses?q&category&delivery&duration&level&location&audience&department&owner&status
func (h *CourseHandler) List(c *gin.Context) {
	query := c.Request.URL.Query()
	fs, err := catalog.ParseFilterSet(query, catalog.CourseFacetKeys...)
	if err != nil {
		respondError(c, h.logger, err, "invalid query")
		return
	}

	// Encode sorts by key, so equivalent queries share an entry.
	serveCached(c, h.cache, h.logger, "courses:"+query.Encode(), func() (any, error) {
		return h.courses.List(c.Request.Context(), fs)
	}, "failed to list courses")
}

// Get handles GET /v1/lms/courses/:id
func (h *CourseHandler) Get(c *gin.Context) {
	id := c.Param("id")
	serveCached(c, h.cache, h.logger, "course:"+id, func() (any, error) {
		return h.courses.Get(c.Request.Context(), id)
	}, "failed to get course")
}
