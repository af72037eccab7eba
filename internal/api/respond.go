package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/apperr"
)

// respondError writes {"error": msg} with the status of err's kind. Only the
// classified message reaches the client; 5xx causes are logged here.
func respondError(c *gin.Context, logger *zap.Logger, err error, fallback string) {
	kind := apperr.KindOf(err)
	status := kind.Status()
	msg := apperr.Message(err, fallback)

	if status >= http.StatusInternalServerError {
		logger.Error(msg,
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// communityID parses the :id path parameter, answering 400 when it is not a
// UUID.
func communityID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid community id"})
		return uuid.Nil, false
	}
	return id, true
}
