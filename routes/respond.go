package routes

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"event-marketplace-server/apperrors"
)

// respondError renders a service-layer error with the status and public kind
// from the error taxonomy. Internal causes are logged, never sent on the wire.
func respondError(c *gin.Context, err error) {
	appErr := apperrors.As(err)
	if appErr.Kind == apperrors.KindInternal || appErr.Kind == apperrors.KindUpstreamFailure {
		log.Printf("❌ %s %s failed: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(appErr.StatusCode(), gin.H{
		"success": false,
		"error":   string(appErr.PublicKind()),
		"message": appErr.Message,
	})
}

// paramUint parses a numeric path parameter, responding 400 on garbage.
// The second return value reports whether parsing succeeded.
func paramUint(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   string(apperrors.KindValidationFailed),
			"message": "invalid " + name + " parameter",
		})
		return 0, false
	}
	return uint(id), true
}
