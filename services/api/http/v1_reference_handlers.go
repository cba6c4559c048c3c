package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleV1Standards returns the regulatory table uploads are judged against
// GET /api/v1/reference/standards
func (s *Server) handleV1Standards(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"data": s.standards,
		"meta": gin.H{
			"count": len(s.standards),
		},
	})
}
