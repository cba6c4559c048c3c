package http

import "github.com/gin-gonic/gin"

// registerV1Routes sets up the v1 API structure
// Groups: /api/v1/batch, /api/v1/reference
func (s *Server) registerV1Routes() {
	v1 := s.engine.Group("/api/v1")
	v1.Use(apiVersionMiddleware()) // Add X-API-Version: v1 header

	// Batch endpoints - upload plus the views over the current batch
	batch := v1.Group("/batch")
	{
		batch.POST("", s.handleV1UploadBatch)
		batch.GET("", s.handleV1GetBatch)
		batch.GET("/summary", s.handleV1BatchSummary)
		batch.GET("/distribution", s.handleV1BatchDistribution)
		batch.GET("/metals", s.handleV1BatchMetals)
		batch.GET("/samples/:id/pollutants", s.handleV1SamplePollutants)
	}

	// Reference endpoints - regulatory lookup data
	reference := v1.Group("/reference")
	{
		reference.GET("/standards", s.handleV1Standards)
	}
}

func apiVersionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-API-Version", "v1")
		c.Next()
	}
}
