package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/YASHK-arch/heavy-metal-compass/internal/aggregate"
	"github.com/YASHK-arch/heavy-metal-compass/internal/ingest"
	"github.com/YASHK-arch/heavy-metal-compass/internal/pipeline"
	"github.com/YASHK-arch/heavy-metal-compass/services/api/store"
)

// handleV1UploadBatch assesses an uploaded sample file and makes it the
// current batch. By default any validation diagnostic rejects the upload;
// ?partial=true stores whatever rows individually passed.
// POST /api/v1/batch
func (s *Server) handleV1UploadBatch(c *gin.Context) {
	partial := false
	if partialStr := c.Query("partial"); partialStr != "" {
		if val, err := strconv.ParseBool(partialStr); err == nil {
			partial = val
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid partial parameter"})
			return
		}
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	rows, err := ingest.Read(fileHeader.Filename, f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report := pipeline.Run(rows, pipeline.Options{
		Standards: s.standards,
		Workers:   s.cfg.Workers,
		TopK:      s.cfg.TopPollutants,
	})

	if !report.Valid && !partial {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":       "upload rejected",
			"diagnostics": report.Diagnostics,
		})
		return
	}

	batch := store.Batch{
		ID:         uuid.NewString(),
		Filename:   fileHeader.Filename,
		UploadedAt: time.Now().UTC(),
		Report:     report,
	}
	s.store.Replace(batch)

	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"batch_id":     batch.ID,
			"filename":     batch.Filename,
			"uploaded_at":  batch.UploadedAt,
			"valid":        report.Valid,
			"sample_count": len(report.Samples),
			"diagnostics":  report.Diagnostics,
		},
	})
}

// currentBatch fetches the active batch or answers 404 when nothing has
// been uploaded yet.
func (s *Server) currentBatch(c *gin.Context) (store.Batch, bool) {
	batch, err := s.store.Current()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return store.Batch{}, false
	}
	return batch, true
}

// handleV1GetBatch returns the current batch with its enriched samples
// GET /api/v1/batch
func (s *Server) handleV1GetBatch(c *gin.Context) {
	batch, ok := s.currentBatch(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": batch,
		"meta": gin.H{
			"count": len(batch.Report.Samples),
		},
	})
}

// handleV1BatchSummary returns min/max/avg of HPI and PLI
// GET /api/v1/batch/summary
func (s *Server) handleV1BatchSummary(c *gin.Context) {
	batch, ok := s.currentBatch(c)
	if !ok {
		return
	}

	if batch.Report.Summary == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "current batch has no computed samples"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": batch.Report.Summary})
}

// handleV1BatchDistribution returns the quality category histogram
// GET /api/v1/batch/distribution
func (s *Server) handleV1BatchDistribution(c *gin.Context) {
	batch, ok := s.currentBatch(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": batch.Report.Distribution,
		"meta": gin.H{
			"count": len(batch.Report.Distribution),
		},
	})
}

// handleV1BatchMetals returns per-metal mean concentrations
// GET /api/v1/batch/metals
func (s *Server) handleV1BatchMetals(c *gin.Context) {
	batch, ok := s.currentBatch(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": batch.Report.MeanConcentrations})
}

// handleV1SamplePollutants ranks one sample's metals by concentration
// GET /api/v1/batch/samples/:id/pollutants?k=3
func (s *Server) handleV1SamplePollutants(c *gin.Context) {
	batch, ok := s.currentBatch(c)
	if !ok {
		return
	}

	sampleID := c.Param("id")
	smp, found := batch.SampleByID(sampleID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "sample not found"})
		return
	}

	k := s.cfg.TopPollutants
	if kStr := c.Query("k"); kStr != "" {
		parsed, err := strconv.Atoi(kStr)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid k"})
			return
		}
		k = parsed
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"sample_id":  smp.ID,
			"pollutants": aggregate.TopPollutants(smp, k),
		},
	})
}
