package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"cellscope/domain/core"
	"cellscope/domain/stats"
	"cellscope/internal/report"
	"cellscope/internal/request"
	"cellscope/ports"
)

func (s *Server) handleRunTests() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RunTestsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		kind := stats.DataKind(req.Kind)
		results := s.orchestrator.RunFor(kind, req.domainGroups())

		record := &ports.AnalysisRecord{
			ID:        core.RequestID(core.NewID()),
			Surface:   req.Surface,
			Kind:      kind,
			Results:   results,
			CreatedAt: time.Now().UTC(),
		}
		if s.archive != nil {
			if err := s.archive.Save(c.Request.Context(), record); err != nil {
				s.log.Error("archive save failed for %s: %v", record.ID, err)
			}
		}

		c.JSON(http.StatusOK, RunTestsResponse{
			AnalysisID: string(record.ID),
			Results:    results,
		})
	}
}

func (s *Server) handleSummarize() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SummarizeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if len(req.NumericFields) == 0 && len(req.CategoricalFields) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "at least one field is required"})
			return
		}

		spec, err := req.spec()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		_, done := s.manager.Submit(spec)

		result := <-done
		if result.Err != nil {
			switch {
			case core.IsAborted(result.Err):
				c.JSON(http.StatusConflict, gin.H{"error": "request superseded or cancelled"})
			case core.IsFieldNotFound(result.Err), core.IsValidationError(result.Err):
				c.JSON(http.StatusBadRequest, gin.H{"error": result.Err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": result.Err.Error()})
			}
			return
		}

		c.JSON(http.StatusOK, summarizeResponse(result))
	}
}

func (s *Server) handleLatestSummary() gin.HandlerFunc {
	return func(c *gin.Context) {
		surface := c.Query("surface")
		if surface == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "surface is required"})
			return
		}

		result, ok := s.manager.Latest(surface)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no completed request for surface"})
			return
		}
		c.JSON(http.StatusOK, summarizeResponse(result))
	}
}

func (s *Server) handleCancelSummary() gin.HandlerFunc {
	return func(c *gin.Context) {
		surface := c.Query("surface")
		if surface == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "surface is required"})
			return
		}
		cancelled := s.manager.Cancel(surface)
		c.JSON(http.StatusOK, gin.H{"cancelled": cancelled})
	}
}

func (s *Server) handleGetAnalysis() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.archive == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "archive is not configured"})
			return
		}

		id := core.RequestID(c.Param("id"))
		record, err := s.archive.GetByID(c.Request.Context(), id)
		if err != nil {
			if core.IsFieldNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
				return
			}
			s.log.Error("archive lookup failed for %s: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "archive lookup failed"})
			return
		}
		c.JSON(http.StatusOK, record)
	}
}

func (s *Server) handleListAnalyses() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.archive == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "archive is not configured"})
			return
		}

		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		records, err := s.archive.ListRecent(c.Request.Context(), limit)
		if err != nil {
			s.log.Error("archive list failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "archive list failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"analyses": records, "count": len(records)})
	}
}

func (s *Server) handleReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		surface := c.Query("surface")
		if surface == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "surface is required"})
			return
		}

		result, ok := s.manager.Latest(surface)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no completed request for surface"})
			return
		}

		builder := report.NewBuilder("Population Summary: " + surface).
			AddFieldSummaries(result.Numeric...).
			AddCategoricalSummaries(result.Categorical...)
		c.Data(http.StatusOK, "text/html; charset=utf-8", builder.HTML())
	}
}

func summarizeResponse(result *request.Result) SummarizeResponse {
	return SummarizeResponse{
		Seq:         result.Seq,
		RequestID:   string(result.RequestID),
		Numeric:     result.Numeric,
		Categorical: result.Categorical,
	}
}
