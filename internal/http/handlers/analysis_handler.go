// README: Analysis handlers (submit, latest, history, reports).
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ecoroute/internal/http/middleware"
	"ecoroute/internal/modules/analysis"
	"ecoroute/internal/render"
	"ecoroute/internal/trip"
)

type AnalysisHandler struct {
	svc     *analysis.Service
	timeout time.Duration
	log     *zap.Logger
}

// NewAnalysisHandler builds the handler. A zero timeout leaves the request context as is.
func NewAnalysisHandler(svc *analysis.Service, timeout time.Duration, logger *zap.Logger) *AnalysisHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisHandler{svc: svc, timeout: timeout, log: logger}
}

// Analyze handles POST /api/analyses.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req trip.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	req = req.Normalized()
	if err := req.Validate(); err != nil {
		writeAnalysisError(c, err)
		return
	}

	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	clientID := middleware.CallerClientID(c)
	rec, err := h.svc.Analyze(ctx, clientID, req)
	if err != nil {
		h.log.Error("analyze route",
			zap.String("client_id", clientID),
			zap.String("start_city", req.StartCity),
			zap.String("end_city", req.EndCity),
			zap.Error(err))
		writeAnalysisError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, rec)
}

// Latest handles GET /api/analyses/latest.
func (h *AnalysisHandler) Latest(c *gin.Context) {
	rec, err := h.svc.Latest(c.Request.Context(), middleware.CallerClientID(c))
	if err != nil {
		writeLookupError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, rec)
}

// List handles GET /api/analyses?limit=N.
func (h *AnalysisHandler) List(c *gin.Context) {
	if !h.svc.HistoryEnabled() {
		writeLookupError(c, analysis.ErrHistoryDisabled)
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	recs, err := h.svc.History(c.Request.Context(), middleware.CallerClientID(c), limit)
	if err != nil {
		writeLookupError(c, err)
		return
	}
	if recs == nil {
		recs = []analysis.Record{}
	}
	writeJSON(c, http.StatusOK, gin.H{"analyses": recs})
}

// Get handles GET /api/analyses/:id.
func (h *AnalysisHandler) Get(c *gin.Context) {
	rec, ok := h.lookup(c)
	if !ok {
		return
	}
	writeJSON(c, http.StatusOK, rec)
}

// ReportPDF handles GET /api/analyses/:id/report.pdf.
func (h *AnalysisHandler) ReportPDF(c *gin.Context) {
	rec, ok := h.lookup(c)
	if !ok {
		return
	}
	body, name, err := render.PDF(rec.Request, rec.Analysis)
	if err != nil {
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "application/pdf", body)
}

// ReportMarkdown handles GET /api/analyses/:id/report.md.
func (h *AnalysisHandler) ReportMarkdown(c *gin.Context) {
	rec, ok := h.lookup(c)
	if !ok {
		return
	}
	name := render.ReportFilename(rec.Request, "md")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(render.Markdown(rec.Request, rec.Analysis)))
}

// Quota handles GET /api/quota.
func (h *AnalysisHandler) Quota(c *gin.Context) {
	left, err := h.svc.QuotaRemaining(c.Request.Context(), middleware.CallerClientID(c))
	if err != nil {
		writeLookupError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"remaining": left})
}

func (h *AnalysisHandler) lookup(c *gin.Context) (*analysis.Record, bool) {
	if !h.svc.HistoryEnabled() {
		writeLookupError(c, analysis.ErrHistoryDisabled)
		return nil, false
	}
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid id")
		return nil, false
	}
	rec, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeLookupError(c, err)
		return nil, false
	}
	return rec, true
}
