package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"sprintlens/internal/analysis"
	"sprintlens/internal/azdo"
	"sprintlens/internal/config"
	"sprintlens/internal/report"
	"sprintlens/internal/stats"
)

// Handlers serves the API routes.
type Handlers struct {
	svc *analysis.Service
	log zerolog.Logger
}

func NewHandlers(svc *analysis.Service, log zerolog.Logger) *Handlers {
	return &Handlers{svc: svc, log: log}
}

// ClassifyRequest classifies one item, or a batch when Items is set.
type ClassifyRequest struct {
	Title string               `json:"title"`
	Type  string               `json:"type"`
	Tags  []string             `json:"tags"`
	Items []analysis.ItemInput `json:"items"`
}

// InlineRequest carries caller-supplied work items and their window.
type InlineRequest struct {
	Start           string               `json:"start" binding:"required"`
	End             string               `json:"end" binding:"required"`
	CompletedStates []string             `json:"completed_states"`
	Items           []analysis.ItemInput `json:"items"`
}

// CompareRequest names the catalog sprints to compare.
type CompareRequest struct {
	Sprints []string `json:"sprints" binding:"required,min=1"`
	Limit   int      `json:"limit"`
}

func (h *Handlers) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, config.ErrUnknownSprint), errors.Is(err, analysis.ErrNoSnapshot):
		status = http.StatusNotFound
	case errors.Is(err, stats.ErrInvalidWindow):
		status = http.StatusBadRequest
	case errors.Is(err, azdo.ErrUnauthorized):
		status = http.StatusBadGateway
	}
	if status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (h *Handlers) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handlers) Classify(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cl := h.svc.Classifier()

	if len(req.Items) > 0 {
		out := make([]gin.H, len(req.Items))
		for i, it := range req.Items {
			out[i] = gin.H{"id": it.ID, "title": it.Title, "category": cl.Classify(it.Title, it.Type, it.Tags)}
		}
		c.JSON(http.StatusOK, gin.H{"items": out})
		return
	}
	if req.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title or items is required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"title": req.Title, "category": cl.Classify(req.Title, req.Type, req.Tags)})
}

func (h *Handlers) ListSprints(c *gin.Context) {
	sprints := h.svc.Sprints()
	if sprints == nil {
		sprints = []config.Sprint{}
	}
	c.JSON(http.StatusOK, gin.H{"sprints": sprints})
}

func (h *Handlers) SprintProgress(c *gin.Context) {
	p, err := h.svc.Progress(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handlers) SprintSummary(c *gin.Context) {
	s, err := h.svc.Summary(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handlers) SprintReport(c *gin.Context) {
	r, err := h.svc.Report(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(report.Markdown(r)))
}

func (h *Handlers) inlineDataset(c *gin.Context) (*analysis.Dataset, bool) {
	var req InlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	ds, err := h.svc.InlineDataset(req.Start, req.End, req.CompletedStates, analysis.ToWorkItems(req.Items))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return ds, true
}

func (h *Handlers) InlineProgress(c *gin.Context) {
	ds, ok := h.inlineDataset(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.svc.ProgressOf(ds))
}

func (h *Handlers) InlineSummary(c *gin.Context) {
	ds, ok := h.inlineDataset(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.svc.SummaryOf(ds))
}

func (h *Handlers) Compare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rows, err := h.svc.Compare(c.Request.Context(), req.Sprints, req.Limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]gin.H, len(rows))
	for i, r := range rows {
		out[i] = gin.H{"sprint": r.Sprint, "summary": r.Summary}
	}
	c.JSON(http.StatusOK, gin.H{"sprints": out, "average_velocity": report.Velocity(rows)})
}
