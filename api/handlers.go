package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stellarlinkco/prompt-lens/internal/advisor"
	"github.com/stellarlinkco/prompt-lens/internal/analysis"
	"github.com/stellarlinkco/prompt-lens/internal/pattern"
)

type analyzeRequest struct {
	Prompt          string            `json:"prompt"`
	Category        string            `json:"category,omitempty"`
	TaskDescription string            `json:"task_description,omitempty"`
	Model           string            `json:"model,omitempty"`
	Context         map[string]string `json:"context,omitempty"`
}

type promptModelRequest struct {
	Prompt   string `json:"prompt"`
	Category string `json:"category,omitempty"`
	Model    string `json:"model,omitempty"`
}

type outcomeRequest struct {
	Success bool `json:"success"`
}

type fillRequest struct {
	Values map[string]string `json:"values"`
}

type extractRequest struct {
	Prompt string `json:"prompt"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	result := s.analyze(c, &req)
	c.JSON(http.StatusOK, result)
}

func (s *Server) analyze(c *gin.Context, req *analyzeRequest) *analysis.Result {
	return s.app.Engine.Analyze(&analysis.Request{
		Prompt:          req.Prompt,
		Category:        req.Category,
		TaskDescription: req.TaskDescription,
		ModelID:         req.Model,
		Context:         req.Context,
		Metrics:         s.metrics.Estimate(c.Request.Context(), req.Prompt, req.Model),
	})
}

func (s *Server) handleImprove(c *gin.Context) {
	if s.advisor == nil {
		respondError(c, http.StatusServiceUnavailable, errors.New("no llm provider configured"))
		return
	}

	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		respondError(c, http.StatusBadRequest, errors.New("missing prompt"))
		return
	}

	result, err := s.advisor.Improve(c.Request.Context(), &advisor.ImproveRequest{
		Prompt:   req.Prompt,
		Analysis: s.analyze(c, &req),
	})
	if err != nil {
		respondError(c, http.StatusBadGateway, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleListPatterns(c *gin.Context) {
	var out []*pattern.PromptPattern
	switch {
	case strings.TrimSpace(c.Query("category")) != "":
		out = s.app.Patterns.ByCategory(strings.TrimSpace(c.Query("category")))
	case strings.TrimSpace(c.Query("model")) != "":
		out = s.app.Patterns.ByModel(strings.TrimSpace(c.Query("model")))
	case strings.TrimSpace(c.Query("tag")) != "":
		out = s.app.Patterns.ByTags(strings.Split(c.Query("tag"), ","))
	default:
		out = s.app.Patterns.All()
	}

	if out == nil {
		out = []*pattern.PromptPattern{}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetPattern(c *gin.Context) {
	p, ok := s.app.Patterns.Get(c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, errors.New("pattern not found"))
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleUpsertPattern(c *gin.Context) {
	var p pattern.PromptPattern
	if err := c.ShouldBindJSON(&p); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	if err := s.app.SavePattern(c.Request.Context(), &p); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	stored, _ := s.app.Patterns.Get(p.ID)
	c.JSON(http.StatusOK, stored)
}

func (s *Server) handleDeletePattern(c *gin.Context) {
	found, err := s.app.DeletePattern(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": found})
}

func (s *Server) handleSuggestPatterns(c *gin.Context) {
	var req promptModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	out := s.app.Patterns.Suggest(req.Prompt, req.Model)
	if out == nil {
		out = []pattern.Suggestion{}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleMatchPatterns(c *gin.Context) {
	var req promptModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	out := s.app.Patterns.FindMatching(req.Prompt, req.Category, req.Model)
	if out == nil {
		out = []*pattern.PromptPattern{}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleRecordOutcome(c *gin.Context) {
	var req outcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	// Unknown ids are a deliberate no-op: the pattern may have been deleted
	// since the caller obtained its reference.
	if err := s.app.RecordOutcome(c.Request.Context(), c.Param("id"), req.Success); err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	if p, ok := s.app.Patterns.Get(c.Param("id")); ok {
		c.JSON(http.StatusOK, p)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recorded": false})
}

func (s *Server) handleFillPattern(c *gin.Context) {
	p, ok := s.app.Patterns.Get(c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, errors.New("pattern not found"))
		return
	}

	var req fillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	filled, err := pattern.Fill(p.Template, req.Values)
	if err != nil {
		var missing *pattern.MissingVariablesError
		if errors.As(err, &missing) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "missing variables",
				"missing": missing.Names,
			})
			return
		}
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"prompt": filled})
}

func (s *Server) handleExtractVariables(c *gin.Context) {
	p, ok := s.app.Patterns.Get(c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, errors.New("pattern not found"))
		return
	}

	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"variables": pattern.Compile(p.Template).Extract(req.Prompt),
	})
}

func respondError(c *gin.Context, status int, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, gin.H{"error": msg})
}
