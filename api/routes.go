package api

import (
	"errors"
	"os"
	"strings"
)

func (s *Server) registerRoutes() error {
	if s == nil || s.router == nil {
		return nil
	}

	api := s.router.Group("/api")
	apiKey := strings.TrimSpace(os.Getenv("PROMPT_LENS_API_KEY"))
	if apiKey != "" {
		api.Use(apiKeyAuthMiddleware(apiKey))
	} else if strings.EqualFold(strings.TrimSpace(os.Getenv("PROMPT_LENS_DISABLE_AUTH")), "true") {
		// Explicitly allow unauthenticated access.
	} else {
		return errors.New("api: missing auth configuration: set PROMPT_LENS_API_KEY or set PROMPT_LENS_DISABLE_AUTH=true")
	}

	api.GET("/health", s.handleHealth)

	api.POST("/analyze", s.handleAnalyze)
	api.POST("/improve", s.handleImprove)

	api.GET("/patterns", s.handleListPatterns)
	api.GET("/patterns/:id", s.handleGetPattern)
	api.POST("/patterns", s.handleUpsertPattern)
	api.DELETE("/patterns/:id", s.handleDeletePattern)

	api.POST("/patterns/suggest", s.handleSuggestPatterns)
	api.POST("/patterns/match", s.handleMatchPatterns)
	api.POST("/patterns/:id/outcome", s.handleRecordOutcome)
	api.POST("/patterns/:id/fill", s.handleFillPattern)
	api.POST("/patterns/:id/extract", s.handleExtractVariables)

	return nil
}
