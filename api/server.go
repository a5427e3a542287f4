package api

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stellarlinkco/prompt-lens/internal/advisor"
	"github.com/stellarlinkco/prompt-lens/internal/app"
	"github.com/stellarlinkco/prompt-lens/internal/llm"
	"github.com/stellarlinkco/prompt-lens/internal/metrics"
)

type Server struct {
	router   *gin.Engine
	app      *app.App
	metrics  *metrics.Client
	advisor  *advisor.Advisor
	provider llm.Provider
}

// NewServer builds the API server. The provider is optional; without one the
// improve endpoint is unavailable and metrics fall back to offline estimates.
func NewServer(a *app.App, provider llm.Provider) (*Server, error) {
	if a == nil {
		return nil, errors.New("api: nil app")
	}

	r := gin.New()
	s := &Server{
		router:   r,
		app:      a,
		provider: provider,
		metrics:  &metrics.Client{Provider: provider, Tiers: a.Config.Tiers()},
	}
	if provider != nil {
		s.advisor = &advisor.Advisor{Provider: provider}
	}

	s.registerMiddleware()
	if err := s.registerRoutes(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) Run(addr string) error {
	if s == nil || s.router == nil {
		return errors.New("api: nil server")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		addr = ":8080"
	}
	return s.router.Run(addr)
}
