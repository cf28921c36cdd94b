package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/re-admin/core/internal/modules/developer"
	"github.com/re-admin/core/internal/modules/project"
	redispkg "github.com/re-admin/core/internal/pkg/redis"
	"github.com/re-admin/core/internal/pkg/response"
	"golang.org/x/sync/errgroup"
)

const (
	summaryCacheKey = "re-dashboard:summary"
	summaryCacheTTL = 30 * time.Second
)

// Summary aggregates the dashboard counters.
type Summary struct {
	TotalProjects   int64 `json:"totalProjects"`
	TotalDevelopers int64 `json:"totalDevelopers"`
}

type Service struct {
	projects   *project.Service
	developers *developer.Service
	cache      *redispkg.Client
}

func NewService(projects *project.Service, developers *developer.Service, cache *redispkg.Client) *Service {
	return &Service{projects: projects, developers: developers, cache: cache}
}

// GetSummary returns the entity counts, served from Redis within the TTL.
func (s *Service) GetSummary(ctx context.Context) (*Summary, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, summaryCacheKey); err == nil && raw != "" {
			var cached Summary
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return &cached, nil
			}
		}
	}

	var projects, developers int64
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		projects, err = s.projects.Count()
		return err
	})
	g.Go(func() error {
		var err error
		developers, err = s.developers.Count()
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &Summary{TotalProjects: projects, TotalDevelopers: developers}
	if s.cache != nil {
		if raw, err := json.Marshal(summary); err == nil {
			_ = s.cache.Set(ctx, summaryCacheKey, raw, summaryCacheTTL)
		}
	}
	return summary, nil
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/dashboard", authMW)
	g.GET("/summary", h.summary)
}

func (h *Handler) summary(c *gin.Context) {
	summary, err := h.svc.GetSummary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, summary)
}
