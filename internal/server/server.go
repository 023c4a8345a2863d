package server

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/agenthands/homefeed/internal/core"
	"github.com/agenthands/homefeed/internal/core/model"
	"github.com/agenthands/homefeed/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const healthCheckTimeout = 2 * time.Second

type FeedBuilder interface {
	BuildFeed(ctx context.Context, handle string, topK int) (*model.Feed, error)
}

type Server struct {
	Feed     FeedBuilder
	Checks   map[string]HealthChecker
	Gatherer prometheus.Gatherer
}

func NewServer(feed FeedBuilder, checks map[string]HealthChecker, gatherer prometheus.Gatherer) *Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Server{
		Feed:     feed,
		Checks:   checks,
		Gatherer: gatherer,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger())

	r.GET("/feed/:handle", s.GetFeed)
	r.GET("/healthz", s.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{})))

	return r
}

type feedURI struct {
	Handle string `uri:"handle" binding:"required"`
}

type feedQuery struct {
	Limit *int `form:"limit" binding:"omitempty,min=1,max=200"`
}

func (s *Server) GetFeed(c *gin.Context) {
	var uri feedURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "handle is required"})
		return
	}
	var q feedQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 200"})
		return
	}

	topK := 0
	if q.Limit != nil {
		topK = *q.Limit
	}

	feed, err := s.Feed.BuildFeed(c.Request.Context(), uri.Handle, topK)
	switch {
	case err == nil:
	case errors.Is(err, core.ErrUsage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, core.ErrStoreUnavailable):
		logging.Ctx(c.Request.Context()).Error().Err(err).Str("handle", uri.Handle).Msg("failed to build feed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable"})
		return
	default:
		logging.Ctx(c.Request.Context()).Error().Err(err).Str("handle", uri.Handle).Msg("failed to build feed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build feed"})
		return
	}

	c.JSON(http.StatusOK, feed)
}

func (s *Server) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	names := make([]string, 0, len(s.Checks))
	for name := range s.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	results := make(map[string]string, len(names))
	for _, name := range names {
		if err := s.Checks[name].HealthCheck(ctx); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("check", name).Msg("health check failed")
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "unavailable"
	}
	c.JSON(status, gin.H{"status": overall, "checks": results})
}
