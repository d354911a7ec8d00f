package proxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	redispkg "github.com/imok-coding/otakulib/internal/pkg/redis"
	"github.com/imok-coding/otakulib/internal/pkg/response"
	"go.uber.org/zap"
)

const (
	cacheKeyPrefix = "otakulib:proxy:"
	cacheTTL       = 5 * time.Minute
	maxBodySize    = 2 << 20
)

// SourceFunc resolves a named proxy page to its upstream URL, "" if unset.
type SourceFunc func(name string) (string, error)

// Service fetches configured upstream documents (anime list exports, card
// price feeds) on behalf of the frontend, with a short Redis cache so
// repeated page loads do not hammer the upstream.
type Service struct {
	sources SourceFunc
	cache   *redispkg.Client
	client  *http.Client
	logger  *zap.Logger
}

func NewService(sources SourceFunc, cache *redispkg.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		sources: sources,
		cache:   cache,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

// Fetch returns the upstream body for a named source. The cached copy is
// served when fresh.
func (s *Service) Fetch(ctx context.Context, name string) (string, error) {
	key := cacheKeyPrefix + name

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil && cached != "" {
			return cached, nil
		}
	}

	source, err := s.sources(name)
	if err != nil {
		return "", err
	}
	if source == "" {
		return "", ErrUnknownSource
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return "", err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: upstream returned %d", ErrUpstream, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, string(body), cacheTTL); err != nil {
			s.logger.Warn("proxy cache write failed", zap.String("name", name), zap.Error(err))
		}
	}
	return string(body), nil
}

var (
	ErrUnknownSource = errors.New("no upstream configured for this source")
	ErrUpstream      = errors.New("upstream fetch failed")
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/proxy/:name", h.fetch)
}

// fetch GET /proxy/:name
func (h *Handler) fetch(c *gin.Context) {
	body, err := h.svc.Fetch(c.Request.Context(), c.Param("name"))
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownSource):
			response.NotFoundMsg(c, err.Error())
		default:
			response.BadGateway(c, err.Error())
		}
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(body))
}
