package settings

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/imok-coding/otakulib/internal/models"
	"github.com/imok-coding/otakulib/internal/pkg/response"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const optionKey = "settings"

// SiteSettings is the persisted runtime configuration document.
type SiteSettings struct {
	Site    SiteOptions    `json:"site"`
	Webhook WebhookOptions `json:"webhook"`
	Proxy   ProxyOptions   `json:"proxy"`
}

type SiteOptions struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// WebhookOptions carries the activity notification target.
type WebhookOptions struct {
	NotifyURL string `json:"notify_url"`
}

// ProxyOptions maps page names to upstream endpoints (anime list, Steam
// profile, music feed, card search).
type ProxyOptions struct {
	Sources map[string]string `json:"sources"`
}

// Default returns the built-in settings used when no document exists yet.
func Default() SiteSettings {
	return SiteSettings{
		Site: SiteOptions{Title: "otakulib"},
		Proxy: ProxyOptions{
			Sources: map[string]string{},
		},
	}
}

// Service manages the persisted SiteSettings document with an in-memory cache.
type Service struct {
	db  *gorm.DB
	mu  sync.RWMutex
	cfg *SiteSettings
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Get returns the current settings, loading from DB if not cached.
func (s *Service) Get() (*SiteSettings, error) {
	s.mu.RLock()
	if s.cfg != nil {
		defer s.mu.RUnlock()
		return s.cfg, nil
	}
	s.mu.RUnlock()

	return s.load()
}

func (s *Service) load() (*SiteSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var opt models.OptionModel
	err := s.db.Where("name = ?", optionKey).First(&opt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		defaults := Default()
		s.cfg = &defaults
		_ = s.persist(&defaults)
		return s.cfg, nil
	}
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := json.Unmarshal([]byte(opt.Value), &cfg); err != nil {
		return nil, err
	}
	s.cfg = &cfg
	return s.cfg, nil
}

// Patch merges the given partial JSON update into the current settings and
// persists the result. Arrays and scalars are replaced, objects merged.
func (s *Service) Patch(partial map[string]json.RawMessage) (*SiteSettings, error) {
	current, err := s.Get()
	if err != nil {
		return nil, err
	}

	currentJSON, err := json.Marshal(current)
	if err != nil {
		return nil, err
	}
	merged := map[string]interface{}{}
	if err := json.Unmarshal(currentJSON, &merged); err != nil {
		return nil, err
	}

	for k, v := range partial {
		if len(strings.TrimSpace(string(v))) == 0 {
			continue
		}
		var incoming interface{}
		if err := json.Unmarshal(v, &incoming); err != nil {
			return nil, err
		}
		if existing, ok := merged[k]; ok {
			merged[k] = deepMergeJSON(existing, incoming)
			continue
		}
		merged[k] = incoming
	}

	mergedJSON, err := json.Marshal(merged)
	if err != nil {
		return nil, err
	}

	updated := Default()
	if err := json.Unmarshal(mergedJSON, &updated); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cfg = &updated
	s.mu.Unlock()

	return &updated, s.persist(&updated)
}

func deepMergeJSON(oldVal, newVal interface{}) interface{} {
	oldMap, oldIsMap := oldVal.(map[string]interface{})
	newMap, newIsMap := newVal.(map[string]interface{})
	if oldIsMap && newIsMap {
		out := make(map[string]interface{}, len(oldMap))
		for k, v := range oldMap {
			out[k] = v
		}
		for k, v := range newMap {
			if existing, ok := out[k]; ok {
				out[k] = deepMergeJSON(existing, v)
				continue
			}
			out[k] = v
		}
		return out
	}
	return newVal
}

func (s *Service) persist(cfg *SiteSettings) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	opt := models.OptionModel{Name: optionKey, Value: string(data)}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&opt).Error
}

// Invalidate clears the in-memory cache, forcing a DB reload on next Get.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = nil
}

// NotifyURL reads the configured webhook target. Used by the activity
// resolver; an error or empty value there falls back to the default target.
func (s *Service) NotifyURL() (string, error) {
	cfg, err := s.Get()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(cfg.Webhook.NotifyURL), nil
}

// ProxySource returns the upstream URL for a named proxy page, "" if unset.
func (s *Service) ProxySource(name string) (string, error) {
	cfg, err := s.Get()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(cfg.Proxy.Sources[name]), nil
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminMW ...gin.HandlerFunc) {
	g := rg.Group("/settings")

	g.GET("", h.getPublic)

	a := g.Group("", adminMW...)
	a.GET("/all", h.getAll)
	a.PATCH("", h.patch)
}

// getPublic returns the public-safe subset of the settings.
func (h *Handler) getPublic(c *gin.Context) {
	cfg, err := h.svc.Get()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"site": cfg.Site})
}

// getAll returns the full settings document (admin only).
func (h *Handler) getAll(c *gin.Context) {
	cfg, err := h.svc.Get()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, cfg)
}

// patch merges a partial settings update.
func (h *Handler) patch(c *gin.Context) {
	var partial map[string]json.RawMessage
	if err := c.ShouldBindJSON(&partial); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	updated, err := h.svc.Patch(partial)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, updated)
}
