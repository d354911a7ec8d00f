package activity

import (
	"github.com/gin-gonic/gin"
	"github.com/imok-coding/otakulib/internal/pkg/response"
)

// Handler exposes the recent activity log to the admin dashboard.
type Handler struct{ store *Store }

func NewHandler(store *Store) *Handler { return &Handler{store: store} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminMW ...gin.HandlerFunc) {
	g := rg.Group("/activities", adminMW...)
	g.GET("", h.list)
}

// list GET /activities [admin]
func (h *Handler) list(c *gin.Context) {
	entries := h.store.Load(c.Request.Context())
	response.OK(c, entries)
}
