package library

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/imok-coding/otakulib/internal/middleware"
	"github.com/imok-coding/otakulib/internal/modules/activity"
	"github.com/imok-coding/otakulib/internal/modules/user"
	"github.com/imok-coding/otakulib/internal/modules/visibility"
	"github.com/imok-coding/otakulib/internal/pkg/dberr"
	"github.com/imok-coding/otakulib/internal/pkg/pagination"
	"github.com/imok-coding/otakulib/internal/pkg/response"
)

// Handler handles collection item HTTP requests.
type Handler struct {
	svc      *Service
	recorder *activity.Recorder
	users    *user.Service
}

func NewHandler(svc *Service, recorder *activity.Recorder, users *user.Service) *Handler {
	return &Handler{svc: svc, recorder: recorder, users: users}
}

// RegisterRoutes mounts library routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	lib := rg.Group("/library")

	lib.GET("", h.list)
	lib.GET("/view", h.view)
	lib.GET("/:id", h.get)

	authed := lib.Group("", authMW, adminMW)
	authed.POST("", h.create)
	authed.PUT("/:id", h.update)
	authed.PATCH("/:id", h.update)
	authed.PATCH("/:id/publish", h.publish)
	authed.DELETE("/:id", h.delete)
}

// list GET /library?kind=
func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)

	items, pag, err := h.svc.List(q, c.Query("kind"), middleware.IsAdmin(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Paged(c, items, pag)
}

// view GET /library/view?kind=&selected=&edit=&surface=
// Resolves the shelf render state for this identity. surface=dashboard
// marks the admin surface, which gates on identity and role first.
func (h *Handler) view(c *gin.Context) {
	items, err := h.svc.ListAll(c.Query("kind"))
	if err != nil {
		h.fail(c, err)
		return
	}

	dec := visibility.Resolve(visibility.Input{
		IdentityID:  middleware.CurrentUserID(c),
		Admin:       middleware.IsAdmin(c),
		AdminRoute:  c.Query("surface") == "dashboard",
		EditIntent:  c.Query("edit") == "true",
		Items:       VisibilityItems(items),
		RequestedID: c.Query("selected"),
	})
	response.OK(c, dec)
}

// get GET /library/:id
func (h *Handler) get(c *gin.Context) {
	item, err := h.svc.GetByID(c.Param("id"), middleware.IsAdmin(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	if item == nil {
		response.NotFoundMsg(c, "collection item not found")
		return
	}
	response.OK(c, item)
}

// create POST /library [admin]
func (h *Handler) create(c *gin.Context) {
	var dto CreateItemDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	item, err := h.svc.Create(&dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	h.record(c, fmt.Sprintf("Added %s %q to the library", item.Kind, item.Title))
	response.Created(c, item)
}

// update PUT/PATCH /library/:id [admin]
func (h *Handler) update(c *gin.Context) {
	var dto UpdateItemDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	item, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if item == nil {
		response.NotFoundMsg(c, "collection item not found")
		return
	}

	h.record(c, fmt.Sprintf("Updated %s %q", item.Kind, item.Title))
	response.OK(c, gin.H{"item": item, "selection": h.reselect(c, item.ID)})
}

// publish PATCH /library/:id/publish [admin]
func (h *Handler) publish(c *gin.Context) {
	var body struct {
		IsPublished bool `json:"is_published"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	item, err := h.svc.SetPublished(c.Param("id"), body.IsPublished)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if item == nil {
		response.NotFoundMsg(c, "collection item not found")
		return
	}

	verb := "Hid"
	if body.IsPublished {
		verb = "Published"
	}
	h.record(c, fmt.Sprintf("%s %s %q", verb, item.Kind, item.Title))
	response.OK(c, gin.H{"item": item, "selection": h.reselect(c, item.ID)})
}

// delete DELETE /library/:id [admin]
func (h *Handler) delete(c *gin.Context) {
	id := c.Param("id")
	item, err := h.svc.GetByID(id, true)
	if err != nil {
		h.fail(c, err)
		return
	}
	if item == nil {
		response.NotFoundMsg(c, "collection item not found")
		return
	}

	if err := h.svc.Delete(id); err != nil {
		response.InternalError(c, err)
		return
	}

	h.record(c, fmt.Sprintf("Removed %s %q from the library", item.Kind, item.Title))
	response.OK(c, gin.H{"deleted": id, "selection": h.reselect(c, "")})
}

// reselect reloads the shelf and reapplies the selection algorithm after a
// mutation; the mutated item may have left the effective set.
func (h *Handler) reselect(c *gin.Context, requestedID string) visibility.Decision {
	items, err := h.svc.ListAll(c.Query("kind"))
	if err != nil {
		return visibility.Decision{State: visibility.StateEmpty}
	}
	return visibility.Resolve(visibility.Input{
		IdentityID:  middleware.CurrentUserID(c),
		Admin:       middleware.IsAdmin(c),
		Items:       VisibilityItems(items),
		RequestedID: requestedID,
	})
}

func (h *Handler) record(c *gin.Context, message string) {
	name, mail := h.users.IdentityLabel(middleware.CurrentUserID(c))
	h.recorder.Record(c.Request.Context(), message, activity.Options{
		IdentityName:  name,
		IdentityEmail: mail,
	})
}

func (h *Handler) fail(c *gin.Context, err error) {
	if dberr.IsPermissionDenied(err) {
		response.ForbiddenMsg(c, "reading the library was denied, sign in with an admin account and retry")
		return
	}
	response.InternalError(c, err)
}
