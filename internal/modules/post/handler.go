package post

import (
	"errors"
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

// Handler handles post HTTP requests.
type Handler struct {
	svc      *Service
	recorder *activity.Recorder
	users    *user.Service
}

func NewHandler(svc *Service, recorder *activity.Recorder, users *user.Service) *Handler {
	return &Handler{svc: svc, recorder: recorder, users: users}
}

// RegisterRoutes mounts post routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	posts := rg.Group("/posts")

	posts.GET("", h.list)
	posts.GET("/view", h.view)
	posts.GET("/:identifier", h.get)
	posts.GET("/:identifier/html", h.html)
	posts.POST("/:identifier/like", h.like)

	authed := posts.Group("", authMW, adminMW)
	authed.POST("", h.create)
	authed.PUT("/:identifier", h.update)
	authed.PATCH("/:identifier", h.update)
	authed.PATCH("/:identifier/publish", h.publish)
	authed.DELETE("/:identifier", h.delete)
}

// list GET /posts
func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)

	posts, pag, err := h.svc.List(q, middleware.IsAdmin(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Paged(c, posts, pag)
}

// view GET /posts/view?selected=&edit=&surface=
// Resolves the page render state: effective visible set plus current
// selection for this identity. surface=dashboard marks the admin surface,
// which gates on identity and role before any content decision.
func (h *Handler) view(c *gin.Context) {
	posts, err := h.svc.ListAll()
	if err != nil {
		h.fail(c, err)
		return
	}

	dec := visibility.Resolve(visibility.Input{
		IdentityID:  middleware.CurrentUserID(c),
		Admin:       middleware.IsAdmin(c),
		AdminRoute:  c.Query("surface") == "dashboard",
		EditIntent:  c.Query("edit") == "true",
		Items:       VisibilityItems(posts),
		RequestedID: c.Query("selected"),
	})
	response.OK(c, dec)
}

// get GET /posts/:identifier
func (h *Handler) get(c *gin.Context) {
	post, err := h.svc.GetByIdentifier(c.Param("identifier"), middleware.IsAdmin(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	if post == nil {
		response.NotFoundMsg(c, "post not found")
		return
	}

	go func() { _ = h.svc.IncrementReadCount(post.ID) }()

	response.OK(c, post)
}

// html GET /posts/:identifier/html
func (h *Handler) html(c *gin.Context) {
	post, err := h.svc.GetByIdentifier(c.Param("identifier"), middleware.IsAdmin(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	if post == nil {
		response.NotFoundMsg(c, "post not found")
		return
	}

	html, err := RenderHTML(post.Text)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"id": post.ID, "html": html})
}

// like POST /posts/:identifier/like
func (h *Handler) like(c *gin.Context) {
	post, err := h.svc.GetByIdentifier(c.Param("identifier"), false)
	if err != nil {
		h.fail(c, err)
		return
	}
	if post == nil {
		response.NotFoundMsg(c, "post not found")
		return
	}
	if err := h.svc.IncrementLikeCount(post.ID); err != nil {
		response.InternalError(c, err)
		return
	}

	h.recorder.Record(c.Request.Context(), fmt.Sprintf("Liked post %q", post.Title), activity.Options{})
	response.NoContent(c)
}

// create POST /posts [admin]
func (h *Handler) create(c *gin.Context) {
	var dto CreatePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	post, err := h.svc.Create(&dto)
	if err != nil {
		if errors.Is(err, ErrSlugExists) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}

	h.record(c, fmt.Sprintf("Created post %q", post.Title))
	response.Created(c, post)
}

// update PUT/PATCH /posts/:identifier [admin]
func (h *Handler) update(c *gin.Context) {
	var dto UpdatePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	post, err := h.svc.Update(c.Param("identifier"), &dto)
	if err != nil {
		if errors.Is(err, ErrSlugExists) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	if post == nil {
		response.NotFoundMsg(c, "post not found")
		return
	}

	h.record(c, fmt.Sprintf("Updated post %q", post.Title))
	response.OK(c, gin.H{"post": post, "selection": h.reselect(c, post.ID)})
}

// publish PATCH /posts/:identifier/publish [admin]
func (h *Handler) publish(c *gin.Context) {
	var body struct {
		IsPublished bool `json:"is_published"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	post, err := h.svc.SetPublished(c.Param("identifier"), body.IsPublished)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if post == nil {
		response.NotFoundMsg(c, "post not found")
		return
	}

	verb := "Unpublished"
	if body.IsPublished {
		verb = "Published"
	}
	h.record(c, fmt.Sprintf("%s post %q", verb, post.Title))
	response.OK(c, gin.H{"post": post, "selection": h.reselect(c, post.ID)})
}

// delete DELETE /posts/:identifier [admin]
func (h *Handler) delete(c *gin.Context) {
	id := c.Param("identifier")
	post, err := h.svc.GetByID(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if post == nil {
		response.NotFoundMsg(c, "post not found")
		return
	}

	if err := h.svc.Delete(id); err != nil {
		response.InternalError(c, err)
		return
	}

	h.record(c, fmt.Sprintf("Deleted post %q", post.Title))
	response.OK(c, gin.H{"deleted": id, "selection": h.reselect(c, "")})
}

// reselect reloads the list and reapplies the selection algorithm after a
// mutation; the mutated item may have left the effective set.
func (h *Handler) reselect(c *gin.Context, requestedID string) visibility.Decision {
	posts, err := h.svc.ListAll()
	if err != nil {
		return visibility.Decision{State: visibility.StateEmpty}
	}
	return visibility.Resolve(visibility.Input{
		IdentityID:  middleware.CurrentUserID(c),
		Admin:       middleware.IsAdmin(c),
		Items:       VisibilityItems(posts),
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

// fail maps a read failure: permission denial asks for re-authentication
// instead of pretending the set is empty.
func (h *Handler) fail(c *gin.Context, err error) {
	if dberr.IsPermissionDenied(err) {
		response.ForbiddenMsg(c, "reading posts was denied, sign in with an admin account and retry")
		return
	}
	response.InternalError(c, err)
}
