package user

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/imok-coding/otakulib/internal/middleware"
	"github.com/imok-coding/otakulib/internal/models"
	"github.com/imok-coding/otakulib/internal/modules/activity"
	"github.com/imok-coding/otakulib/internal/pkg/response"
	sessionpkg "github.com/imok-coding/otakulib/internal/pkg/session"
	"gorm.io/gorm"
)

type Handler struct {
	svc      *Service
	recorder *activity.Recorder
	db       *gorm.DB
}

func NewHandler(svc *Service, recorder *activity.Recorder, db *gorm.DB) *Handler {
	return &Handler{svc: svc, recorder: recorder, db: db}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/user")

	g.GET("", h.master)
	g.GET("/check_logged", h.checkLogged)
	g.POST("/register", h.register)
	g.POST("/login", h.login)

	authed := g.Group("", authMW)
	authed.POST("/logout", h.logout)
	authed.GET("/sessions", h.sessions)
	authed.DELETE("/sessions/:id", h.revokeSession)
}

type userResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	Mail      string `json:"mail"`
	Avatar    string `json:"avatar"`
	URL       string `json:"url"`
	Introduce string `json:"introduce"`
	Role      string `json:"role"`
}

func toResponse(u *models.UserModel) userResponse {
	return userResponse{
		ID: u.ID, Username: u.Username, Name: u.Name, Mail: u.Mail,
		Avatar: u.Avatar, URL: u.URL, Introduce: u.Introduce, Role: u.Role,
	}
}

// master GET /user - public owner profile
func (h *Handler) master(c *gin.Context) {
	u, err := h.svc.GetMaster()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if u == nil {
		response.NotFoundMsg(c, "site owner is not registered yet")
		return
	}
	response.OK(c, toResponse(u))
}

// checkLogged GET /user/check_logged
func (h *Handler) checkLogged(c *gin.Context) {
	response.OK(c, gin.H{
		"ok":       middleware.IsAuthenticated(c),
		"is_admin": middleware.IsAdmin(c),
	})
}

// register POST /user/register
func (h *Handler) register(c *gin.Context) {
	var dto RegisterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	u, err := h.svc.Register(&dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, toResponse(u))
}

// login POST /user/login
func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	token, u, err := h.svc.Login(dto.Username, dto.Password, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrWrongPassword) {
			response.Unauthorized(c)
			return
		}
		response.InternalError(c, err)
		return
	}

	h.recorder.Record(c.Request.Context(), fmt.Sprintf("Signed in as %q", u.Username), activity.Options{
		IdentityName:  u.Name,
		IdentityEmail: u.Mail,
	})

	response.OK(c, gin.H{"token": token, "user": toResponse(u)})
}

// logout POST /user/logout [auth]
func (h *Handler) logout(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	sid := middleware.CurrentSessionID(c)
	if sid != "" {
		_ = sessionpkg.Revoke(h.db, userID, sid)
	}
	response.NoContent(c)
}

// sessions GET /user/sessions [auth]
func (h *Handler) sessions(c *gin.Context) {
	sessions, err := sessionpkg.ListActive(h.db, middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, sessions)
}

// revokeSession DELETE /user/sessions/:id [auth]
func (h *Handler) revokeSession(c *gin.Context) {
	err := sessionpkg.Revoke(h.db, middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
