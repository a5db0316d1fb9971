package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/endoscopy-scheduler/internal/handler"
	"github.com/jwalitptl/endoscopy-scheduler/internal/middleware"
	"github.com/jwalitptl/endoscopy-scheduler/internal/model"
	"github.com/jwalitptl/endoscopy-scheduler/internal/service/auth"
	"github.com/jwalitptl/endoscopy-scheduler/pkg/errors"
	"github.com/jwalitptl/endoscopy-scheduler/pkg/httputil"
)

type Handler struct {
	svc *auth.Service
}

func NewHandler(svc *auth.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.POST("/auth/login", h.Login)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authz handler.Authorizer) {
	auth := r.Group("/auth")
	{
		auth.POST("/logout", authz.Authorize(middleware.OpLogout), h.Logout)
		auth.GET("/me", authz.Authorize(middleware.OpMe), h.Me)
	}
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	result, err := h.svc.Login(c.Request.Context(), req.EmployeeID, req.Password)
	if err != nil {
		handler.Fail(c, err)
		return
	}

	httputil.RespondWithSuccess(c, gin.H{
		"token":     result.Token,
		"expiresAt": result.ExpiresAt,
		"user":      result.User,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		handler.Fail(c, errors.MissingCredential())
		return
	}
	if err := h.svc.Logout(c.Request.Context(), claims); err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithMessage(c, "Logged out.")
}

func (h *Handler) Me(c *gin.Context) {
	httputil.RespondWithSuccess(c, gin.H{"user": handler.Caller(c)})
}
