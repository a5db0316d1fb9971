package staff

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/endoscopy-scheduler/internal/handler"
	"github.com/jwalitptl/endoscopy-scheduler/internal/middleware"
	"github.com/jwalitptl/endoscopy-scheduler/internal/model"
	"github.com/jwalitptl/endoscopy-scheduler/internal/service/staff"
	"github.com/jwalitptl/endoscopy-scheduler/pkg/httputil"
)

type Handler struct {
	svc *staff.Service
}

func NewHandler(svc *staff.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authz handler.Authorizer) {
	staff := r.Group("/admin/staff")
	{
		staff.GET("", authz.Authorize(middleware.OpStaffList), h.List)
		staff.POST("", authz.Authorize(middleware.OpStaffCreate), h.Create)
		staff.PUT("/:staffId", authz.Authorize(middleware.OpStaffUpdate), h.Update)
		staff.DELETE("/:staffId", authz.Authorize(middleware.OpStaffDelete), h.Delete)
	}
}

func (h *Handler) List(c *gin.Context) {
	members, err := h.svc.List(c.Request.Context())
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"staff": members})
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateStaffRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	created, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{
		"message": "Staff member added.",
		"staff":   created,
	})
}

func (h *Handler) Update(c *gin.Context) {
	var req model.UpdateStaffRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), c.Param("staffId"), &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{
		"message": "Staff member updated.",
		"staff":   updated,
	})
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("staffId")); err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithMessage(c, "Staff member deleted.")
}
