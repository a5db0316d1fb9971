package dashboard

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/endoscopy-scheduler/internal/handler"
	"github.com/jwalitptl/endoscopy-scheduler/internal/middleware"
	"github.com/jwalitptl/endoscopy-scheduler/internal/service/report"
	"github.com/jwalitptl/endoscopy-scheduler/pkg/httputil"
)

type Handler struct {
	svc *report.Service
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authz handler.Authorizer) {
	r.GET("/dashboard", authz.Authorize(middleware.OpDashboard), h.Get)
}

func (h *Handler) Get(c *gin.Context) {
	data, err := h.svc.Dashboard(c.Request.Context(), handler.Caller(c))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"data": data})
}
