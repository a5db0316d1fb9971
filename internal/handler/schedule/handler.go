package schedule

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/endoscopy-scheduler/internal/handler"
	"github.com/jwalitptl/endoscopy-scheduler/internal/middleware"
	"github.com/jwalitptl/endoscopy-scheduler/internal/model"
	"github.com/jwalitptl/endoscopy-scheduler/internal/service/schedule"
	"github.com/jwalitptl/endoscopy-scheduler/pkg/httputil"
)

type Handler struct {
	svc *schedule.Service
}

func NewHandler(svc *schedule.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authz handler.Authorizer) {
	schedules := r.Group("/schedules")
	{
		schedules.GET("/:year/:month", authz.Authorize(middleware.OpScheduleView), h.Get)
		schedules.POST("/:year/:month", authz.Authorize(middleware.OpScheduleSave), h.Save)
	}
}

func (h *Handler) Get(c *gin.Context) {
	year, month, err := handler.YearMonth(c)
	if err != nil {
		handler.Fail(c, err)
		return
	}

	sched, err := h.svc.GetOrCreate(c.Request.Context(), year, month)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"schedule": sched})
}

func (h *Handler) Save(c *gin.Context) {
	year, month, err := handler.YearMonth(c)
	if err != nil {
		handler.Fail(c, err)
		return
	}

	var req model.SaveScheduleRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	saved, err := h.svc.Save(c.Request.Context(), year, month, req.Days, handler.Caller(c))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{
		"message":  "Schedule saved.",
		"schedule": saved,
	})
}
