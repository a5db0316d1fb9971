package request

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/endoscopy-scheduler/internal/handler"
	"github.com/jwalitptl/endoscopy-scheduler/internal/middleware"
	"github.com/jwalitptl/endoscopy-scheduler/internal/model"
	"github.com/jwalitptl/endoscopy-scheduler/internal/service/request"
	"github.com/jwalitptl/endoscopy-scheduler/pkg/httputil"
)

type Handler struct {
	svc *request.Service
}

func NewHandler(svc *request.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authz handler.Authorizer) {
	requests := r.Group("/requests")
	{
		requests.GET("", authz.Authorize(middleware.OpRequestList), h.List)
		requests.POST("/vacation", authz.Authorize(middleware.OpRequestVacation), h.SubmitVacation)
		requests.POST("/schedule-change", authz.Authorize(middleware.OpRequestScheduleSwap), h.SubmitScheduleChange)
		requests.POST("/room", authz.Authorize(middleware.OpRequestRoom), h.SubmitRoomRequest)
	}
}

func (h *Handler) List(c *gin.Context) {
	requests, err := h.svc.List(c.Request.Context(), handler.Caller(c))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"requests": requests})
}

func (h *Handler) SubmitVacation(c *gin.Context) {
	var req model.VacationRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	created, err := h.svc.SubmitVacation(c.Request.Context(), &req, handler.Caller(c))
	respondSubmitted(c, created, err, "Vacation request submitted.")
}

func (h *Handler) SubmitScheduleChange(c *gin.Context) {
	var req model.ScheduleChangeRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	created, err := h.svc.SubmitScheduleChange(c.Request.Context(), &req, handler.Caller(c))
	respondSubmitted(c, created, err, "Schedule change request submitted.")
}

func (h *Handler) SubmitRoomRequest(c *gin.Context) {
	var req model.RoomPreferenceRequest
	if !handler.BindJSON(c, &req) {
		return
	}
	created, err := h.svc.SubmitRoomRequest(c.Request.Context(), &req, handler.Caller(c))
	respondSubmitted(c, created, err, "Room request submitted.")
}

func respondSubmitted(c *gin.Context, created *model.Request, err error, message string) {
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{
		"message": message,
		"request": created,
	})
}
