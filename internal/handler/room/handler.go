package room

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/endoscopy-scheduler/internal/handler"
	"github.com/jwalitptl/endoscopy-scheduler/internal/middleware"
	"github.com/jwalitptl/endoscopy-scheduler/internal/model"
	"github.com/jwalitptl/endoscopy-scheduler/internal/service/room"
	"github.com/jwalitptl/endoscopy-scheduler/pkg/httputil"
)

type Handler struct {
	svc *room.Service
}

func NewHandler(svc *room.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authz handler.Authorizer) {
	r.GET("/rooms", authz.Authorize(middleware.OpRoomList), h.List)
	r.PUT("/rooms/:roomId", authz.Authorize(middleware.OpRoomUpdate), h.Update)
	r.PUT("/admin/rooms", authz.Authorize(middleware.OpRoomConfigure), h.Configure)
}

func (h *Handler) List(c *gin.Context) {
	rooms, err := h.svc.List(c.Request.Context())
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"rooms": rooms})
}

func (h *Handler) Update(c *gin.Context) {
	var req model.RoomUpdate
	if !handler.BindJSON(c, &req) {
		return
	}

	updated, err := h.svc.SetStatus(c.Request.Context(), c.Param("roomId"), req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{
		"message": "Room status updated.",
		"room":    updated,
	})
}

func (h *Handler) Configure(c *gin.Context) {
	var req model.ConfigureRoomsRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	rooms, err := h.svc.Configure(c.Request.Context(), req.Count)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{
		"message": "Rooms configured.",
		"rooms":   rooms,
	})
}
