package report

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/endoscopy-scheduler/internal/handler"
	"github.com/jwalitptl/endoscopy-scheduler/internal/middleware"
	"github.com/jwalitptl/endoscopy-scheduler/internal/model"
	"github.com/jwalitptl/endoscopy-scheduler/internal/service/report"
	"github.com/jwalitptl/endoscopy-scheduler/pkg/httputil"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	svc *report.Service
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authz handler.Authorizer) {
	admin := r.Group("/admin")
	{
		admin.POST("/auto-assign", authz.Authorize(middleware.OpAutoAssign), h.AutoAssign)
		admin.GET("/reports/:year/:month", authz.Authorize(middleware.OpReport), h.Report)
		admin.GET("/reports/:year/:month/export", authz.Authorize(middleware.OpReportExport), h.Export)
	}
}

func (h *Handler) AutoAssign(c *gin.Context) {
	var req model.AutoAssignRequest
	if c.Request.ContentLength != 0 && !handler.BindJSON(c, &req) {
		return
	}

	assignments, err := h.svc.AutoAssign(c.Request.Context(), req.Year, req.Month)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{
		"message":     "Automatic assignment completed.",
		"assignments": assignments,
	})
}

func (h *Handler) Report(c *gin.Context) {
	year, month, err := handler.YearMonth(c)
	if err != nil {
		handler.Fail(c, err)
		return
	}

	r, err := h.svc.Report(c.Request.Context(), year, month)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"report": r})
}

func (h *Handler) Export(c *gin.Context) {
	year, month, err := handler.YearMonth(c)
	if err != nil {
		handler.Fail(c, err)
		return
	}

	data, err := h.svc.Export(c.Request.Context(), year, month)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+report.ExportFilename(year, month)+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}
