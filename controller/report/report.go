package report

import (
	"net/http"

	"civicreport/controller"
	"civicreport/dto"
	"civicreport/model"
	"civicreport/repository"
	"civicreport/services"

	"github.com/gin-gonic/gin"
)

func ReportController(router *gin.Engine, reports *services.ReportService) {
	routes := router.Group("/reports")
	{
		routes.POST("", func(c *gin.Context) {
			CreateReport(c, reports)
		})
		routes.GET("", func(c *gin.Context) {
			ListReports(c, reports)
		})
		routes.GET("/staff", func(c *gin.Context) {
			StaffTasks(c, reports)
		})
		routes.GET("/latest", func(c *gin.Context) {
			Latest(c, reports)
		})
		routes.GET("/latest/solved", func(c *gin.Context) {
			LatestSolved(c, reports)
		})
		routes.GET("/:id", func(c *gin.Context) {
			GetReport(c, reports)
		})
		routes.PATCH("/:id", func(c *gin.Context) {
			AssignStaff(c, reports)
		})
		routes.PATCH("/:id/status", func(c *gin.Context) {
			SetStatus(c, reports)
		})
		routes.DELETE("/:id", func(c *gin.Context) {
			DeleteReport(c, reports)
		})
	}
}

func CreateReport(c *gin.Context, reports *services.ReportService) {
	var req dto.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BindError(c, err)
		return
	}

	created, err := reports.Create(c.Request.Context(), &model.Report{
		Email:       req.Email,
		Issue:       req.Issue,
		Category:    req.Category,
		Location:    req.Location,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"insertedId": created.ID, "report": created})
}

func ListReports(c *gin.Context, reports *services.ReportService) {
	var q dto.ReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		controller.BindError(c, err)
		return
	}
	status := q.ReportStatus
	if q.Status != "" {
		status = q.Status
	}

	list, err := reports.List(c.Request.Context(), repository.ReportFilter{
		Email:        q.Email,
		ReportStatus: model.ReportStatus(status),
		Category:     q.Category,
		Priority:     model.Priority(q.Priority),
		Search:       q.Search,
	})
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func StaffTasks(c *gin.Context, reports *services.ReportService) {
	var q dto.StaffTaskQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		controller.BindError(c, err)
		return
	}
	list, err := reports.StaffTasks(c.Request.Context(), q.StaffEmail, model.ReportStatus(q.ReportStatus))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func Latest(c *gin.Context, reports *services.ReportService) {
	list, err := reports.Latest(c.Request.Context())
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func LatestSolved(c *gin.Context, reports *services.ReportService) {
	list, err := reports.LatestSolved(c.Request.Context())
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func GetReport(c *gin.Context, reports *services.ReportService) {
	r, err := reports.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func AssignStaff(c *gin.Context, reports *services.ReportService) {
	var req dto.AssignStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BindError(c, err)
		return
	}
	r, err := reports.AssignStaff(c.Request.Context(), c.Param("id"), req.StaffID, req.StaffName, req.StaffEmail)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func SetStatus(c *gin.Context, reports *services.ReportService) {
	var req dto.ReportStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BindError(c, err)
		return
	}
	r, err := reports.SetStatus(c.Request.Context(), c.Param("id"), model.ReportStatus(req.ReportStatus), req.StaffID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func DeleteReport(c *gin.Context, reports *services.ReportService) {
	if err := reports.Delete(c.Request.Context(), c.Param("id")); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deletedCount": 1})
}
