package staff

import (
	"net/http"

	"civicreport/controller"
	"civicreport/dto"
	"civicreport/middleware"
	"civicreport/model"
	"civicreport/repository"
	"civicreport/services"

	"github.com/gin-gonic/gin"
)

func StaffController(router *gin.Engine, staff *services.StaffService, users *services.UserService, verifier services.TokenVerifier) {
	routes := router.Group("/staffs")
	{
		routes.POST("", func(c *gin.Context) {
			Apply(c, staff)
		})
		routes.GET("", func(c *gin.Context) {
			ListStaff(c, staff)
		})
		routes.PATCH("/:id", middleware.Authenticate(verifier), middleware.RequireAdmin(users), func(c *gin.Context) {
			Decide(c, staff)
		})
		routes.DELETE("/:id", func(c *gin.Context) {
			RemoveStaff(c, staff)
		})
	}
}

func Apply(c *gin.Context, staff *services.StaffService) {
	var req dto.StaffApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BindError(c, err)
		return
	}
	created, err := staff.Apply(c.Request.Context(), &model.Staff{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"insertedId": created.ID, "staff": created})
}

func ListStaff(c *gin.Context, staff *services.StaffService) {
	var q dto.StaffQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		controller.BindError(c, err)
		return
	}
	list, err := staff.List(c.Request.Context(), repository.StaffFilter{
		Status:     model.StaffStatus(q.Status),
		WorkStatus: model.WorkStatus(q.WorkStatus),
	})
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func Decide(c *gin.Context, staff *services.StaffService) {
	var req dto.StaffDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BindError(c, err)
		return
	}
	res, err := staff.Decide(c.Request.Context(), c.Param("id"), model.StaffStatus(req.Status), req.Email)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func RemoveStaff(c *gin.Context, staff *services.StaffService) {
	if err := staff.Remove(c.Request.Context(), c.Param("id")); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deletedCount": 1})
}
