package user

import (
	"net/http"

	"civicreport/controller"
	"civicreport/dto"
	"civicreport/middleware"
	"civicreport/model"
	"civicreport/services"

	"github.com/gin-gonic/gin"
)

func UserController(router *gin.Engine, users *services.UserService, verifier services.TokenVerifier) {
	auth := middleware.Authenticate(verifier)
	admin := middleware.RequireAdmin(users)

	routes := router.Group("/users")
	{
		routes.POST("", func(c *gin.Context) {
			CreateUser(c, users)
		})
		routes.GET("", auth, admin, func(c *gin.Context) {
			SearchUsers(c, users)
		})
		routes.GET("/me", auth, func(c *gin.Context) {
			Me(c, users)
		})
		routes.PATCH("/me", auth, func(c *gin.Context) {
			UpdateMe(c, users)
		})
		routes.PATCH("/:id/role", auth, admin, func(c *gin.Context) {
			SetRole(c, users)
		})
		routes.GET("/:id/role", func(c *gin.Context) {
			RoleOf(c, users)
		})
	}
}

func CreateUser(c *gin.Context, users *services.UserService) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BindError(c, err)
		return
	}
	u := &model.User{Email: req.Email, DisplayName: req.DisplayName, PhotoURL: req.PhotoURL}
	created, err := users.CreateIfMissing(c.Request.Context(), u)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	if !created {
		c.JSON(http.StatusOK, gin.H{"message": "User already exists"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"insertedId": u.ID, "user": u})
}

func SearchUsers(c *gin.Context, users *services.UserService) {
	var q dto.UserSearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		controller.BindError(c, err)
		return
	}
	list, err := users.Search(c.Request.Context(), q.SearchUser)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func Me(c *gin.Context, users *services.UserService) {
	u, err := users.Me(c.Request.Context(), c.GetString(middleware.EmailKey))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func UpdateMe(c *gin.Context, users *services.UserService) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BindError(c, err)
		return
	}
	u, err := users.UpdateMe(c.Request.Context(), c.GetString(middleware.EmailKey), req.DisplayName, req.PhotoURL)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func SetRole(c *gin.Context, users *services.UserService) {
	var req dto.RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BindError(c, err)
		return
	}
	if err := users.SetRole(c.Request.Context(), c.Param("id"), model.Role(req.Role)); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"modifiedCount": 1})
}

// RoleOf serves GET /users/:email/role. gin needs one wildcard name per
// segment, so the email arrives as :id.
func RoleOf(c *gin.Context, users *services.UserService) {
	role, err := users.RoleOf(c.Request.Context(), c.Param("id"))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": role})
}
