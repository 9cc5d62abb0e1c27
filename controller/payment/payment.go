package payment

import (
	"net/http"

	"civicreport/controller"
	"civicreport/dto"
	"civicreport/middleware"
	"civicreport/services"

	"github.com/gin-gonic/gin"
)

// PaymentController registers the checkout and ledger routes. limit guards
// the two routes that call the payment provider.
func PaymentController(router *gin.Engine, payments *services.PaymentService, verifier services.TokenVerifier, limit gin.HandlerFunc) {
	router.POST("/create-checkout-session", limit, func(c *gin.Context) {
		CreateCheckout(c, payments)
	})
	router.PATCH("/payment-success", limit, func(c *gin.Context) {
		PaymentSuccess(c, payments)
	})
	router.GET("/payments", middleware.Authenticate(verifier), func(c *gin.Context) {
		History(c, payments)
	})
}

func CreateCheckout(c *gin.Context, payments *services.PaymentService) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BindError(c, err)
		return
	}
	url, err := payments.CreateCheckout(c.Request.Context(), req.ReportID, req.Issue, req.Email)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func PaymentSuccess(c *gin.Context, payments *services.PaymentService) {
	var q dto.PaymentSuccessQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		controller.BindError(c, err)
		return
	}
	res, err := payments.Reconcile(c.Request.Context(), q.SessionID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	if !res.Success {
		c.JSON(http.StatusBadRequest, res)
		return
	}
	c.JSON(http.StatusOK, res)
}

func History(c *gin.Context, payments *services.PaymentService) {
	var q dto.PaymentHistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		controller.BindError(c, err)
		return
	}
	list, err := payments.History(c.Request.Context(), c.GetString(middleware.EmailKey), q.Email)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
