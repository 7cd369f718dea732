package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"standardtime/internal/domain"
)

func adminListOrdersHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			orders []domain.Order
			err    error
		)
		switch view := c.DefaultQuery("view", "all"); view {
		case "pending":
			orders, err = deps.OrderSvc.Pending(c.Request.Context())
		case "in_progress":
			orders, err = deps.OrderSvc.InProgress(c.Request.Context())
		case "all":
			orders, err = deps.OrderSvc.All(c.Request.Context())
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown view " + view})
			return
		}
		if err != nil {
			respondError(c, err)
			return
		}
		if orders == nil {
			orders = []domain.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

func adminGetOrderHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := deps.OrderSvc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

func adminConfirmHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := deps.OrderSvc.Confirm(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func adminStatusHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		o, err := deps.OrderSvc.Advance(c.Request.Context(), c.Param("id"), domain.OrderStatus(req.Status))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

type trackingRequest struct {
	TrackingNumber string `json:"trackingNumber" binding:"required"`
}

func adminTrackingHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req trackingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		o, err := deps.OrderSvc.SetTracking(c.Request.Context(), c.Param("id"), req.TrackingNumber)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}
