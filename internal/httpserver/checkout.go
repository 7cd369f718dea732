package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"standardtime/internal/domain"
	checkoutsvc "standardtime/internal/service/checkout"
)

type startCheckoutRequest struct {
	// WatchID selects a watch for direct "buy now" checkout. When zero the
	// first cart line is used, matching the storefront's fallback.
	WatchID  int    `json:"watchId"`
	Currency string `json:"currency"`
}

func startCheckoutHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req startCheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var item checkoutsvc.Item
		if req.WatchID != 0 {
			w, err := deps.Catalog.Get(req.WatchID)
			if err != nil {
				respondError(c, err)
				return
			}
			item = checkoutsvc.Item{
				WatchID: w.ID, Brand: w.Brand, Model: w.Model,
				Year: w.Year, Price: w.Price, Image: w.Image,
			}
		} else {
			cart, err := deps.CartSvc.Get(c.Request.Context(), ownerKey(c))
			if err != nil {
				respondError(c, err)
				return
			}
			if len(cart.Lines) == 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
				return
			}
			line := cart.Lines[0]
			item = checkoutsvc.Item{
				WatchID: line.WatchID, Brand: line.Brand, Model: line.Model,
				Year: line.Year, Price: line.Price, Image: line.Image,
			}
		}

		var profileID *string
		var email string
		if p := currentProfile(c); p != nil {
			profileID = &p.ID
			email = p.Email
		}
		sess := deps.CheckoutSvc.Start(ownerKey(c), profileID, email, item, normalizeCurrency(req.Currency))
		c.JSON(http.StatusCreated, sess)
	}
}

func getCheckoutHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := deps.CheckoutSvc.Get(c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, sess)
	}
}

type selectPaymentRequest struct {
	Method string `json:"method" binding:"required"`
}

func selectPaymentHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req selectPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		sess, err := deps.CheckoutSvc.SelectPayment(c.Param("id"), domain.PaymentMethod(req.Method))
		if err != nil {
			if errors.Is(err, checkoutsvc.ErrWrongStep) || errors.Is(err, checkoutsvc.ErrSessionNotFound) {
				respondError(c, err)
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, sess)
	}
}

func submitDetailsHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var details checkoutsvc.Details
		if err := c.ShouldBindJSON(&details); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		sess, fieldErrs, err := deps.CheckoutSvc.SubmitDetails(c.Param("id"), details)
		if err != nil {
			if errors.Is(err, checkoutsvc.ErrValidation) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"session": sess, "fieldErrors": fieldErrs})
				return
			}
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, sess)
	}
}

func checkoutBackHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := deps.CheckoutSvc.Back(c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, sess)
	}
}

func completeCheckoutHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := deps.CheckoutSvc.Complete(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, sess)
	}
}
