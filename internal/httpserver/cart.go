package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"standardtime/internal/domain"
	cartsvc "standardtime/internal/service/cart"
)

type cartView struct {
	Lines           []cartLineView `json:"lines"`
	ItemCount       int            `json:"itemCount"`
	Subtotal        string         `json:"subtotal"`
	DisplaySubtotal string         `json:"displaySubtotal"`
}

type cartLineView struct {
	domain.CartLine
	DisplayPrice string `json:"displayPrice"`
}

func toCartView(cart *domain.Cart, cur string, deps Deps) cartView {
	lines := make([]cartLineView, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		view := cartLineView{CartLine: line, DisplayPrice: line.Price}
		if deps.Rates != nil {
			view.DisplayPrice = deps.Rates.Convert(line.Price, cur)
		}
		lines = append(lines, view)
	}
	subtotal := cartsvc.Subtotal(cart)
	display := subtotal.StringFixed(2)
	if deps.Rates != nil {
		display = deps.Rates.Convert(subtotal.StringFixed(2), cur)
	}
	return cartView{
		Lines:           lines,
		ItemCount:       cartsvc.ItemCount(cart),
		Subtotal:        subtotal.StringFixed(2),
		DisplaySubtotal: display,
	}
}

func getCartHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := deps.CartSvc.Get(c.Request.Context(), ownerKey(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCartView(cart, displayCurrency(c), deps))
	}
}

type addCartItemRequest struct {
	WatchID int `json:"watchId" binding:"required"`
}

func addCartItemHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		w, err := deps.Catalog.Get(req.WatchID)
		if err != nil {
			respondError(c, err)
			return
		}
		cart, err := deps.CartSvc.Add(c.Request.Context(), ownerKey(c), *w)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCartView(cart, displayCurrency(c), deps))
	}
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func setQuantityHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		watchID, err := strconv.Atoi(c.Param("watchId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid watch id"})
			return
		}
		var req setQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cart, err := deps.CartSvc.SetQuantity(c.Request.Context(), ownerKey(c), watchID, req.Quantity)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCartView(cart, displayCurrency(c), deps))
	}
}

func removeCartItemHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		watchID, err := strconv.Atoi(c.Param("watchId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid watch id"})
			return
		}
		cart, err := deps.CartSvc.Remove(c.Request.Context(), ownerKey(c), watchID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toCartView(cart, displayCurrency(c), deps))
	}
}
