package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"standardtime/internal/catalog"
	"standardtime/internal/currency"
	"standardtime/internal/domain"
)

type watchView struct {
	domain.Watch
	DisplayPrice         string `json:"displayPrice"`
	DisplayOriginalPrice string `json:"displayOriginalPrice,omitempty"`
}

// normalizeCurrency whitelists the supported display currencies; anything
// else falls back to the base currency.
func normalizeCurrency(cur string) string {
	switch cur {
	case "EUR", "CNY", "USD":
		return cur
	default:
		return currency.Base
	}
}

func displayCurrency(c *gin.Context) string {
	return normalizeCurrency(c.Query("currency"))
}

func toWatchView(w domain.Watch, cur string, rates *currency.Rates) watchView {
	view := watchView{Watch: w, DisplayPrice: w.Price, DisplayOriginalPrice: w.OriginalPrice}
	if rates != nil {
		view.DisplayPrice = rates.Convert(w.Price, cur)
		if w.OriginalPrice != "" {
			view.DisplayOriginalPrice = rates.Convert(w.OriginalPrice, cur)
		}
	}
	return view
}

func listWatchesHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		cur := displayCurrency(c)
		filtered := catalog.Filter(
			deps.Catalog.List(),
			c.Query("search"),
			c.Query("brand"),
			catalog.SortKey(c.Query("sort")),
		)
		views := make([]watchView, 0, len(filtered))
		for _, w := range filtered {
			views = append(views, toWatchView(w, cur, deps.Rates))
		}
		c.JSON(http.StatusOK, gin.H{
			"watches": views,
			"total":   len(deps.Catalog.List()),
			"count":   len(views),
		})
	}
}

func getWatchHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid watch id"})
			return
		}
		w, err := deps.Catalog.Get(id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toWatchView(*w, displayCurrency(c), deps.Rates))
	}
}

func brandsHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"brands": deps.Catalog.Brands()})
	}
}
