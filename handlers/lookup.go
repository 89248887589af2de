package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LookupHandler proxies the customer and payment method lookups the order
// screen needs.
type LookupHandler struct {
	Backoffice Backoffice
	Log        *zap.Logger
}

func (h *LookupHandler) Customers(c *gin.Context) {
	customers, err := h.Backoffice.SearchCustomers(c.Request.Context(), credentials(c), c.Query("search"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	out := make([]gin.H, 0, len(customers))
	for _, cu := range customers {
		out = append(out, gin.H{
			"id":    cu.ID,
			"name":  cu.Name,
			"phone": cu.Phone,
			"label": cu.Label(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (h *LookupHandler) PaymentMethods(c *gin.Context) {
	methods, err := h.Backoffice.PaymentMethods(c.Request.Context(), credentials(c))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": methods})
}
