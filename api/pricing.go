package api

import (
	"net/http"

	"github.com/booklytrip/booking/internal/domain"
	"github.com/booklytrip/booking/internal/service/pricing"
	"github.com/gin-gonic/gin"
)

// PricingHandler prices raw flight offers with the project's markup rules.
type PricingHandler struct {
	service pricing.PricingUseCase
}

type priceRequest struct {
	Flights []domain.Flight `json:"flights"`
}

func NewPricingHandler(service pricing.PricingUseCase) *PricingHandler {
	return &PricingHandler{service: service}
}

func (h *PricingHandler) Register(router *gin.RouterGroup) {
	router.POST("/price", h.price)
	router.GET("/rules", h.rules)
}

func (h *PricingHandler) price(c *gin.Context) {
	var req priceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	priced, err := h.service.PriceFlights(c.Request.Context(), c.Param("project"), req.Flights)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, priced)
}

// rules returns the project's markup rules in evaluation order, as the
// pricing pipeline sees them (cache included).
func (h *PricingHandler) rules(c *gin.Context) {
	rules, err := h.service.Rules(c.Request.Context(), c.Param("project"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rules)
}
