package api

import (
	"net/http"

	"github.com/booklytrip/booking/internal/service/reconciler"
	"github.com/gin-gonic/gin"
)

// PayseraHandler serves the payment gateway settlement callback. The gateway
// retries until it receives the literal body "OK", so every handled business
// outcome answers OK and only protocol or verification failures do not.
type PayseraHandler struct {
	service reconciler.ReconcilerUseCase
}

func NewPayseraHandler(service reconciler.ReconcilerUseCase) *PayseraHandler {
	return &PayseraHandler{service: service}
}

func (h *PayseraHandler) Register(router *gin.Engine) {
	router.Any("/paysera", h.callback)
}

func (h *PayseraHandler) callback(c *gin.Context) {
	if c.Request.Method != http.MethodGet {
		c.Header("Allow", http.MethodGet)
		c.String(http.StatusMethodNotAllowed, "Paysera callback supports only GET request.")
		return
	}

	callback := reconciler.Callback{
		Data:    c.Query("data"),
		SS1:     c.Query("ss1"),
		Project: c.Query("project"),
	}
	if callback.Data == "" || callback.SS1 == "" || callback.Project == "" {
		c.String(http.StatusInternalServerError, "One of required parameters is missing.")
		return
	}

	if err := h.service.Process(c.Request.Context(), callback); err != nil {
		// Not acknowledged: the gateway keeps retrying, which is what we
		// want for signature failures and configuration faults.
		c.String(http.StatusInternalServerError, err.Error())
		return
	}

	c.String(http.StatusOK, "OK")
}
