package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	serviceName    = "IA Viajes API"
	serviceVersion = "1.0.0"
)

type HealthHandler struct {
	hotelSearch bool
	generator   string
}

func NewHealthHandler(hotelSearchEnabled bool, generator string) *HealthHandler {
	return &HealthHandler{hotelSearch: hotelSearchEnabled, generator: generator}
}

// Health reports static availability. It does not call any provider.
func (h *HealthHandler) Health(c *gin.Context) {
	hotelStatus := "disabled"
	if h.hotelSearch {
		hotelStatus = "enabled"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"service":      serviceName,
		"version":      serviceVersion,
		"hotel_search": hotelStatus,
		"generator":    h.generator,
	})
}
