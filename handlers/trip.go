package handlers

import (
	"context"
	"net/http"
	"strings"

	"iaviajes/middleware"
	"iaviajes/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Planner produces an itinerary for one trip request.
type Planner interface {
	Plan(ctx context.Context, req services.TripRequest) (*services.ItineraryResult, error)
}

type GenerateTripRequest struct {
	Destination string   `json:"destination" binding:"required"`
	Dates       string   `json:"dates"`
	Budget      *float64 `json:"budget"`
}

type GenerateTripResponse struct {
	Itinerary    string `json:"itinerary"`
	DaysInferred int    `json:"days_inferred"`
}

type TripHandler struct {
	planner Planner
	logger  *zap.Logger
}

func NewTripHandler(planner Planner, logger *zap.Logger) *TripHandler {
	return &TripHandler{planner: planner, logger: logger}
}

// GenerateTrip handles POST /api/generate-trip. Failures carry only a short
// label; the itinerary field is present on success only.
func (h *TripHandler) GenerateTrip(c *gin.Context) {
	var req GenerateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Solicitud no válida: " + err.Error()})
		return
	}

	if strings.TrimSpace(req.Destination) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El destino es obligatorio."})
		return
	}

	result, err := h.planner.Plan(c.Request.Context(), services.TripRequest{
		Destination: req.Destination,
		Dates:       strings.TrimSpace(req.Dates),
		Budget:      req.Budget,
	})
	if err != nil {
		kind := services.FailureKindOf(err)
		h.logger.Warn("generate trip failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Stringer("kind", kind),
			zap.Error(err))
		c.JSON(kind.HTTPStatus(), gin.H{"error": kind.Message()})
		return
	}

	c.JSON(http.StatusOK, GenerateTripResponse{
		Itinerary:    result.Text,
		DaysInferred: result.DaysInferred,
	})
}
