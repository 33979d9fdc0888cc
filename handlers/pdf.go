package handlers

import (
	"fmt"
	"net/http"
	"time"

	"iaviajes/middleware"
	"iaviajes/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ItineraryPDFRequest struct {
	Destination string `json:"destination" binding:"required"`
	Itinerary   string `json:"itinerary" binding:"required"`
}

type PDFHandler struct {
	logger *zap.Logger
	now    func() time.Time
}

func NewPDFHandler(logger *zap.Logger) *PDFHandler {
	return &PDFHandler{logger: logger, now: time.Now}
}

// Download renders the posted itinerary as a PDF attachment. Nothing is stored.
func (h *PDFHandler) Download(c *gin.Context) {
	var req ItineraryPDFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Solicitud no válida: " + err.Error()})
		return
	}

	pdfBytes, err := services.GeneratePDFBytes(services.ItineraryPDF{
		Destination: req.Destination,
		Itinerary:   req.Itinerary,
		GeneratedAt: h.now(),
	})
	if err != nil {
		h.logger.Error("pdf generation failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo generar el PDF."})
		return
	}

	filename := fmt.Sprintf("itinerario-%s.pdf", uuid.NewString()[:8])
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
