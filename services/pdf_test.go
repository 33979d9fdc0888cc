package services

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePDFBytes(t *testing.T) {
	data := ItineraryPDF{
		Destination: "san sebastián",
		Itinerary:   "# Itinerario\n\n**Día 1**\n- Mañana: **La Concha**\n- Tarde: pintxos en la Parte Vieja\n\nDía 2\n- Noche: cena",
		GeneratedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}

	out, err := GeneratePDFBytes(data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Greater(t, len(out), 500)
}

func TestIsDayHeading(t *testing.T) {
	assert.True(t, isDayHeading("**Día 1: llegada**"))
	assert.True(t, isDayHeading("Day 2"))
	assert.False(t, isDayHeading("Diario de viaje"))
}
