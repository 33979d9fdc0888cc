package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ItineraryPDF is the content of an exported itinerary document.
type ItineraryPDF struct {
	Destination string
	Itinerary   string
	GeneratedAt time.Time
}

// GeneratePDFBytes renders the itinerary and returns raw bytes (no filesystem needed).
func GeneratePDFBytes(data ItineraryPDF) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// Core fonts are cp1252; translate so accents render.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// ── Header Bar ───────────────────────────────────────────
	pdf.SetFillColor(13, 24, 37)
	pdf.Rect(0, 0, 210, 28, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(20, 8)
	title := "Tu Itinerario de Viaje para " + cases.Title(language.Spanish).String(strings.TrimSpace(data.Destination))
	pdf.CellFormat(170, 10, tr(title), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(212, 168, 67)
	generated := data.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	pdf.CellFormat(170, 6, tr("Generado el "+generated.UTC().Format("02/01/2006 15:04 UTC")), "", 1, "C", false, 0, "")

	pdf.SetY(38)
	pdf.SetTextColor(20, 20, 20)

	// ── Body ─────────────────────────────────────────────────
	for _, line := range strings.Split(data.Itinerary, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			pdf.Ln(3)
			continue
		}

		style, size := "", 11.0
		switch {
		case strings.HasPrefix(line, "#"):
			line = strings.TrimSpace(strings.TrimLeft(line, "#"))
			style, size = "B", 13
		case isDayHeading(line):
			style, size = "B", 12
		}

		pdf.SetFont("Helvetica", style, size)
		pdf.MultiCell(170, 6, tr(strings.ReplaceAll(line, "**", "")), "", "L", false)
	}

	// ── Footer ───────────────────────────────────────────────
	pdf.SetY(-22)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.3)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(150, 150, 150)
	pdf.CellFormat(0, 8, tr("Itinerario generado con IA · Los precios son orientativos"), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("PDF output failed: %w", err)
	}
	return buf.Bytes(), nil
}

func isDayHeading(line string) bool {
	plain := strings.TrimSpace(strings.ReplaceAll(line, "**", ""))
	lower := strings.ToLower(plain)
	return strings.HasPrefix(lower, "día ") || strings.HasPrefix(lower, "dia ") || strings.HasPrefix(lower, "day ")
}
