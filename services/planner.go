package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// TripRequest is one inbound itinerary request. Budget is nil when absent.
type TripRequest struct {
	Destination string
	Dates       string
	Budget      *float64
}

// ItineraryResult is the output of one request.
type ItineraryResult struct {
	Text         string
	DaysInferred int
}

// HotelSearcher produces the hotel summary embedded in the prompt.
type HotelSearcher interface {
	SearchHotels(ctx context.Context, destination, datesText string) string
}

// TripPlanner runs hotel search, duration inference, prompt assembly and
// generation in that order. It holds no per-request state.
type TripPlanner struct {
	hotels    HotelSearcher
	generator Generator
	logger    *zap.Logger
}

func NewTripPlanner(hotels HotelSearcher, generator Generator, logger *zap.Logger) *TripPlanner {
	return &TripPlanner{hotels: hotels, generator: generator, logger: logger}
}

// Plan returns the generated itinerary or the generator's *GenerationError.
// Hotel search problems never fail the request.
func (p *TripPlanner) Plan(ctx context.Context, req TripRequest) (*ItineraryResult, error) {
	start := time.Now()
	destination := strings.TrimSpace(req.Destination)

	hotelSummary := p.hotels.SearchHotels(ctx, destination, req.Dates)

	dateRange, parsed := ParseDateRange(req.Dates)
	days := InferDays(dateRange, parsed, req.Dates)

	var budget float64
	if req.Budget != nil && *req.Budget > 0 {
		budget = *req.Budget
	}

	prompt := BuildPrompt(destination, req.Dates, days, budget, hotelSummary)

	text, err := p.generator.Generate(ctx, prompt)
	if err != nil {
		p.logger.Error("itinerary generation failed",
			zap.String("generator", p.generator.Name()),
			zap.Stringer("kind", FailureKindOf(err)),
			zap.Error(err))
		return nil, err
	}

	p.logger.Info("itinerary generated",
		zap.String("destination", destination),
		zap.Int("days", days),
		zap.Bool("dates_parsed", parsed),
		zap.Bool("budget", budget > 0),
		zap.Duration("took", time.Since(start)))

	return &ItineraryResult{Text: text, DaysInferred: days}, nil
}
