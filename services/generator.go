package services

import "context"

const defaultTemperature = 0.6

// Generator turns a prompt into itinerary text. Implementations make a
// single attempt and return a *GenerationError on failure.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}
