package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	hotelAdults    = 2
	maxHotelOffers = 3
	offerCurrency  = "EUR"

	// offerBullet prefixes every offer line of a hotel summary.
	offerBullet = "- "

	msgHotelSearchDisabled = "Búsqueda de hoteles no disponible: el proveedor de hoteles no está configurado."
	msgHotelSearchFailed   = "No se pudo consultar la disponibilidad de hoteles en este momento."
	msgNoHotelOffers       = "No se encontraron ofertas de hotel para estas fechas."
	msgDestinationNotFound = "No se encontró el destino %q en el proveedor de hoteles."
)

// HotelProvider is the narrow view of the hotel-search backend.
type HotelProvider interface {
	ResolveCity(ctx context.Context, destination string) (string, error)
	HotelOffers(ctx context.Context, cityCode string, q OfferQuery) ([]OfferResult, error)
}

// HotelSearch turns a destination and freeform dates into a short hotel
// summary for the prompt. It never fails: every provider problem becomes a
// descriptive text.
type HotelSearch struct {
	provider HotelProvider
	logger   *zap.Logger
}

// NewHotelSearch creates the adapter. A nil provider disables hotel search.
func NewHotelSearch(provider HotelProvider, logger *zap.Logger) *HotelSearch {
	return &HotelSearch{provider: provider, logger: logger}
}

// Enabled reports whether a provider is configured.
func (s *HotelSearch) Enabled() bool {
	return s.provider != nil
}

// SearchHotels returns up to three offers as bullet lines, or a fallback message.
func (s *HotelSearch) SearchHotels(ctx context.Context, destination, datesText string) (summary string) {
	if s.provider == nil {
		s.logger.Debug("hotel search skipped", zap.Error(ErrHotelProviderUnavailable))
		return msgHotelSearchDisabled
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("hotel search panicked", zap.Any("panic", r), zap.String("destination", destination))
			summary = msgHotelSearchFailed
		}
	}()

	cityCode, err := s.provider.ResolveCity(ctx, destination)
	if err != nil {
		if errors.Is(err, ErrDestinationNotFound) {
			s.logger.Info("destination not found", zap.String("destination", destination))
			return fmt.Sprintf(msgDestinationNotFound, destination)
		}
		s.logger.Warn("city resolution failed", zap.String("destination", destination), zap.Error(err))
		return msgHotelSearchFailed
	}

	q := OfferQuery{Adults: hotelAdults, Currency: offerCurrency}
	// Reversed or same-day pairs would be rejected upstream; search undated instead.
	if r, ok := ParseDateRange(datesText); ok && r.Nights() >= 1 {
		q.Dates = &r
	}

	results, err := s.provider.HotelOffers(ctx, cityCode, q)
	if err != nil {
		s.logger.Warn("hotel offers search failed", zap.String("city_code", cityCode), zap.Error(err))
		return msgHotelSearchFailed
	}

	offers := make([]HotelOffer, 0, maxHotelOffers)
	malformed := 0
	for _, res := range results {
		if !res.OK() {
			malformed++
			continue
		}
		offers = append(offers, res.Offer)
		if len(offers) == maxHotelOffers {
			break
		}
	}
	if malformed > 0 {
		s.logger.Debug("skipped malformed hotel offers", zap.Int("count", malformed))
	}

	s.logger.Info("hotel search completed",
		zap.String("city_code", cityCode),
		zap.Bool("dated", q.Dates != nil),
		zap.Int("offers", len(offers)))

	if len(offers) == 0 {
		return msgNoHotelOffers
	}
	return FormatHotelSummary(offers)
}

// FormatHotelSummary renders offers as newline separated bullet lines.
func FormatHotelSummary(offers []HotelOffer) string {
	lines := make([]string, 0, len(offers))
	for _, o := range offers {
		price := "precio no disponible"
		if o.Price != priceNotKnown && o.Price != "" {
			price = strings.TrimSpace("aprox. " + o.Price + " " + o.Currency)
		}
		lines = append(lines, fmt.Sprintf("%s%s: %s", offerBullet, o.Name, price))
	}
	return strings.Join(lines, "\n")
}

// hasHotelOffers reports whether summary lists at least one offer.
func hasHotelOffers(summary string) bool {
	return strings.HasPrefix(strings.TrimSpace(summary), offerBullet)
}
