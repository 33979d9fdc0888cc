package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAmadeus struct {
	tokenCalls  atomic.Int32
	offerQuery  atomic.Value
	offersBody  string
	tokenStatus int
}

func newFakeAmadeus(t *testing.T, f *fakeAmadeus) *httptest.Server {
	t.Helper()

	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/security/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		if f.tokenStatus != 0 {
			w.WriteHeader(f.tokenStatus)
			_, _ = w.Write([]byte(`{"error":"invalid_client"}`))
			return
		}
		assert.Equal(t, "client_credentials", r.FormValue("grant_type"))
		writeJSON(w, map[string]any{"access_token": "tok", "expires_in": 1799})
	})
	mux.HandleFunc("GET /v1/reference-data/locations", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "CITY", r.URL.Query().Get("subType"))
		if r.URL.Query().Get("keyword") != "ROME" {
			writeJSON(w, map[string]any{"data": []any{}})
			return
		}
		writeJSON(w, map[string]any{"data": []any{
			map[string]any{"name": "ROME", "iataCode": "ROM"},
			map[string]any{"name": "ROME CIAMPINO", "iataCode": "CIA"},
		}})
	})
	mux.HandleFunc("GET /v1/reference-data/locations/hotels/by-city", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ROM", r.URL.Query().Get("cityCode"))
		writeJSON(w, map[string]any{"data": []any{
			map[string]any{"hotelId": "RTROM001"},
			map[string]any{"hotelId": "RTROM002"},
		}})
	})
	mux.HandleFunc("GET /v3/shopping/hotel-offers", func(w http.ResponseWriter, r *http.Request) {
		f.offerQuery.Store(r.URL.Query())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(f.offersBody))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

const mixedOffersBody = `{"data":[
	{"hotel":{"hotelId":"RTROM001","name":"Hotel Artemide"},"offers":[{"price":{"total":"345.00","currency":"EUR"}}]},
	"garbage",
	{"hotel":{},"offers":[]},
	{"offers":[{"price":{"base":"120","currency":"EUR"}}]},
	{"hotel":{"name":"Roma Inn"}}
]}`

func newTestAmadeus(srv *httptest.Server) *AmadeusClient {
	return NewAmadeusClient("id", "secret", srv.URL, 5*time.Second, zap.NewNop())
}

func TestAmadeusResolveCity(t *testing.T) {
	f := &fakeAmadeus{}
	client := newTestAmadeus(newFakeAmadeus(t, f))

	code, err := client.ResolveCity(context.Background(), "Rome")
	require.NoError(t, err)
	assert.Equal(t, "ROM", code)

	_, err = client.ResolveCity(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ErrDestinationNotFound)

	_, err = client.ResolveCity(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrDestinationNotFound)

	// The OAuth token is reused until it expires.
	assert.Equal(t, int32(1), f.tokenCalls.Load())
}

func TestAmadeusTokenFailure(t *testing.T) {
	f := &fakeAmadeus{tokenStatus: http.StatusUnauthorized}
	client := newTestAmadeus(newFakeAmadeus(t, f))

	_, err := client.ResolveCity(context.Background(), "Rome")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrDestinationNotFound))
	assert.Contains(t, err.Error(), "auth failed")
}

func TestAmadeusHotelOffers(t *testing.T) {
	f := &fakeAmadeus{offersBody: mixedOffersBody}
	client := newTestAmadeus(newFakeAmadeus(t, f))

	dates := DateRange{CheckIn: date(2025, 6, 1), CheckOut: date(2025, 6, 4)}
	results, err := client.HotelOffers(context.Background(), "ROM", OfferQuery{Dates: &dates, Adults: 2, Currency: "EUR"})
	require.NoError(t, err)
	require.Len(t, results, 5)

	assert.True(t, results[0].OK())
	assert.Equal(t, HotelOffer{Name: "Hotel Artemide", Price: "345.00", Currency: "EUR"}, results[0].Offer)

	assert.False(t, results[1].OK())
	assert.ErrorIs(t, results[1].Err, ErrMalformedOffer)

	assert.Equal(t, HotelOffer{Name: unnamedHotel, Price: priceNotKnown}, results[2].Offer)
	assert.Equal(t, HotelOffer{Name: unnamedHotel, Price: "120.00", Currency: "EUR"}, results[3].Offer)
	assert.Equal(t, HotelOffer{Name: "Roma Inn", Price: priceNotKnown}, results[4].Offer)

	q := f.offerQuery.Load().(url.Values)
	assert.Equal(t, []string{"RTROM001,RTROM002"}, q["hotelIds"])
	assert.Equal(t, []string{"2"}, q["adults"])
	assert.Equal(t, []string{"true"}, q["bestRateOnly"])
	assert.Equal(t, []string{"2025-06-01"}, q["checkInDate"])
	assert.Equal(t, []string{"2025-06-04"}, q["checkOutDate"])
}

func TestAmadeusHotelOffersWithoutDates(t *testing.T) {
	f := &fakeAmadeus{offersBody: `{"data":[]}`}
	client := newTestAmadeus(newFakeAmadeus(t, f))

	results, err := client.HotelOffers(context.Background(), "ROM", OfferQuery{Adults: 2})
	require.NoError(t, err)
	assert.Empty(t, results)

	q := f.offerQuery.Load().(url.Values)
	assert.NotContains(t, q, "checkInDate")
	assert.NotContains(t, q, "currency")
}

func TestAmadeusHotelOffersUpstreamError(t *testing.T) {
	f := &fakeAmadeus{offersBody: `not json`}
	client := newTestAmadeus(newFakeAmadeus(t, f))

	_, err := client.HotelOffers(context.Background(), "ROM", OfferQuery{Adults: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse hotel offers")
}

func TestDecodeHotelOffer(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		want      HotelOffer
		malformed bool
	}{
		{name: "null", raw: `null`, malformed: true},
		{name: "number", raw: `42`, malformed: true},
		{name: "empty object", raw: `{}`, malformed: true},
		{name: "offers of wrong type", raw: `{"hotel":{"name":"X"},"offers":"none"}`, malformed: true},
		{name: "blank name", raw: `{"hotel":{"name":"  "},"offers":[{"price":{"total":"99.5"}}]}`, want: HotelOffer{Name: unnamedHotel, Price: "99.50"}},
		{name: "zero price", raw: `{"hotel":{"name":"Y"},"offers":[{"price":{"total":"0","currency":"EUR"}}]}`, want: HotelOffer{Name: "Y", Price: priceNotKnown, Currency: "EUR"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := decodeHotelOffer(json.RawMessage(tt.raw))
			if tt.malformed {
				assert.ErrorIs(t, res.Err, ErrMalformedOffer)
				return
			}
			require.NoError(t, res.Err)
			assert.Equal(t, tt.want, res.Offer)
		})
	}
}

func TestNormalizeKeyword(t *testing.T) {
	assert.Equal(t, "MALAGA", normalizeKeyword("Málaga"))
	assert.Equal(t, "SAO PAULO", normalizeKeyword("São Paulo"))
	assert.Equal(t, "NEW YORK", normalizeKeyword("  new-york "))
	assert.Equal(t, "L AQUILA", normalizeKeyword("L'Aquila"))
	assert.Equal(t, "", normalizeKeyword("東京"))
}
