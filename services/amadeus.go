package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ─── Types ────────────────────────────────────────────────────────────────────

// HotelOffer is the normalized view of one provider offer.
type HotelOffer struct {
	Name     string `json:"name"`
	Price    string `json:"price"` // decimal as string, or "N/A"
	Currency string `json:"currency,omitempty"`
}

// OfferResult is either a valid offer (Err == nil) or a malformed entry
// (Err wraps ErrMalformedOffer). Entries are validated once, here.
type OfferResult struct {
	Offer HotelOffer
	Err   error
}

// OK reports whether the entry decoded into an offer.
func (r OfferResult) OK() bool { return r.Err == nil }

// OfferQuery holds the optional parameters of a hotel offers search.
type OfferQuery struct {
	Dates    *DateRange
	Adults   int
	Currency string
}

const (
	unnamedHotel   = "Hotel sin nombre"
	priceNotKnown  = "N/A"
	maxHotelIDs    = 20
	cityMatchLimit = 5
)

// ─── Amadeus Client ───────────────────────────────────────────────────────────

type AmadeusClient struct {
	clientID     string
	clientSecret string
	baseURL      string
	accessToken  string
	tokenExpiry  time.Time
	mu           sync.Mutex
	httpClient   *http.Client
	logger       *zap.Logger
}

var _ HotelProvider = (*AmadeusClient)(nil)

func NewAmadeusClient(clientID, clientSecret, baseURL string, timeout time.Duration, logger *zap.Logger) *AmadeusClient {
	return &AmadeusClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Warm fetches the first OAuth token so a bad credential shows up at startup.
func (c *AmadeusClient) Warm(ctx context.Context) error {
	return c.refreshToken(ctx)
}

// ─── OAuth2 Token ─────────────────────────────────────────────────────────────

func (c *AmadeusClient) refreshToken(ctx context.Context) error {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/security/oauth2/token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrHotelProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("token request failed (%d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse token response: %w", err)
	}

	c.mu.Lock()
	c.accessToken = result.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(result.ExpiresIn-30) * time.Second)
	c.mu.Unlock()

	return nil
}

func (c *AmadeusClient) getToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	expired := time.Now().After(c.tokenExpiry)
	token := c.accessToken
	c.mu.Unlock()

	if expired || token == "" {
		if err := c.refreshToken(ctx); err != nil {
			return "", err
		}
		c.mu.Lock()
		token = c.accessToken
		c.mu.Unlock()
	}
	return token, nil
}

func (c *AmadeusClient) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	token, err := c.getToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("auth failed: %w", err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHotelProviderUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("amadeus error (%d): %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}

// ─── City Resolution ──────────────────────────────────────────────────────────

type amadeusLocationsResponse struct {
	Data []struct {
		Name     string `json:"name"`
		IATACode string `json:"iataCode"`
		Address  struct {
			CityCode string `json:"cityCode"`
		} `json:"address"`
	} `json:"data"`
}

// ResolveCity maps a freeform destination name to an Amadeus city code. The
// first match wins.
func (c *AmadeusClient) ResolveCity(ctx context.Context, destination string) (string, error) {
	keyword := normalizeKeyword(destination)
	if keyword == "" {
		return "", ErrDestinationNotFound
	}

	query := url.Values{}
	query.Set("subType", "CITY")
	query.Set("keyword", keyword)
	query.Set("page[limit]", strconv.Itoa(cityMatchLimit))

	body, err := c.doRequest(ctx, http.MethodGet, "/v1/reference-data/locations?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("location search failed: %w", err)
	}

	var resp amadeusLocationsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse locations: %w", err)
	}

	for _, loc := range resp.Data {
		code := loc.IATACode
		if code == "" {
			code = loc.Address.CityCode
		}
		if code != "" {
			c.logger.Debug("destination resolved",
				zap.String("destination", destination),
				zap.String("city", loc.Name),
				zap.String("city_code", code))
			return code, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrDestinationNotFound, destination)
}

// normalizeKeyword strips diacritics and upper-cases the name, since the
// locations endpoint only accepts plain letters ("Málaga" -> "MALAGA").
func normalizeKeyword(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, name)
	if err != nil {
		plain = name
	}

	var b strings.Builder
	for _, r := range plain {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsSpace(r) || r == '-' || r == '\'':
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// ─── Hotel Offers ─────────────────────────────────────────────────────────────

// HotelOffers lists hotels in the city and returns their best-rate offers,
// each decoded into an OfferResult.
func (c *AmadeusClient) HotelOffers(ctx context.Context, cityCode string, q OfferQuery) ([]OfferResult, error) {
	hotelIDs, err := c.getHotelIDsByCity(ctx, cityCode)
	if err != nil {
		return nil, fmt.Errorf("hotel list failed: %w", err)
	}
	if len(hotelIDs) == 0 {
		return nil, nil
	}

	// Limit IDs to stay within the offers endpoint quota
	if len(hotelIDs) > maxHotelIDs {
		hotelIDs = hotelIDs[:maxHotelIDs]
	}

	return c.getHotelOffers(ctx, hotelIDs, q)
}

type amadeusHotelListResponse struct {
	Data []struct {
		HotelID string `json:"hotelId"`
		Name    string `json:"name"`
	} `json:"data"`
}

func (c *AmadeusClient) getHotelIDsByCity(ctx context.Context, cityCode string) ([]string, error) {
	path := fmt.Sprintf("/v1/reference-data/locations/hotels/by-city?cityCode=%s&radius=5&radiusUnit=KM&hotelSource=ALL",
		url.QueryEscape(cityCode))

	body, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var resp amadeusHotelListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse hotel list: %w", err)
	}

	ids := make([]string, 0, len(resp.Data))
	for _, h := range resp.Data {
		if h.HotelID != "" {
			ids = append(ids, h.HotelID)
		}
	}
	return ids, nil
}

type amadeusHotelOffersResponse struct {
	Data []json.RawMessage `json:"data"`
}

type amadeusHotelOffer struct {
	Hotel *struct {
		HotelID string `json:"hotelId"`
		Name    string `json:"name"`
	} `json:"hotel"`
	Offers []struct {
		Price struct {
			Total    string `json:"total"`
			Base     string `json:"base"`
			Currency string `json:"currency"`
		} `json:"price"`
	} `json:"offers"`
}

func (c *AmadeusClient) getHotelOffers(ctx context.Context, hotelIDs []string, q OfferQuery) ([]OfferResult, error) {
	query := url.Values{}
	query.Set("hotelIds", strings.Join(hotelIDs, ","))
	query.Set("adults", strconv.Itoa(q.Adults))
	query.Set("roomQuantity", "1")
	query.Set("bestRateOnly", "true")
	if q.Currency != "" {
		query.Set("currency", q.Currency)
	}
	if q.Dates != nil {
		query.Set("checkInDate", q.Dates.CheckIn.Format(isoLayout))
		query.Set("checkOutDate", q.Dates.CheckOut.Format(isoLayout))
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/v3/shopping/hotel-offers?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("hotel offers failed: %w", err)
	}

	var resp amadeusHotelOffersResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse hotel offers: %w", err)
	}

	results := make([]OfferResult, 0, len(resp.Data))
	for _, raw := range resp.Data {
		results = append(results, decodeHotelOffer(raw))
	}
	return results, nil
}

// decodeHotelOffer validates one provider entry. Missing fields are
// defaulted; entries that are not objects or carry neither a hotel nor an
// offer are malformed.
func decodeHotelOffer(raw json.RawMessage) OfferResult {
	var item amadeusHotelOffer
	if err := json.Unmarshal(raw, &item); err != nil {
		return OfferResult{Err: fmt.Errorf("%w: %v", ErrMalformedOffer, err)}
	}
	if item.Hotel == nil && len(item.Offers) == 0 {
		return OfferResult{Err: fmt.Errorf("%w: no hotel or offers", ErrMalformedOffer)}
	}

	offer := HotelOffer{Name: unnamedHotel, Price: priceNotKnown}
	if item.Hotel != nil {
		if name := strings.TrimSpace(item.Hotel.Name); name != "" {
			offer.Name = name
		}
	}
	if len(item.Offers) > 0 {
		price := item.Offers[0].Price
		offer.Currency = strings.TrimSpace(price.Currency)
		offer.Price = normalizePrice(price.Total, price.Base)
	}
	return OfferResult{Offer: offer}
}

// normalizePrice returns the first candidate that parses as a positive
// decimal, formatted with two decimals.
func normalizePrice(candidates ...string) string {
	for _, s := range candidates {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil && v > 0 {
			return strconv.FormatFloat(v, 'f', 2, 64)
		}
	}
	return priceNotKnown
}
