package services

import (
	"errors"
	"regexp"
	"strconv"
	"time"
)

const (
	MinTripDays     = 1
	MaxTripDays     = 30
	DefaultTripDays = 3

	isoLayout = "2006-01-02"
)

// DateRange is a check-in/check-out pair of calendar dates (UTC midnight).
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// Nights returns the whole days between check-in and check-out.
func (r DateRange) Nights() int {
	return int(r.CheckOut.Sub(r.CheckIn).Hours() / 24)
}

var (
	isoDateRe = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	dmyDateRe = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{4}\b`)

	dmyLayouts = []string{"2/1/2006", "2-1-2006"}

	// "5 días", "5dias", "7 days", "3d"
	dayCountRe = regexp.MustCompile(`(?i)\b(\d+)\s*(?:d[ií]as?|days?|d)\b`)
	// "5 full days", "4 noches", "3 jornadas"
	looseDayCountRe = regexp.MustCompile(`(?i)\b(\d{1,2})\b(\D{0,24}?)(?:d[ií]a|day|jornada|noche|night)`)
	// A number followed by money or party size is not a trip length.
	looseGapStopRe = regexp.MustCompile(`(?i)[€$£]|\b(?:eur|euros?|usd|d[oó]lar(?:es)?|dollars?|personas?|people|persons?|adult(?:o|e)?s?|viajeros?|travell?ers?)\b`)
)

// ParseDateRange extracts a check-in/check-out pair from freeform text. Two
// ISO dates win; otherwise two D/M/YYYY or D-M-YYYY dates are tried. The
// second return value is false when no complete pair could be parsed.
func ParseDateRange(text string) (DateRange, bool) {
	if r, ok := parsePair(isoDateRe.FindAllString(text, 2), []string{isoLayout}); ok {
		return r, true
	}
	return parsePair(dmyDateRe.FindAllString(text, 2), dmyLayouts)
}

func parsePair(matches []string, layouts []string) (DateRange, bool) {
	if len(matches) < 2 {
		return DateRange{}, false
	}
	checkIn, ok := parseDate(matches[0], layouts)
	if !ok {
		return DateRange{}, false
	}
	checkOut, ok := parseDate(matches[1], layouts)
	if !ok {
		return DateRange{}, false
	}
	return DateRange{CheckIn: checkIn, CheckOut: checkOut}, true
}

func parseDate(s string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// InferDays derives the trip length. A parsed range of at least one day wins,
// then an explicit day-count phrase, then a loosely paired number, then the
// default of 3. Out-of-range values are clamped to [1, 30].
func InferDays(r DateRange, parsed bool, text string) int {
	if parsed {
		if n := r.Nights(); n >= 1 {
			return clampDays(n)
		}
	}

	// Date fragments such as "2025-06-01" must not read as day counts.
	rest := dmyDateRe.ReplaceAllString(isoDateRe.ReplaceAllString(text, " "), " ")

	if m := dayCountRe.FindStringSubmatch(rest); m != nil {
		if n, ok := parseDayCount(m[1]); ok {
			return clampDays(n)
		}
	}

	for _, m := range looseDayCountRe.FindAllStringSubmatch(rest, -1) {
		if looseGapStopRe.MatchString(m[2]) {
			continue
		}
		if n, ok := parseDayCount(m[1]); ok {
			return clampDays(n)
		}
	}
	return DefaultTripDays
}

// parseDayCount reads a captured run of digits. Values too large for an int
// count as the maximum trip length so they clamp like any other.
func parseDayCount(digits string) (int, bool) {
	n, err := strconv.Atoi(digits)
	if errors.Is(err, strconv.ErrRange) {
		return MaxTripDays, true
	}
	return n, err == nil
}

func clampDays(n int) int {
	if n < MinTripDays {
		return MinTripDays
	}
	if n > MaxTripDays {
		return MaxTripDays
	}
	return n
}
