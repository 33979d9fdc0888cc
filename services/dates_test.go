package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   DateRange
		wantOK bool
	}{
		{
			name:   "iso pair",
			text:   "2025-06-01 a 2025-06-04",
			want:   DateRange{CheckIn: date(2025, 6, 1), CheckOut: date(2025, 6, 4)},
			wantOK: true,
		},
		{
			name:   "iso pair keeps order even when reversed",
			text:   "del 2025-06-10 al 2025-06-04",
			want:   DateRange{CheckIn: date(2025, 6, 10), CheckOut: date(2025, 6, 4)},
			wantOK: true,
		},
		{
			name:   "day month year with slashes",
			text:   "desde 1/6/2025 hasta 05/06/2025",
			want:   DateRange{CheckIn: date(2025, 6, 1), CheckOut: date(2025, 6, 5)},
			wantOK: true,
		},
		{
			name:   "day month year with dashes",
			text:   "15-08-2025 to 20-08-2025",
			want:   DateRange{CheckIn: date(2025, 8, 15), CheckOut: date(2025, 8, 20)},
			wantOK: true,
		},
		{
			name: "single date",
			text: "salida 2025-06-01",
		},
		{
			name: "invalid day month pair is discarded",
			text: "31/02/2025 - 03/03/2025",
		},
		{
			name: "flexible dates",
			text: "14 dias en junio 2025",
		},
		{
			name: "empty",
			text: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDateRange(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInferDays(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{text: "2025-06-01 a 2025-06-04", want: 3},
		{text: "2025-06-01 to 2025-06-02", want: 1},
		{text: "2025-06-01 a 2025-08-01", want: 30},
		{text: "1/6/2025 - 8/6/2025", want: 7},
		{text: "5 días", want: 5},
		{text: "5 DÍAS en Roma", want: 5},
		{text: "14 dias en junio 2025", want: 14},
		{text: "a week, 7 days", want: 7},
		{text: "3d", want: 3},
		{text: "45 días", want: 30},
		{text: "0 días", want: 1},
		{text: "unos 4 maravillosos días", want: 4},
		{text: "6 noches", want: 6},
		{text: "99999999999999999999 días", want: MaxTripDays},
		{text: "presupuesto 50 euros para días de playa", want: DefaultTripDays},
		{text: "somos 12 personas, unos días", want: DefaultTripDays},
		{text: "200€ y 4 noches", want: 4},
		{text: "en verano", want: DefaultTripDays},
		{text: "", want: DefaultTripDays},
		// Same day check-in and check-out falls through to the text.
		{text: "2025-06-01 a 2025-06-01, 2 días", want: 2},
		// Reversed dates fall back to the default.
		{text: "2025-06-04 a 2025-06-01", want: DefaultTripDays},
		// A lone date is not a day count.
		{text: "2025-06-01 durante varios días", want: DefaultTripDays},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			r, ok := ParseDateRange(tt.text)
			got := InferDays(r, ok, tt.text)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, MinTripDays)
			assert.LessOrEqual(t, got, MaxTripDays)
		})
	}
}
