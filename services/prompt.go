package services

import (
	"fmt"
	"strconv"
	"strings"
)

// BuildPrompt composes the itinerary request sent to the text generator.
// budget <= 0 means no budget was given.
func BuildPrompt(destination, datesText string, days int, budget float64, hotelSummary string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Crea un itinerario de viaje de %d días para %s.\n", days, destination)
	if dates := strings.TrimSpace(datesText); dates != "" {
		fmt.Fprintf(&b, "Fechas indicadas por el viajero: %s.\n", dates)
	}

	if budget > 0 {
		fmt.Fprintf(&b, "El presupuesto aproximado es de %s euros. Ajusta las recomendaciones a este presupuesto.\n",
			strconv.FormatFloat(budget, 'f', -1, 64))
	} else {
		b.WriteString("No hay un presupuesto definido: ofrece una mezcla de opciones económicas, de gama media y de lujo.\n")
	}

	b.WriteString("\nOpciones de alojamiento disponibles:\n")
	b.WriteString(strings.TrimSpace(hotelSummary))
	b.WriteString("\n\nFormato de la respuesta:\n")
	fmt.Fprintf(&b, "- Organiza el plan día por día, exactamente %d días (Día 1 a Día %d).\n", days, days)
	b.WriteString("- Divide cada día en mañana, tarde y noche.\n")
	b.WriteString("- Resalta en **negrita** los lugares, barrios y restaurantes clave.\n")
	b.WriteString("- No indiques precios exactos; usa solo rangos aproximados.\n")
	if hasHotelOffers(hotelSummary) {
		b.WriteString("- Elige exactamente uno de los hoteles de la lista anterior y justifica brevemente la elección.\n")
	} else {
		b.WriteString("- Recomienda una zona donde alojarse, sin inventar nombres de hoteles concretos.\n")
	}
	b.WriteString("- Responde en español.")

	return b.String()
}
