package categorizer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dvloznov/finanzas-demo/internal/domain"
)

const promptRules = `Reglas:
- Los conceptos con importe positivo que parezcan nóminas, transferencias recibidas
  o ingresos → categoría "Ingresos".
- Alquiler, hipoteca, comunidad de vecinos → "Vivienda".
- Supermercados (Mercadona, Carrefour, Lidl, Aldi…) → "Supermercado".
- Bares, restaurantes, delivery (Glovo, Uber Eats, Just Eat) → "Restaurantes".
- Cine, juegos, entretenimiento, Amazon compras discrecionales → "Ocio".
- Gasolineras, transporte público, taxis, peajes → "Transporte".
- Luz, gas, agua, teléfono, internet → "Suministros".
- Farmacias, médicos, seguros de salud, gimnasio → "Salud".
- Netflix, Spotify, Adobe, Microsoft 365, subscripciones recurrentes → "Suscripciones".
- Si no encaja en ninguna categoría → "Otros".

Recibirás un array JSON con objetos {"id": N, "concepto": "..."}.
Responde SOLO con un array JSON de objetos {"id": N, "categoria": "..."}.
Sin texto adicional, sin bloques de código, solo el JSON puro.`

// SystemPrompt is the instruction sent with every batch.
var SystemPrompt = buildSystemPrompt()

func buildSystemPrompt() string {
	names, _ := json.Marshal(domain.CategoryNames())
	return fmt.Sprintf("Eres un clasificador bancario. Tu única tarea es asignar cada concepto bancario\n"+
		"a UNA de estas categorías exactas (respeta mayúsculas/minúsculas):\n\n%s\n\n%s", names, promptRules)
}

// Item is one transaction as presented to the model.
type Item struct {
	ID          int    `json:"id"`
	Description string `json:"concepto"`
}

// buildUserPrompt encodes a batch as the JSON array the model receives.
func buildUserPrompt(batch []Item) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(batch); err != nil {
		return "", fmt.Errorf("buildUserPrompt: marshal batch: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
