// Package dispatch turns a priced cart into webhook envelopes and
// delivers them sequentially to the configured endpoint.
package dispatch

import (
	"fmt"

	"github.com/drcalc/drcalc-backend/internal/cart"
	"github.com/drcalc/drcalc-backend/pkg/enums"
)

const (
	// embedColor is the gold accent used on every outgoing embed.
	embedColor = 0xD4AF37

	// maxFieldsPerEmbed caps line-item fields per chunk. The grand
	// total field is appended after chunking, so the last embed may
	// carry one extra field.
	maxFieldsPerEmbed = 20
)

// Field is one name/value pair inside an embed.
type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// Embed is the rich-message body of one envelope.
type Embed struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Color       int     `json:"color"`
	Fields      []Field `json:"fields,omitempty"`
}

// Envelope is one webhook POST body. Each envelope carries exactly one
// embed; multi-chunk orders become multiple sequential envelopes.
type Envelope struct {
	Content string  `json:"content"`
	Embeds  []Embed `json:"embeds"`
}

// BuildEnvelopes renders the order message for a mode. An empty cart
// yields a single envelope with a notice and no fields. Larger carts
// are chunked; only the final chunk carries the grand total.
func BuildEnvelopes(mode enums.OperationMode, operator string, summary cart.Summary, lines []cart.LineItem) []Envelope {
	title := fmt.Sprintf("Potion order: %s", mode.Label())
	description := fmt.Sprintf("Operation: %s", mode.Label())
	if operator != "" {
		description += fmt.Sprintf("\nOperator: %s", operator)
	}

	if len(lines) == 0 {
		return []Envelope{{
			Embeds: []Embed{{
				Title:       title,
				Description: description + "\nThe cart is empty.",
				Color:       embedColor,
			}},
		}}
	}

	cur := summary.Currency
	fields := make([]Field, 0, len(lines))
	for _, item := range lines {
		fields = append(fields, Field{
			Name: item.Potion.Name,
			Value: fmt.Sprintf("Unit price: %d %s\nQuantity: %d\nSubtotal: %d %s",
				item.Potion.Price, cur, item.Quantity, item.Subtotal, cur),
		})
	}

	chunks := make([][]Field, 0, (len(fields)+maxFieldsPerEmbed-1)/maxFieldsPerEmbed)
	for start := 0; start < len(fields); start += maxFieldsPerEmbed {
		end := start + maxFieldsPerEmbed
		if end > len(fields) {
			end = len(fields)
		}
		chunks = append(chunks, fields[start:end])
	}

	total := Field{
		Name:  "Grand total",
		Value: fmt.Sprintf("%d %s", summary.Total, summary.Currency),
	}
	last := len(chunks) - 1
	chunks[last] = append(chunks[last][:len(chunks[last]):len(chunks[last])], total)

	out := make([]Envelope, 0, len(chunks))
	for i, chunk := range chunks {
		chunkTitle := title
		if len(chunks) > 1 {
			chunkTitle = fmt.Sprintf("%s (Part %d/%d)", title, i+1, len(chunks))
		}
		out = append(out, Envelope{
			Embeds: []Embed{{
				Title:       chunkTitle,
				Description: description,
				Color:       embedColor,
				Fields:      chunk,
			}},
		})
	}
	return out
}
