// internal/domain/catalog/entity.go
package catalog

import "strings"

// Product represents a catalog entry as served by the storefront API.
// "prize" is the unit price field name used throughout the API; prices are
// whole rupees per kilogram.
type Product struct {
	ID              uint     `json:"id"`
	Name            string   `json:"name"`
	Prize           int64    `json:"prize"`
	Details         string   `json:"details"`
	LineDescription string   `json:"line_description"`
	Benefit         string   `json:"benefit"`
	Images          []string `json:"images"`
}

// Benefits splits the comma-separated benefit field into trimmed entries
func (p *Product) Benefits() []string {
	if p.Benefit == "" {
		return nil
	}

	parts := strings.Split(p.Benefit, ",")
	benefits := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			benefits = append(benefits, trimmed)
		}
	}
	return benefits
}
