// Package brand decides whether a part's originating brand belongs to the
// domestic (mainland China / Taiwan region) manufacturing base. Pure string
// heuristics over hand-curated tables; classification is best-effort, not
// authoritative.
package brand

import (
	"strings"

	"github.com/bomadvisor/substitute-cli/internal/model"
)

// Classifier matches model and brand strings against the loaded tables.
// The zero value is not usable; construct with New.
type Classifier struct {
	tables Tables
}

// New creates a classifier over the given tables.
func New(tables Tables) *Classifier {
	return &Classifier{tables: tables}
}

// Classify resolves a model/brand pair to domestic or foreign. It is pure,
// deterministic, and total. Without positive evidence of a domestic brand
// the answer is foreign.
func (c *Classifier) Classify(modelName, brandName string) model.SourcingType {
	brandLower := strings.ToLower(strings.TrimSpace(brandName))
	modelLower := strings.ToLower(strings.TrimSpace(modelName))

	// Brand name is the strongest signal when present. Domestic aliases are
	// checked before the foreign table.
	if brandLower != "" {
		if containsAny(brandLower, c.tables.Domestic) {
			return model.SourcingDomestic
		}
		if containsAny(brandLower, c.tables.Foreign) {
			return model.SourcingForeign
		}
	}

	// Model-prefix conventions. A foreign prefix short-circuits.
	if modelLower != "" {
		if hasAnyPrefix(modelLower, c.tables.ForeignPrefixes) {
			return model.SourcingForeign
		}
		if hasAnyPrefix(modelLower, c.tables.DomesticPrefixes) {
			return model.SourcingDomestic
		}
	}

	// Last pass: any alias appearing anywhere in either string.
	combined := modelLower + " " + brandLower
	if containsAny(combined, c.tables.Domestic) {
		return model.SourcingDomestic
	}
	if containsAny(combined, c.tables.Foreign) {
		return model.SourcingForeign
	}

	return model.SourcingForeign
}

// IsDomestic is a convenience wrapper for callers that only need a boolean.
func (c *Classifier) IsDomestic(modelName, brandName string) bool {
	return c.Classify(modelName, brandName) == model.SourcingDomestic
}

func containsAny(s string, aliases []string) bool {
	for _, alias := range aliases {
		if strings.Contains(s, strings.ToLower(alias)) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
