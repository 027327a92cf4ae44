package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/bomadvisor/substitute-cli/internal/brand"
	"github.com/bomadvisor/substitute-cli/internal/model"
)

// numericPriceRe matches a bare numeric price or numeric range with no
// currency marker, e.g. "1.8" or "1.8-2.5".
var numericPriceRe = regexp.MustCompile(`^[\d.\-\s]+$`)

// Normalizer turns raw extracted records into CandidateAlternative values.
// It is the only constructor of that type: sentinel defaulting, price
// currency normalization, and sourcing-type resolution all happen here.
type Normalizer struct {
	classifier *brand.Classifier
}

// NewNormalizer creates a normalizer that resolves unknown sourcing types
// through the given classifier.
func NewNormalizer(c *brand.Classifier) *Normalizer {
	return &Normalizer{classifier: c}
}

// Normalize fills missing fields with sentinels, normalizes the price string,
// and resolves the sourcing type. Idempotent: normalizing an already-complete
// record changes nothing.
func (n *Normalizer) Normalize(rec map[string]any) model.CandidateAlternative {
	alt := model.CandidateAlternative{
		Model:         stringField(rec, model.Unknown, "model"),
		Brand:         stringField(rec, model.Unknown, "brand"),
		Category:      stringField(rec, model.Unknown, "category"),
		Package:       stringField(rec, model.Unknown, "package"),
		Parameters:    parametersField(rec),
		Sourcing:      sourcingField(rec),
		Price:         NormalizePrice(stringField(rec, model.Unknown, "price")),
		Status:        stringField(rec, model.Unknown, "status"),
		LeadTime:      stringField(rec, model.Unknown, "lead_time", "leadTime"),
		PinToPin:      boolField(rec, "pin_to_pin", "pinToPin"),
		Compatibility: stringField(rec, model.Unknown, "compatibility_note", "compatibility"),
		DatasheetURL:  stringField(rec, "", "datasheet_url", "datasheet"),
		ReleaseDate:   stringField(rec, "", "release_date", "releaseDate"),
		Lifecycle:     stringField(rec, "", "lifecycle"),
	}

	if alt.DatasheetURL == "" {
		alt.DatasheetURL = model.PlaceholderDatasheetURL
	}

	if alt.Sourcing == model.SourcingUnknown {
		alt.Sourcing = n.classifier.Classify(alt.Model, alt.Brand)
	}

	return alt
}

// Renormalize re-resolves the sourcing type on an already-built record.
// Applied over the full result list at finalize time so records appended
// after the first pass get the same treatment.
func (n *Normalizer) Renormalize(alt model.CandidateAlternative) model.CandidateAlternative {
	if alt.Sourcing == model.SourcingUnknown || alt.Sourcing == "" {
		alt.Sourcing = n.classifier.Classify(alt.Model, alt.Brand)
	}
	alt.Price = NormalizePrice(alt.Price)
	if alt.DatasheetURL == "" {
		alt.DatasheetURL = model.PlaceholderDatasheetURL
	}
	return alt
}

// NormalizePrice injects a currency symbol into bare numeric prices. Each
// side of a hyphenated range gets its own symbol ("1.8-2.5" → "$1.8-$2.5");
// prices already carrying ¥, ￥, or $ are left untouched, as is the unknown
// sentinel and anything that is not purely numeric.
func NormalizePrice(price string) string {
	if price == "" || price == model.Unknown {
		return model.Unknown
	}
	if strings.ContainsAny(price, "¥￥$") {
		return price
	}
	if !numericPriceRe.MatchString(price) {
		return price
	}

	if strings.Contains(price, "-") {
		parts := strings.SplitN(price, "-", 2)
		return fmt.Sprintf("$%s-$%s", strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
	}
	return "$" + strings.TrimSpace(price)
}

func stringField(rec map[string]any, fallback string, keys ...string) string {
	for _, key := range keys {
		if v, ok := rec[key]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return fallback
}

func boolField(rec map[string]any, keys ...string) bool {
	for _, key := range keys {
		switch v := rec[key].(type) {
		case bool:
			return v
		case string:
			lower := strings.ToLower(strings.TrimSpace(v))
			if lower == "true" || lower == "yes" {
				return true
			}
		}
	}
	return false
}

// parametersField accepts either a free-text string or a mapping of spec
// name to value, flattening the mapping into "k: v, k: v" text with sorted
// keys for determinism.
func parametersField(rec map[string]any) string {
	v, ok := rec["parameters"]
	if !ok {
		return model.Unknown
	}

	switch params := v.(type) {
	case string:
		if strings.TrimSpace(params) == "" {
			return model.Unknown
		}
		return strings.TrimSpace(params)
	case map[string]any:
		if len(params) == 0 {
			return model.Unknown
		}
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, fmt.Sprintf("%s: %v", k, params[k]))
		}
		return strings.Join(pairs, ", ")
	default:
		return model.Unknown
	}
}

func sourcingField(rec map[string]any) model.SourcingType {
	raw := stringField(rec, "", "sourcing_type", "sourcing", "type")
	return ParseSourcing(raw)
}

// ParseSourcing maps free-form sourcing wording (either language) onto the
// enum. Anything unrecognized is unknown, pending classification.
func ParseSourcing(raw string) model.SourcingType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "domestic", "国产":
		return model.SourcingDomestic
	case "foreign", "imported", "import", "进口":
		return model.SourcingForeign
	default:
		return model.SourcingUnknown
	}
}
