package nexar

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

const unknown = "unknown"

// parseSimilarParts walks data.supSearchMpn.results[*].part.similarParts.
// Missing or wrongly typed levels anywhere in the chain give an empty slice.
func parseSimilarParts(body []byte) []Hit {
	results := gjson.GetBytes(body, "data.supSearchMpn.results")
	if !results.IsArray() {
		return nil
	}

	var hits []Hit
	for _, res := range results.Array() {
		similar := res.Get("part.similarParts")
		if !similar.IsArray() {
			continue
		}
		for _, sp := range similar.Array() {
			mpn := sp.Get("mpn").String()
			if mpn == "" {
				continue
			}
			hits = append(hits, Hit{
				MPN:          mpn,
				Name:         stringOr(sp.Get("name"), mpn),
				Manufacturer: stringOr(sp.Get("manufacturer.name"), unknown),
				Price:        formatPrice(sp.Get("medianPrice1000")),
				Status:       lifecycleStatus(sp),
				LeadTime:     formatLeadDays(sp.Get("estimatedFactoryLeadDays")),
				URL:          sp.Get("octopartUrl").String(),
			})
		}
	}
	return hits
}

// parseFirstPart pulls the first direct match out of the search response.
func parseFirstPart(body []byte) *PartDetail {
	results := gjson.GetBytes(body, "data.supSearchMpn.results")
	if !results.IsArray() {
		return nil
	}
	for _, res := range results.Array() {
		part := res.Get("part")
		mpn := part.Get("mpn").String()
		if mpn == "" {
			continue
		}
		return &PartDetail{
			MPN:          mpn,
			Manufacturer: stringOr(part.Get("manufacturer.name"), unknown),
			Specs:        parseSpecs(part.Get("specs")),
			Price:        formatPrice(part.Get("medianPrice1000")),
			Status:       lifecycleStatus(part),
			LeadTime:     formatLeadDays(part.Get("estimatedFactoryLeadDays")),
		}
	}
	return nil
}

func parseSpecs(specs gjson.Result) map[string]string {
	if !specs.IsArray() {
		return nil
	}
	out := make(map[string]string)
	for _, s := range specs.Array() {
		name := s.Get("attribute.name").String()
		value := s.Get("value").String()
		if name != "" && value != "" {
			out[name] = value
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// lifecycleStatus maps the obsolete flag and lifeCycle string onto a short
// human status. The obsolete flag wins over any lifecycle wording.
func lifecycleStatus(part gjson.Result) string {
	if part.Get("obsolete").Bool() {
		return "discontinued"
	}
	lc := strings.ToUpper(part.Get("lifeCycle").String())
	switch {
	case lc == "":
		return unknown
	case strings.Contains(lc, "OBSOLETE"), strings.Contains(lc, "END OF LIFE"):
		return "discontinued"
	case strings.Contains(lc, "NOT RECOMMENDED"):
		return "not recommended for new designs"
	case strings.Contains(lc, "NEW"), strings.Contains(lc, "INTRO"):
		return "new product"
	case strings.Contains(lc, "ACTIVE"), strings.Contains(lc, "PRODUCTION"):
		return "in production"
	default:
		return strings.ToLower(lc)
	}
}

func formatPrice(median gjson.Result) string {
	price := median.Get("price")
	if !price.Exists() || price.Type != gjson.Number {
		return unknown
	}
	currency := strings.ToUpper(median.Get("currency").String())
	switch currency {
	case "CNY", "RMB":
		return fmt.Sprintf("¥%.4f", price.Float())
	case "USD", "":
		return fmt.Sprintf("$%.4f", price.Float())
	default:
		return fmt.Sprintf("%.4f %s", price.Float(), currency)
	}
}

func formatLeadDays(days gjson.Result) string {
	if !days.Exists() || days.Type != gjson.Number || days.Int() <= 0 {
		return unknown
	}
	return fmt.Sprintf("%d days", days.Int())
}

func stringOr(r gjson.Result, fallback string) string {
	if s := r.String(); s != "" {
		return s
	}
	return fallback
}
