package model

import "strings"

// Unknown is the sentinel used for string fields whose value could not be
// determined from any source.
const Unknown = "unknown"

// PlaceholderDatasheetURL is substituted when a source omits the datasheet
// link; the display layer requires a non-empty URL.
const PlaceholderDatasheetURL = "https://www.example.com/datasheet"

// SourcingType classifies where a part's originating brand manufactures.
type SourcingType string

const (
	SourcingDomestic SourcingType = "domestic"
	SourcingForeign  SourcingType = "foreign"
	// SourcingUnknown is a transient internal state; it must be resolved to
	// domestic or foreign before a record is surfaced to a caller.
	SourcingUnknown SourcingType = "unknown"
)

// PartQuery is the input to a substitution lookup. Only MPN is mandatory;
// Name and Description enrich the LLM prompt context when present.
type PartQuery struct {
	MPN         string `json:"mpn"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// CandidateAlternative is the canonical substitute-part record. Instances are
// constructed only by the normalizer; no other component hands out raw maps.
type CandidateAlternative struct {
	Model         string       `json:"model"`
	Brand         string       `json:"brand"`
	Category      string       `json:"category"` // MCU, LDO, DCDC, sensor, ...
	Package       string       `json:"package"`
	Parameters    string       `json:"parameters"` // free-text key electrical specs
	Sourcing      SourcingType `json:"sourcing_type"`
	Price         string       `json:"price"` // always carries an explicit currency marker
	Status        string       `json:"status"`
	LeadTime      string       `json:"lead_time"`
	PinToPin      bool         `json:"pin_to_pin"`
	Compatibility string       `json:"compatibility_note"`
	DatasheetURL  string       `json:"datasheet_url"`
	ReleaseDate   string       `json:"release_date,omitempty"`
	Lifecycle     string       `json:"lifecycle,omitempty"`
}

// IsSelfMatch reports whether the candidate's model case-insensitively equals
// the queried part number. Such records must never be returned.
func (c CandidateAlternative) IsSelfMatch(mpn string) bool {
	return strings.EqualFold(c.Model, mpn)
}

// ComponentInfo describes a single identified part, assembled from the
// parts-search API or an LLM lookup when the search has no usable hit.
type ComponentInfo struct {
	MPN           string            `json:"mpn"`
	Manufacturer  string            `json:"manufacturer"`
	Category      string            `json:"category"`
	Package       string            `json:"package"`
	Parameters    map[string]string `json:"parameters"`
	Price         string            `json:"price"`
	Status        string            `json:"status"`
	LeadTime      string            `json:"lead_time"`
	PinCompatible string            `json:"pin_compatible"` // "yes", "no", or "unknown"
}
