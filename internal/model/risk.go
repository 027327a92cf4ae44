package model

// RiskLevel is the bounded discontinuation-risk taxonomy.
type RiskLevel string

const (
	RiskHigh    RiskLevel = "high"
	RiskLow     RiskLevel = "low"
	RiskSafe    RiskLevel = "safe"
	RiskUnknown RiskLevel = "unknown"
)

// EOLDiscontinued is the EOL marker used when a part is already out of
// production, in place of a year.
const EOLDiscontinued = "discontinued"

// RiskAssessment is the outcome of the discontinuation-outlook pipeline.
type RiskAssessment struct {
	MPN         string    `json:"mpn"`
	EOL         string    `json:"eol"` // four-digit year, "discontinued", "no plan", or "unknown"
	Level       RiskLevel `json:"risk_level"`
	Description string    `json:"status_description"`
}
