package recommend

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bomadvisor/substitute-cli/internal/extract"
	"github.com/bomadvisor/substitute-cli/internal/model"
	"github.com/bomadvisor/substitute-cli/pkg/deepseek"
)

// Risk window thresholds in months until the declared end-of-life date.
const (
	highRiskMonths = 12
	lowRiskMonths  = 60
)

// AssessRisk asks the LLM for a part's discontinuation outlook and maps the
// answer onto a risk level. It never fails: LLM or parse errors yield an
// UNKNOWN assessment carrying the error text.
func (a *Advisor) AssessRisk(ctx context.Context, q model.PartQuery) model.RiskAssessment {
	out := model.RiskAssessment{
		MPN:   q.MPN,
		EOL:   model.Unknown,
		Level: model.RiskUnknown,
	}
	if !ValidMPN(q.MPN) {
		out.Description = "not recognized as a component"
		return out
	}

	resp, err := a.llm.ChatCompletion(ctx, deepseek.ChatCompletionRequest{
		Messages: []deepseek.Message{
			{Role: "system", Content: riskSystemPrompt},
			{Role: "user", Content: riskPrompt(q.MPN, q.Name, q.Description)},
		},
		MaxTokens: riskMaxTokens,
	})
	if err != nil {
		zap.L().Warn("risk assessment llm call failed", zap.String("mpn", q.MPN), zap.Error(err))
		out.Description = err.Error()
		return out
	}

	parsed, ok := extract.ExtractObject(resp.Text())
	if !ok {
		out.Description = "unparsable risk response"
		return out
	}

	status, _ := parsed["status"].(string)
	eol := eolValue(parsed["eol"])
	out.Level, out.EOL, out.Description = deriveRisk(status, eol, a.now())
	return out
}

// deriveRisk maps a status/EOL pair onto a risk level relative to now.
func deriveRisk(status, eol string, now time.Time) (model.RiskLevel, string, string) {
	if isDiscontinued(status) || isDiscontinued(eol) {
		return model.RiskHigh, model.EOLDiscontinued, "part is discontinued"
	}

	if year, ok := parseYear(eol); ok {
		months := monthsUntilYearEnd(now, year)
		desc := fmt.Sprintf("end of life declared for %d (%d months away)", year, months)
		switch {
		case months <= highRiskMonths:
			return model.RiskHigh, strconv.Itoa(year), desc
		case months <= lowRiskMonths:
			return model.RiskLow, strconv.Itoa(year), desc
		default:
			return model.RiskSafe, strconv.Itoa(year), desc
		}
	}

	if isNoPlan(eol) {
		return model.RiskSafe, "no plan", "no end of life planned"
	}

	return model.RiskUnknown, model.Unknown, "lifecycle status could not be determined"
}

// monthsUntilYearEnd counts whole calendar months from now to Dec 31 of the
// given year.
func monthsUntilYearEnd(now time.Time, year int) int {
	return (year-now.Year())*12 + int(time.December) - int(now.Month())
}

func eolValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.Itoa(int(t))
	default:
		return ""
	}
}

func isDiscontinued(s string) bool {
	s = strings.ToLower(s)
	return strings.Contains(s, "discontinued") || strings.Contains(s, "已停产") || strings.Contains(s, "停产")
}

func isNoPlan(s string) bool {
	s = strings.ToLower(s)
	return strings.Contains(s, "no plan") || strings.Contains(s, "无") || s == "none"
}

// parseYear accepts "2027" or strings containing a plausible 4-digit year.
func parseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if y, err := strconv.Atoi(s); err == nil && y >= 1970 && y <= 2200 {
		return y, true
	}
	for i := 0; i+4 <= len(s); i++ {
		if y, err := strconv.Atoi(s[i : i+4]); err == nil && y >= 1970 && y <= 2200 {
			return y, true
		}
	}
	return 0, false
}
