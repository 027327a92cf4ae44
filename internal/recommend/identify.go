package recommend

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/bomadvisor/substitute-cli/internal/extract"
	"github.com/bomadvisor/substitute-cli/internal/model"
	"github.com/bomadvisor/substitute-cli/pkg/deepseek"
)

// Identify resolves a part number into component info, preferring the
// parts-search database and falling back to the LLM when the database has no
// usable match. ok is false only when the input does not look like a part
// number.
func (a *Advisor) Identify(ctx context.Context, mpn string) (model.ComponentInfo, bool) {
	if !ValidMPN(mpn) {
		return model.ComponentInfo{}, false
	}

	if a.parts != nil {
		part, err := a.parts.FindPart(ctx, mpn)
		if err != nil {
			zap.L().Warn("parts search failed during identify", zap.String("mpn", mpn), zap.Error(err))
		} else if part != nil && len(part.Specs) > 0 {
			return model.ComponentInfo{
				MPN:           part.MPN,
				Manufacturer:  part.Manufacturer,
				Category:      specOr(part.Specs, "category"),
				Package:       specOr(part.Specs, "package"),
				Parameters:    part.Specs,
				Price:         part.Price,
				Status:        part.Status,
				LeadTime:      part.LeadTime,
				PinCompatible: model.Unknown,
			}, true
		}
	}

	return a.identifyViaLLM(ctx, mpn), true
}

// identifyViaLLM asks the LLM to describe the part. Unusable answers still
// produce a fully sentinel-filled record.
func (a *Advisor) identifyViaLLM(ctx context.Context, mpn string) model.ComponentInfo {
	info := model.ComponentInfo{
		MPN:           mpn,
		Manufacturer:  model.Unknown,
		Category:      model.Unknown,
		Package:       model.Unknown,
		Price:         model.Unknown,
		Status:        model.Unknown,
		LeadTime:      model.Unknown,
		PinCompatible: model.Unknown,
	}

	resp, err := a.llm.ChatCompletion(ctx, deepseek.ChatCompletionRequest{
		Messages: []deepseek.Message{
			{Role: "system", Content: identifySystemPrompt},
			{Role: "user", Content: identifyPrompt(mpn)},
		},
		MaxTokens: identifyTokens,
	})
	if err != nil {
		zap.L().Warn("llm identify failed", zap.String("mpn", mpn), zap.Error(err))
		return info
	}

	parsed, ok := extract.ExtractObject(resp.Text())
	if !ok {
		zap.L().Debug("unparsable identify response", zap.String("mpn", mpn))
		return info
	}

	setIfString(parsed, "manufacturer", &info.Manufacturer)
	setIfString(parsed, "category", &info.Category)
	setIfString(parsed, "package", &info.Package)
	setIfString(parsed, "price", &info.Price)
	setIfString(parsed, "status", &info.Status)
	setIfString(parsed, "leadTime", &info.LeadTime)
	setIfString(parsed, "pin_compatible", &info.PinCompatible)

	if params, ok := parsed["parameters"].(map[string]any); ok {
		info.Parameters = make(map[string]string, len(params))
		for k, v := range params {
			if s, ok := v.(string); ok {
				info.Parameters[k] = s
			}
		}
	}
	return info
}

func setIfString(parsed map[string]any, key string, dst *string) {
	if s, ok := parsed[key].(string); ok && s != "" {
		*dst = s
	}
}

func specOr(specs map[string]string, key string) string {
	for k, v := range specs {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return model.Unknown
}
