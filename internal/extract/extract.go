// Package extract recovers structured candidate-part records from free-form
// LLM output. Models are asked for bare JSON arrays but routinely wrap them
// in prose, code fences, or near-JSON, so parsing cascades through a series
// of progressively more forgiving strategies. Extraction never fails: total
// garbage degrades to an empty result.
package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

var (
	fencedBlockRe = regexp.MustCompile("```(?:json)?\\s*\\n?([\\s\\S]*?)\\n?```")
	bareArrayRe   = regexp.MustCompile(`(?s)\[\s*\{.*\}\s*\]`)
	modelArrayRe  = regexp.MustCompile(`(?s)\[\s*\{\s*"model"\s*:.*?\}\s*\]`)

	trailingCommaObjRe = regexp.MustCompile(`",\s*\}`)
	trailingCommaArrRe = regexp.MustCompile(`,\s*\]`)
)

// Extract recovers a list of candidate records from raw LLM text. Elements
// that are not JSON objects are discarded. When the text clearly talks about
// parts but no JSON is recoverable, a single placeholder record flagged
// "unparsed" is returned so callers always receive a non-exception outcome.
func Extract(raw string) []map[string]any {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	// Strategy 1: the whole payload is the array.
	if recs, ok := tryParseArray(raw); ok {
		return recs
	}

	// Strategy 2: array inside a fenced code block.
	if m := fencedBlockRe.FindStringSubmatch(raw); m != nil {
		if recs, ok := tryParseArray(strings.TrimSpace(m[1])); ok {
			return recs
		}
	}

	// Strategy 3: first [ { ... } ]-shaped substring, greedy across newlines.
	if frag := bareArrayRe.FindString(raw); frag != "" {
		if recs, ok := tryParseArray(frag); ok {
			return recs
		}
	}

	// Strategy 4: accumulate lines from the first "["-prefixed line through
	// the first "]"-suffixed line.
	if frag := accumulateArrayLines(raw); frag != "" {
		if recs, ok := tryParseArray(frag); ok {
			return recs
		}
	}

	// Strategy 5: fragments anchored on a "model": key.
	for _, frag := range modelArrayRe.FindAllString(raw, -1) {
		if recs, ok := tryParseArray(frag); ok {
			return recs
		}
	}

	// Strategy 6: textual repair heuristics, re-parsing after each.
	for _, repair := range []func(string) string{
		func(s string) string { return strings.ReplaceAll(s, "'", `"`) },
		func(s string) string { return trailingCommaObjRe.ReplaceAllString(s, `"}`) },
		func(s string) string { return trailingCommaArrRe.ReplaceAllString(s, `]`) },
	} {
		if recs, ok := tryParseArray(repair(raw)); ok {
			return recs
		}
	}

	// Strategy 7: the reply discusses parts but carries no parseable JSON.
	if mentionsPartsContent(raw) {
		zap.L().Warn("extract: no parseable JSON in model output, synthesizing placeholder")
		return []map[string]any{{
			"model":      "unknown",
			"parameters": "response could not be parsed; inspect the raw model output",
			"unparsed":   true,
		}}
	}

	zap.L().Warn("extract: no JSON array recoverable from model output",
		zap.Int("length", len(raw)),
	)
	return nil
}

// ExtractObject recovers a single JSON object from raw text: a direct parse
// first, then the substring from the first "{" to the last "}". Used for
// single-record replies (risk assessment, component lookup).
func ExtractObject(raw string) (map[string]any, bool) {
	if obj, ok := tryParseObject(raw); ok {
		return obj, true
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, false
	}
	return tryParseObject(raw[start : end+1])
}

// tryParseArray parses s as a top-level JSON array, keeping only elements
// that are objects.
func tryParseArray(s string) ([]map[string]any, bool) {
	var parsed []any
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &parsed); err != nil {
		return nil, false
	}

	recs := make([]map[string]any, 0, len(parsed))
	for _, el := range parsed {
		if rec, ok := el.(map[string]any); ok {
			recs = append(recs, rec)
		}
	}
	return recs, true
}

func tryParseObject(s string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &obj); err != nil {
		return nil, false
	}
	return obj, true
}

func accumulateArrayLines(raw string) string {
	var b strings.Builder
	inArray := false
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "[") {
			inArray = true
		}
		if inArray {
			b.WriteString(line)
		}
		if inArray && strings.HasSuffix(line, "]") {
			break
		}
	}
	return b.String()
}

// mentionsPartsContent reports whether the text looks like a substitution
// answer in either language, despite carrying no parseable structure.
func mentionsPartsContent(raw string) bool {
	lower := strings.ToLower(raw)
	hasModel := strings.Contains(lower, "model") || strings.Contains(raw, "型号")
	hasSourcing := strings.Contains(lower, "domestic") || strings.Contains(lower, "imported") ||
		strings.Contains(raw, "国产") || strings.Contains(raw, "进口")
	return hasModel && hasSourcing
}
