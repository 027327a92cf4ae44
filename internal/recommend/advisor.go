// Package recommend reconciles LLM recommendations with parts-search data
// into a final list of at most three substitute candidates.
package recommend

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bomadvisor/substitute-cli/internal/brand"
	"github.com/bomadvisor/substitute-cli/internal/extract"
	"github.com/bomadvisor/substitute-cli/internal/model"
	"github.com/bomadvisor/substitute-cli/pkg/deepseek"
	"github.com/bomadvisor/substitute-cli/pkg/nexar"
)

const (
	maxAlternatives = 3
	retryAttempts   = 3
	searchLimit     = 10

	primaryMaxTokens = 1000
	retryMaxTokens   = 1000
	identifyTokens   = 500
	riskMaxTokens    = 300
	chatMaxTokens    = 2000
)

var alnumRe = regexp.MustCompile(`[A-Za-z0-9]`)

// Advisor orchestrates the recommendation pipeline. All external calls are
// degraded to empty results; Recommend and AssessRisk never fail.
type Advisor struct {
	llm        deepseek.Client
	parts      nexar.Searcher
	classifier *brand.Classifier
	normalizer *extract.Normalizer
	now        func() time.Time
	demoData   bool
}

// Option configures an Advisor.
type Option func(*Advisor)

// WithClock overrides the time source used for risk derivation.
func WithClock(now func() time.Time) Option {
	return func(a *Advisor) {
		a.now = now
	}
}

// WithDemoData makes Recommend return canned results without touching the
// network.
func WithDemoData(on bool) Option {
	return func(a *Advisor) {
		a.demoData = on
	}
}

// NewAdvisor wires an Advisor from its collaborators. parts may be nil when
// no search credentials are configured; the pipeline then runs without
// external context.
func NewAdvisor(llm deepseek.Client, parts nexar.Searcher, classifier *brand.Classifier, opts ...Option) *Advisor {
	a := &Advisor{
		llm:        llm,
		parts:      parts,
		classifier: classifier,
		normalizer: extract.NewNormalizer(classifier),
		now:        time.Now,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// reconcileState names the steps of the bounded recommendation loop.
type reconcileState int

const (
	stateQueryExternal reconcileState = iota
	statePrimaryLLM
	stateBackfill
	statePolicyCheck
	stateRetryDomestic
	stateFinalize
	stateDone
)

// Recommend runs the full pipeline for one part number and returns at most
// three candidates. It is total: invalid input, network failures, and
// unparsable model output all degrade to a shorter (possibly empty) list.
func (a *Advisor) Recommend(ctx context.Context, q model.PartQuery) []model.CandidateAlternative {
	if !ValidMPN(q.MPN) {
		zap.L().Debug("rejected part number", zap.String("mpn", q.MPN))
		return nil
	}
	var (
		hits    []nexar.Hit
		results []model.CandidateAlternative
	)

	for st := stateQueryExternal; st != stateDone; {
		switch st {
		case stateQueryExternal:
			hits = a.queryExternal(ctx, q.MPN)
			st = statePrimaryLLM

		case statePrimaryLLM:
			prompt := primaryPrompt(q.MPN, q.Name, q.Description, externalContext(hits))
			results = a.askForAlternatives(ctx, q.MPN, advisorSystemPrompt, prompt, primaryMaxTokens)
			st = stateBackfill

		case stateBackfill:
			results = a.backfill(results, hits, q.MPN)
			st = statePolicyCheck

		case statePolicyCheck:
			if len(results) < maxAlternatives || !hasDomestic(results) {
				st = stateRetryDomestic
			} else {
				st = stateFinalize
			}

		case stateRetryDomestic:
			need := maxAlternatives - len(results)
			if need <= 0 {
				need = maxAlternatives
			}
			added := a.retryDomestic(ctx, q.MPN, need)
			for _, alt := range added {
				if len(results) >= maxAlternatives {
					break
				}
				results = append(results, alt)
			}
			if len(added) == 0 {
				results = a.backfill(results, hits, q.MPN)
			}
			st = stateFinalize

		case stateFinalize:
			results = a.finalize(results)
			st = stateDone
		}
	}

	if len(results) == 0 && a.demoData {
		return demoAlternatives(q.MPN)
	}
	return results
}

// RecommendDirect is the single-pass variant used by batch processing: one
// LLM call, no parts-search context, no domestic retry.
func (a *Advisor) RecommendDirect(ctx context.Context, q model.PartQuery) []model.CandidateAlternative {
	if !ValidMPN(q.MPN) {
		return nil
	}

	prompt := primaryPrompt(q.MPN, q.Name, q.Description, "无外部元器件检索数据可用，请直接推荐替代元器件。\n")
	results := a.finalize(a.askForAlternatives(ctx, q.MPN, advisorSystemPrompt, prompt, primaryMaxTokens))
	if len(results) == 0 && a.demoData {
		return demoAlternatives(q.MPN)
	}
	return results
}

// ValidMPN reports whether a string is plausible as a part number: at least
// three characters with at least one alphanumeric.
func ValidMPN(mpn string) bool {
	return len(mpn) >= 3 && alnumRe.MatchString(mpn)
}

func (a *Advisor) queryExternal(ctx context.Context, mpn string) []nexar.Hit {
	if a.parts == nil {
		return nil
	}
	hits, err := a.parts.Search(ctx, mpn, searchLimit)
	if err != nil {
		zap.L().Warn("parts search failed, continuing without external context",
			zap.String("mpn", mpn), zap.Error(err))
		return nil
	}
	return hits
}

// askForAlternatives performs one LLM round trip and turns the reply into
// normalized, self-filtered candidates. Failures yield an empty slice.
func (a *Advisor) askForAlternatives(ctx context.Context, mpn, system, prompt string, maxTokens int) []model.CandidateAlternative {
	resp, err := a.llm.ChatCompletion(ctx, deepseek.ChatCompletionRequest{
		Messages: []deepseek.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		MaxTokens: maxTokens,
	})
	if err != nil {
		zap.L().Warn("llm call failed", zap.String("mpn", mpn), zap.Error(err))
		return nil
	}

	var out []model.CandidateAlternative
	for _, rec := range extract.Extract(resp.Text()) {
		alt := a.normalizer.Normalize(rec)
		if alt.IsSelfMatch(mpn) {
			continue
		}
		out = append(out, alt)
	}
	return out
}

// retryDomestic makes up to retryAttempts LLM calls with the domestic-biased
// prompt, stopping at the first attempt that yields any usable record.
func (a *Advisor) retryDomestic(ctx context.Context, mpn string, need int) []model.CandidateAlternative {
	prompt := retryPrompt(mpn, need)
	for attempt := 1; attempt <= retryAttempts; attempt++ {
		added := a.askForAlternatives(ctx, mpn, advisorSystemPrompt, prompt, retryMaxTokens)
		if len(added) > 0 {
			zap.L().Debug("domestic retry succeeded",
				zap.String("mpn", mpn), zap.Int("attempt", attempt), zap.Int("records", len(added)))
			return added
		}
		zap.L().Debug("domestic retry yielded nothing",
			zap.String("mpn", mpn), zap.Int("attempt", attempt))
	}
	return nil
}

// backfill appends parts-search hits not already recommended until the cap
// is reached.
func (a *Advisor) backfill(results []model.CandidateAlternative, hits []nexar.Hit, mpn string) []model.CandidateAlternative {
	for _, h := range hits {
		if len(results) >= maxAlternatives {
			break
		}
		if strings.EqualFold(h.MPN, mpn) || containsModel(results, h.MPN) {
			continue
		}
		results = append(results, a.normalizer.Normalize(map[string]any{
			"model":     h.MPN,
			"brand":     h.Manufacturer,
			"price":     h.Price,
			"status":    h.Status,
			"lead_time": h.LeadTime,
			"datasheet": h.URL,
		}))
	}
	return results
}

// finalize re-resolves sourcing for late-added records and truncates to the
// cap.
func (a *Advisor) finalize(results []model.CandidateAlternative) []model.CandidateAlternative {
	for i := range results {
		results[i] = a.normalizer.Renormalize(results[i])
	}
	if len(results) > maxAlternatives {
		results = results[:maxAlternatives]
	}
	return results
}

func hasDomestic(results []model.CandidateAlternative) bool {
	for _, r := range results {
		if r.Sourcing == model.SourcingDomestic {
			return true
		}
	}
	return false
}

func containsModel(results []model.CandidateAlternative, mpn string) bool {
	for _, r := range results {
		if strings.EqualFold(r.Model, mpn) {
			return true
		}
	}
	return false
}
