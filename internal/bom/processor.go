package bom

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bomadvisor/substitute-cli/internal/model"
)

const perPartAttempts = 3

// Recommender is the single-part operation the batch driver repeats.
type Recommender interface {
	RecommendDirect(ctx context.Context, q model.PartQuery) []model.CandidateAlternative
}

// PartResult holds the outcome for one component.
type PartResult struct {
	Query        model.PartQuery              `json:"query"`
	Alternatives []model.CandidateAlternative `json:"alternatives"`
}

// BatchResult is the cumulative outcome of a batch run.
type BatchResult struct {
	Results   map[string]PartResult `json:"results"`
	Succeeded int                   `json:"succeeded"`
	Failed    int                   `json:"failed"`
}

// ProgressFunc is called after each component finishes. done counts
// completed components; ok reports whether any alternatives were found.
type ProgressFunc func(done, total int, mpn string, ok bool)

// Processor runs recommendations over a component list. Workers <= 1 keeps
// the original strictly sequential behavior; larger values use a bounded
// pool.
type Processor struct {
	advisor Recommender
	workers int
}

func NewProcessor(advisor Recommender, workers int) *Processor {
	if workers < 1 {
		workers = 1
	}
	return &Processor{advisor: advisor, workers: workers}
}

// Run processes every component. One component yielding nothing, or even
// every component failing, never aborts the batch; the only error source is
// context cancellation.
func (p *Processor) Run(ctx context.Context, components []model.PartQuery, progress ProgressFunc) (*BatchResult, error) {
	out := &BatchResult{Results: make(map[string]PartResult, len(components))}

	if p.workers <= 1 {
		for i, comp := range components {
			if err := ctx.Err(); err != nil {
				return out, err
			}
			res := p.processOne(ctx, comp)
			p.record(out, res)
			if progress != nil {
				progress(i+1, len(components), comp.MPN, len(res.Alternatives) > 0)
			}
		}
		return out, nil
	}

	var (
		mu   sync.Mutex
		done int
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for _, comp := range components {
		comp := comp
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res := p.processOne(ctx, comp)

			mu.Lock()
			p.record(out, res)
			done++
			n := done
			mu.Unlock()

			if progress != nil {
				progress(n, len(components), comp.MPN, len(res.Alternatives) > 0)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}
	return out, nil
}

// processOne retries the single-part pipeline up to perPartAttempts times,
// stopping at the first non-empty answer.
func (p *Processor) processOne(ctx context.Context, comp model.PartQuery) PartResult {
	res := PartResult{Query: comp}
	for attempt := 1; attempt <= perPartAttempts; attempt++ {
		if ctx.Err() != nil {
			return res
		}
		alts := p.advisor.RecommendDirect(ctx, comp)
		if len(alts) > 0 {
			res.Alternatives = alts
			return res
		}
		zap.L().Debug("batch attempt yielded nothing",
			zap.String("mpn", comp.MPN), zap.Int("attempt", attempt))
	}
	return res
}

func (p *Processor) record(out *BatchResult, res PartResult) {
	out.Results[res.Query.MPN] = res
	if len(res.Alternatives) > 0 {
		out.Succeeded++
	} else {
		out.Failed++
	}
}
