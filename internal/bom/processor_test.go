package bom

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bomadvisor/substitute-cli/internal/model"
)

// scriptedRecommender returns per-MPN answer sequences, one per attempt.
type scriptedRecommender struct {
	mu       sync.Mutex
	answers  map[string][][]model.CandidateAlternative
	attempts map[string]int
}

func newScripted() *scriptedRecommender {
	return &scriptedRecommender{
		answers:  make(map[string][][]model.CandidateAlternative),
		attempts: make(map[string]int),
	}
}

func (s *scriptedRecommender) RecommendDirect(_ context.Context, q model.PartQuery) []model.CandidateAlternative {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.attempts[q.MPN]
	s.attempts[q.MPN] = n + 1
	seq := s.answers[q.MPN]
	if n < len(seq) {
		return seq[n]
	}
	return nil
}

func alts(models ...string) []model.CandidateAlternative {
	out := make([]model.CandidateAlternative, len(models))
	for i, m := range models {
		out[i] = model.CandidateAlternative{Model: m}
	}
	return out
}

func TestProcessorSequentialCounters(t *testing.T) {
	rec := newScripted()
	rec.answers["A1"] = [][]model.CandidateAlternative{alts("X1")}
	// B2 has no answers and exhausts all attempts

	var progressed []string
	p := NewProcessor(rec, 1)
	out, err := p.Run(context.Background(), []model.PartQuery{{MPN: "A1"}, {MPN: "B2"}},
		func(done, total int, mpn string, ok bool) {
			progressed = append(progressed, mpn)
			assert.Equal(t, 2, total)
		})

	require.NoError(t, err)
	assert.Equal(t, 1, out.Succeeded)
	assert.Equal(t, 1, out.Failed)
	assert.Equal(t, []string{"A1", "B2"}, progressed)
	assert.Equal(t, 1, rec.attempts["A1"])
	assert.Equal(t, perPartAttempts, rec.attempts["B2"])
	assert.Empty(t, out.Results["B2"].Alternatives)
}

func TestProcessorRetriesUntilNonEmpty(t *testing.T) {
	rec := newScripted()
	rec.answers["A1"] = [][]model.CandidateAlternative{nil, alts("X1", "X2")}

	p := NewProcessor(rec, 1)
	out, err := p.Run(context.Background(), []model.PartQuery{{MPN: "A1"}}, nil)

	require.NoError(t, err)
	assert.Equal(t, 2, rec.attempts["A1"])
	assert.Len(t, out.Results["A1"].Alternatives, 2)
}

func TestProcessorOneFailureDoesNotAbort(t *testing.T) {
	rec := newScripted()
	rec.answers["GOOD"] = [][]model.CandidateAlternative{alts("X1")}

	p := NewProcessor(rec, 1)
	out, err := p.Run(context.Background(), []model.PartQuery{{MPN: "BAD"}, {MPN: "GOOD"}}, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, out.Succeeded)
	assert.Equal(t, 1, out.Failed)
	require.Contains(t, out.Results, "GOOD")
	assert.Len(t, out.Results["GOOD"].Alternatives, 1)
}

func TestProcessorWorkerPool(t *testing.T) {
	rec := newScripted()
	queries := make([]model.PartQuery, 0, 8)
	for _, m := range []string{"U1", "U2", "U3", "U4", "U5", "U6", "U7", "U8"} {
		rec.answers[m] = [][]model.CandidateAlternative{alts(m + "-alt")}
		queries = append(queries, model.PartQuery{MPN: m})
	}

	var (
		mu    sync.Mutex
		calls int
	)
	p := NewProcessor(rec, 4)
	out, err := p.Run(context.Background(), queries, func(done, total int, mpn string, ok bool) {
		mu.Lock()
		calls++
		mu.Unlock()
		assert.True(t, ok)
	})

	require.NoError(t, err)
	assert.Equal(t, 8, out.Succeeded)
	assert.Equal(t, 0, out.Failed)
	assert.Equal(t, 8, calls)
	assert.Len(t, out.Results, 8)
}

func TestProcessorContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewProcessor(newScripted(), 1)
	_, err := p.Run(ctx, []model.PartQuery{{MPN: "A1"}}, nil)
	require.Error(t, err)
}
