package recommend

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/bomadvisor/substitute-cli/pkg/deepseek"
	"github.com/bomadvisor/substitute-cli/pkg/nexar"
)

// stubLLM returns canned responses in call order. Once responses run out it
// keeps returning the last one, or errs if set.
type stubLLM struct {
	responses []string
	err       error
	streamOut []string
	streamErr error

	calls []deepseek.ChatCompletionRequest
}

func (s *stubLLM) ChatCompletion(_ context.Context, req deepseek.ChatCompletionRequest) (*deepseek.ChatCompletionResponse, error) {
	s.calls = append(s.calls, req)
	if s.err != nil {
		return nil, s.err
	}
	idx := len(s.calls) - 1
	if idx >= len(s.responses) {
		if len(s.responses) == 0 {
			return nil, eris.New("stub: no responses configured")
		}
		idx = len(s.responses) - 1
	}
	return &deepseek.ChatCompletionResponse{
		Choices: []deepseek.Choice{{Message: deepseek.Message{Role: "assistant", Content: s.responses[idx]}}},
	}, nil
}

func (s *stubLLM) StreamChatCompletion(_ context.Context, req deepseek.ChatCompletionRequest) (<-chan string, error) {
	s.calls = append(s.calls, req)
	if s.streamErr != nil {
		return nil, s.streamErr
	}
	out := make(chan string, len(s.streamOut))
	for _, d := range s.streamOut {
		out <- d
	}
	close(out)
	return out, nil
}

// userPrompt returns the user-role content of the i-th recorded call.
func (s *stubLLM) userPrompt(i int) string {
	if i >= len(s.calls) {
		return ""
	}
	for _, m := range s.calls[i].Messages {
		if m.Role == "user" {
			return m.Content
		}
	}
	return ""
}

type stubSearcher struct {
	hits      []nexar.Hit
	part      *nexar.PartDetail
	searchErr error
	findErr   error

	searchCalls int
	findCalls   int
}

func (s *stubSearcher) Search(context.Context, string, int) ([]nexar.Hit, error) {
	s.searchCalls++
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.hits, nil
}

func (s *stubSearcher) FindPart(context.Context, string) (*nexar.PartDetail, error) {
	s.findCalls++
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.part, nil
}
