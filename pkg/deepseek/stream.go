package deepseek

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// streamDone is the SSE terminator payload.
const streamDone = "[DONE]"

// streamChunk is one server-sent event in a streaming completion.
type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// StreamChatCompletion issues a streaming completion and returns a channel of
// incremental text deltas in arrival order. The channel is closed when the
// stream ends, errors, or ctx is cancelled; accumulation is the caller's
// concern. The returned error covers request setup only.
func (c *httpClient) StreamChatCompletion(ctx context.Context, req ChatCompletionRequest) (<-chan string, error) {
	req.Stream = true

	resp, err := c.post(ctx, req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, eris.Errorf("deepseek: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	deltas := make(chan string, 16)
	go func() {
		defer close(deltas)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if payload == streamDone {
				return
			}

			var chunk streamChunk
			if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
				zap.L().Debug("deepseek: skipping malformed stream chunk", zap.Error(err))
				continue
			}
			if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
				continue
			}

			select {
			case deltas <- chunk.Choices[0].Delta.Content:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			zap.L().Warn("deepseek: stream read ended early", zap.Error(err))
		}
	}()

	return deltas, nil
}
