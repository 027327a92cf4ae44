package recommend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bomadvisor/substitute-cli/pkg/deepseek"
)

// Chat streams an answer from the selection-expert persona. history carries
// prior user/assistant turns in order. The returned channel always yields at
// least one delta: a failed call produces a single apologetic message
// instead of an error.
func (a *Advisor) Chat(ctx context.Context, history []deepseek.Message, userInput string) <-chan string {
	messages := make([]deepseek.Message, 0, len(history)+2)
	messages = append(messages, deepseek.Message{Role: "system", Content: chatSystemPrompt})
	messages = append(messages, history...)
	messages = append(messages, deepseek.Message{Role: "user", Content: userInput})

	deltas, err := a.llm.StreamChatCompletion(ctx, deepseek.ChatCompletionRequest{
		Messages:  messages,
		MaxTokens: chatMaxTokens,
		Stream:    true,
	})
	if err != nil {
		zap.L().Warn("chat stream failed", zap.Error(err))
		out := make(chan string, 1)
		out <- fmt.Sprintf("很抱歉，我暂时无法回答你的问题。错误信息: %v", err)
		close(out)
		return out
	}
	return deltas
}
