package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bomadvisor/substitute-cli/pkg/deepseek"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive component-selection expert",
	Long:  "Starts a streaming chat session with the selection expert. Type 'exit' or press Ctrl-D to quit.",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newAppEnv()
		if err != nil {
			return err
		}

		var conversation []deepseek.Message
		scanner := bufio.NewScanner(os.Stdin)
		fmt.Println("元器件选型专家已就绪，输入问题开始对话（exit 退出）。")

		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			input := strings.TrimSpace(scanner.Text())
			if input == "" {
				continue
			}
			if input == "exit" || input == "quit" {
				break
			}

			var reply strings.Builder
			for delta := range env.advisor.Chat(cmd.Context(), conversation, input) {
				fmt.Print(delta)
				reply.WriteString(delta)
			}
			fmt.Println()

			conversation = append(conversation,
				deepseek.Message{Role: "user", Content: input},
				deepseek.Message{Role: "assistant", Content: reply.String()},
			)
		}

		return scanner.Err()
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
