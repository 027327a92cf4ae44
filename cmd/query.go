package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bomadvisor/substitute-cli/internal/history"
	"github.com/bomadvisor/substitute-cli/internal/model"
)

var (
	queryName string
	queryDesc string
)

var queryCmd = &cobra.Command{
	Use:   "query <mpn>",
	Short: "Recommend up to three substitutes for a part number",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newAppEnv()
		if err != nil {
			return err
		}

		q := model.PartQuery{MPN: args[0], Name: queryName, Description: queryDesc}
		alternatives := env.advisor.Recommend(cmd.Context(), q)
		env.history.Add(history.KindRecommend, q.MPN, len(alternatives))

		if len(alternatives) == 0 {
			zap.L().Warn("no substitutes found", zap.String("mpn", q.MPN))
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(alternatives)
	},
}

func init() {
	queryCmd.Flags().StringVar(&queryName, "name", "", "component name hint")
	queryCmd.Flags().StringVar(&queryDesc, "description", "", "component description hint")
	rootCmd.AddCommand(queryCmd)
}
