package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/bomadvisor/substitute-cli/internal/history"
	"github.com/bomadvisor/substitute-cli/internal/model"
)

var (
	assessName string
	assessDesc string
)

var assessCmd = &cobra.Command{
	Use:   "assess <mpn>",
	Short: "Assess a part's discontinuation risk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newAppEnv()
		if err != nil {
			return err
		}

		q := model.PartQuery{MPN: args[0], Name: assessName, Description: assessDesc}
		assessment := env.advisor.AssessRisk(cmd.Context(), q)
		env.history.Add(history.KindAssess, q.MPN, 1)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(assessment)
	},
}

func init() {
	assessCmd.Flags().StringVar(&assessName, "name", "", "component name hint")
	assessCmd.Flags().StringVar(&assessDesc, "description", "", "component description hint")
	rootCmd.AddCommand(assessCmd)
}
