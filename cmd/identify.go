package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/bomadvisor/substitute-cli/internal/history"
)

var identifyCmd = &cobra.Command{
	Use:   "identify <mpn>",
	Short: "Look up component details for a part number",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newAppEnv()
		if err != nil {
			return err
		}

		info, ok := env.advisor.Identify(cmd.Context(), args[0])
		if !ok {
			return eris.Errorf("%q is not recognized as a component part number", args[0])
		}
		env.history.Add(history.KindIdentify, args[0], 1)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(info)
	},
}

func init() {
	rootCmd.AddCommand(identifyCmd)
}
