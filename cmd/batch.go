package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bomadvisor/substitute-cli/internal/bom"
	"github.com/bomadvisor/substitute-cli/internal/history"
)

var (
	batchOutput  string
	batchWorkers int
)

var batchCmd = &cobra.Command{
	Use:   "batch <bom-file>",
	Short: "Recommend substitutes for every component in a BOM file",
	Long:  "Reads a .csv or .xlsx bill of materials, de-duplicates its part numbers, and runs the recommendation pipeline over each one. One part failing never aborts the batch.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newAppEnv()
		if err != nil {
			return err
		}

		components, columns, err := bom.ReadComponents(args[0])
		if err != nil {
			return err
		}
		if len(components) == 0 {
			return eris.New("no components with part numbers found in file")
		}
		zap.L().Info("bom parsed",
			zap.Int("components", len(components)),
			zap.String("mpn_column", columns.MPNColumn),
			zap.String("name_column", columns.NameColumn),
		)

		workers := batchWorkers
		if workers == 0 {
			workers = cfg.Batch.Workers
		}

		processor := bom.NewProcessor(env.advisor, workers)
		result, err := processor.Run(cmd.Context(), components, func(done, total int, mpn string, ok bool) {
			fmt.Fprintf(os.Stderr, "[%d/%d] %s: ok=%v\n", done, total, mpn, ok)
		})
		if err != nil {
			return err
		}
		env.history.Add(history.KindBatch, args[0], result.Succeeded)

		zap.L().Info("batch complete",
			zap.Int("succeeded", result.Succeeded),
			zap.Int("failed", result.Failed),
		)

		out := os.Stdout
		if batchOutput != "" {
			f, err := os.Create(batchOutput)
			if err != nil {
				return eris.Wrap(err, "create output file")
			}
			defer f.Close()
			out = f
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(result)
	},
}

func init() {
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "write results to file instead of stdout")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "concurrent workers (default from config; 1 = sequential)")
	rootCmd.AddCommand(batchCmd)
}
