package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datacation/titanic-analyst/internal/dataset"
)

var pipelineForce bool

var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Download the Titanic CSV and build the local SQLite database",
	Long: `Fetches the Titanic passenger CSV and converts it into a local SQLite
database. Both steps are idempotent: existing files are reused unless
--force is given. Passenger name columns are dropped during conversion.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pcfg := cfg.Pipeline
		if pipelineForce {
			pcfg.Force = true
		}
		if err := dataset.RunPipeline(cmd.Context(), pcfg); err != nil {
			return err
		}
		fmt.Printf("Dataset ready at %s\n", pcfg.DBPath())
		return nil
	},
}

func init() {
	pipelineCmd.Flags().BoolVar(&pipelineForce, "force", false, "re-download and rebuild even if files exist")
}
