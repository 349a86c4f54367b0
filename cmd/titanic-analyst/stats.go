package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datacation/titanic-analyst/internal/dataset"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print headline statistics for the dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		insp, err := openInspector(ctx)
		if err != nil {
			return err
		}
		defer insp.Close()

		count, err := insp.PassengerCount(ctx)
		if err != nil {
			return err
		}
		rate, err := insp.SurvivalRate(ctx)
		if err != nil {
			return err
		}
		avgAge, err := insp.AverageAge(ctx)
		if err != nil {
			return err
		}
		dist, err := insp.ClassDistribution(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Passengers:         %d\n", count)
		fmt.Printf("Survival rate:      %.1f%%\n", rate)
		fmt.Printf("Average age:        %.1f\n", avgAge)
		fmt.Printf("Class distribution: %s\n", dataset.ClassDistributionString(dist))
		return nil
	},
}
