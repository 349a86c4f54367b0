package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the dataset table schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		insp, err := openInspector(cmd.Context())
		if err != nil {
			return err
		}
		defer insp.Close()

		desc, err := insp.SchemaDescription(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(desc)
		return nil
	},
}
