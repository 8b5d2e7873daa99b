package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "framecheck",
	Short: "Framecheck validates tabular data against declarative schemas",
	Long:  `Framecheck checks CSV data against a schema document describing expected column names, dtypes, nullability, uniqueness and value constraints, and reports every violation as a table.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
