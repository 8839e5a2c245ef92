package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ferrovm",
	Short: "A toy register VM and assembler",
	Long:  `ferrovm assembles and runs programs for a small register-oriented bytecode machine.`,
}

// Execute runs the root command, exiting with status 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddGroup(&cobra.Group{
		ID:    "vm",
		Title: "VM commands",
	})

	rootCmd.AddCommand(asmCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(replCmd)
}
