// Package cli provides the command-line interface of the service:
// a serve command hosting the HTTP API and an index command seeding
// the vector store.
package cli

import (
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "medrag",
	Short: "Biomedical retrieval-augmented generation service",
	Long: `medrag indexes open-access biomedical papers into a vector store
and answers clinician questions grounded in the retrieved literature.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "medrag.toml", "path to the TOML config file")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
