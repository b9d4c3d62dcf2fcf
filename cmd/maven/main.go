package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"maven/internal/interfaces/cli/migrate"
	"maven/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "maven",
		Short: "Maven authentication and authorization service",
		Long:  `Maven serves account, session, and content permission APIs for the reader backend.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
