package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	var cfgPath string

	rootCmd := &cobra.Command{
		Use:     "daytrack",
		Short:   "Daytrack - local task, streak and calendar tracker",
		Version: Version,
	}
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "daytrack.yml", "path to config file")

	rootCmd.AddCommand(serveCmd(&cfgPath))
	rootCmd.AddCommand(enddayCmd(&cfgPath))
	rootCmd.AddCommand(reportCmd(&cfgPath))
	rootCmd.AddCommand(backupCmd(&cfgPath))
	rootCmd.AddCommand(wipeCmd(&cfgPath))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
