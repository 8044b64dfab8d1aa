package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/refkit/refdup/internal/config"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a refdup repository in the current directory",
	Long: `Initialize a refdup repository in the current directory.

Creates a .refdup directory with empty reference and decision files and a
default configuration.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	if config.IsRepository(cwd) {
		exitWithError(ExitError, "already a refdup repository: %s", cwd)
	}

	if err := os.MkdirAll(config.CachePath(cwd), 0755); err != nil {
		exitWithError(ExitError, "creating repository directories: %v", err)
	}

	if err := config.Default().Save(cwd); err != nil {
		exitWithError(ExitError, "writing config: %v", err)
	}

	for _, path := range []string{config.RefsPath(cwd), config.DecisionsPath(cwd)} {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			exitWithError(ExitError, "creating %s: %v", path, err)
		}
		f.Close()
	}

	if humanOutput {
		fmt.Printf("Initialized refdup repository in %s\n", config.RefdupPath(cwd))
	} else {
		outputJSON(StatusResponse{Status: "initialized", Path: config.RefdupPath(cwd)})
	}
	return nil
}
