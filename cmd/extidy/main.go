package main

import (
	"errors"
	"fmt"
	"os"

	"extidy/internal/cmd"
	appErrors "extidy/internal/errors"
)

// Version is injected at build time via -ldflags
var Version = "dev"

func main() {
	rootCmd := cmd.NewRootCommand(Version)
	rootCmd.SilenceErrors = true

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, cmd.ErrFilesFailed) {
			fmt.Fprintln(os.Stderr, appErrors.UserMessage(err))
		}
		os.Exit(1)
	}
}
