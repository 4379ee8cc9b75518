/*
Copyright © 2025 The ykneobtc Authors

version.go implements the 'version' command.

This command displays version information for ykneobtc, including:
  - Semantic version number
  - Git commit hash
  - Build timestamp
  - Go compiler version

Version information is embedded at build time via ldflags:

	go build -ldflags "-X ykneobtc/cmd.Version=1.0.0 \
	                   -X ykneobtc/cmd.GitCommit=$(git rev-parse HEAD) \
	                   -X ykneobtc/cmd.BuildTime=$(date -Iseconds) \
	                   -X ykneobtc/cmd.GoVersion=$(go version)"
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// versionCmd represents the 'version' command.
// It displays build and version information for ykneobtc.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long:  `Print the version information for ykneobtc.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("ykneobtc - YubiKey NEO bitcoin key manager")
		fmt.Printf("Version:    %s\n", Version)
		fmt.Printf("Git Commit: %s\n", GitCommit)
		fmt.Printf("Built:      %s\n", BuildTime)
		fmt.Printf("Go Version: %s\n", GoVersion)
	},
}

// init registers the 'version' command with the root command.
func init() {
	rootCmd.AddCommand(versionCmd)
}
