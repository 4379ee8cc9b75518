/*
Copyright © 2025 The ykneobtc Authors

Package cmd implements all CLI commands for ykneobtc using the Cobra
library.

This package provides:
  - get-pub: Derive and print a sub key's public key
  - sign: Sign a 32-byte digest with a derived sub key
  - set-pin: Change the user or admin PIN
  - generate/import/export: Master key pair management
  - reset-user-pin, retries: PIN administration
  - header, status: Card inspection
  - shell: Interactive session driving the same commands
  - version: Display version information

All card operations go through the ykneo package, which speaks the
ykneo-bitcoin applet protocol over PC/SC.
*/
package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands.
// It serves as the parent for all ykneobtc subcommands and defines
// global flags that are inherited by child commands. Invoked bare, it
// starts the interactive shell, matching how the original tool worked.
var rootCmd = &cobra.Command{
	Use:   "ykneobtc",
	Short: "Manage the BIP32 key on a YubiKey NEO's ykneo-bitcoin applet",
	Long: `ykneobtc manages the BIP32 extended key pair stored by the
ykneo-bitcoin applet on a YubiKey NEO.

The applet holds a single extended master key pair and derives sub keys
on demand. Signing and public key derivation require the user PIN; key
pair generation, import, export and PIN resets require the admin PIN.
PIN retry counters live on the card: after the configured number of
wrong attempts a PIN is blocked.

Quick usage:
  ykneobtc                       # Interactive shell
  ykneobtc generate -e           # Create a master key pair (admin PIN)
  ykneobtc get-pub m/0/7         # Print the public key of sub key m/0/7
  ykneobtc sign m/0/7 <digest>   # Sign a 32-byte digest (hex)
  ykneobtc export                # Print the extended public key`,
	Run: runShell,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// If an error occurs during command execution, the program exits with status code 1.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// init registers global flags and wires up configuration handling.
// The --reader flag is a regular expression matched against PC/SC
// reader names; it can also come from the YKNEOBTC_READER environment
// variable or a ~/.ykneobtc.yaml config file.
func init() {
	cobra.OnInitialize(initConfig)

	// Global flags - available to all subcommands
	rootCmd.PersistentFlags().StringP("reader", "r", "", "PC/SC reader name regexp (default: any YubiKey NEO)")
	_ = viper.BindPFlag("reader", rootCmd.PersistentFlags().Lookup("reader"))
}

// initConfig loads defaults from ~/.ykneobtc.yaml and the environment.
// Missing config files are fine; anything else (e.g. malformed YAML)
// is reported.
func initConfig() {
	home, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".ykneobtc")
	}

	viper.SetEnvPrefix("ykneobtc")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			ExitWithError(err)
		}
	}
}
