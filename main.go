/*
Copyright © 2025 The ykneobtc Authors

ykneobtc - command-line manager for the ykneo-bitcoin applet

This is the main entry point for the ykneobtc command-line tool.
ykneobtc talks to the ykneo-bitcoin applet on a YubiKey NEO over
PC/SC and exposes its BIP32 key-management operations: deriving
public keys, signing digests, PIN management and master key pair
generation, import and export.

Security model:
  - The extended master key pair never leaves the secure element
    (unless generated or imported with export explicitly allowed)
  - Signing and public key derivation require the user PIN
  - Key pair generation, import, export and PIN resets require the
    admin PIN
  - PIN retry counters are enforced on-card; this tool only surfaces
    the remaining attempts
*/
package main

import "ykneobtc/cmd"

// main is the entry point for the ykneobtc application.
// It delegates all command handling to the cmd package which uses
// the Cobra library for CLI argument parsing and command execution.
func main() {
	cmd.Execute()
}
