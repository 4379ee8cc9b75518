/*
Copyright © 2025 The ykneobtc Authors

shell.go implements the interactive shell.

The shell opens one card session and dispatches lines to the same
handlers the one-shot subcommands use, so PIN unlocks persist across
commands. Per-line flags are parsed with pflag FlagSets in
ContinueOnError mode: a bad line aborts only that command, never the
session. A blocked PIN ends the session, matching the retry semantics
of the one-shot commands.
*/
package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"ykneobtc/ykneo"
)

// shellCmd represents the 'shell' command. The root command also runs
// the shell when invoked without a subcommand.
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive session with the card",
	Long: `Start an interactive session with the card.

The card is opened once; PIN unlocks stay valid for the whole session.
Commands use the classic underscore names (get_pub, set_pin, ...).
Type 'help' for the command list and 'exit' to leave.`,
	Args: cobra.NoArgs,
	Run:  runShell,
}

// init registers the 'shell' command.
func init() {
	rootCmd.AddCommand(shellCmd)
}

// runShell opens the card and hands control to the REPL.
func runShell(cmd *cobra.Command, args []string) {
	k, closeFn, err := OpenKey(cmd)
	if err != nil {
		ExitWithClassifiedError(err)
	}
	defer closeFn()

	fmt.Printf("ykneo-bitcoin applet %s (key loaded: %v). Type 'help' for commands.\n",
		k.Version(), k.KeyLoaded())

	if fatal := repl(k, os.Stdin, os.Stdout); fatal != nil {
		closeFn()
		ExitWithClassifiedError(fatal)
	}
}

// shellCommand binds a REPL command name to its flag parsing and
// handler.
type shellCommand struct {
	usage string
	short string
	run   func(k *ykneo.Key, args []string) error
}

// shellCommands maps REPL command names to handlers. The names follow
// the original tool's underscore convention.
func shellCommands() map[string]shellCommand {
	return map[string]shellCommand{
		"get_pub": {
			usage: "get_pub [-c] [--fingerprint] <path>",
			short: "print the public key of a sub key",
			run: func(k *ykneo.Key, args []string) error {
				fs := newShellFlags("get_pub")
				compressed := fs.BoolP("compressed", "c", false, "")
				fingerprint := fs.Bool("fingerprint", false, "")
				if err := fs.Parse(args); err != nil {
					return err
				}
				if fs.NArg() != 1 {
					return usageError("get_pub [-c] [--fingerprint] <path>")
				}
				return doGetPub(k, fs.Arg(0), *compressed, *fingerprint)
			},
		},
		"sign": {
			usage: "sign [--verify] <path> <digest-hex>",
			short: "sign a 32-byte digest",
			run: func(k *ykneo.Key, args []string) error {
				fs := newShellFlags("sign")
				verify := fs.Bool("verify", false, "")
				if err := fs.Parse(args); err != nil {
					return err
				}
				if fs.NArg() != 2 {
					return usageError("sign [--verify] <path> <digest-hex>")
				}
				return doSign(k, fs.Arg(0), fs.Arg(1), *verify)
			},
		},
		"set_pin": {
			usage: "set_pin [-a]",
			short: "change the user (or admin) PIN",
			run: func(k *ykneo.Key, args []string) error {
				fs := newShellFlags("set_pin")
				admin := fs.BoolP("admin", "a", false, "")
				if err := fs.Parse(args); err != nil {
					return err
				}
				if fs.NArg() != 0 {
					return usageError("set_pin [-a]")
				}
				return doSetPin(k, *admin)
			},
		},
		"generate": {
			usage: "generate [-e] [-p] [-t]",
			short: "generate a master key pair on the card",
			run: func(k *ykneo.Key, args []string) error {
				fs := newShellFlags("generate")
				allowExport := fs.BoolP("allow-export", "e", false, "")
				returnPrivate := fs.BoolP("return-private", "p", false, "")
				testnet := fs.BoolP("testnet", "t", false, "")
				if err := fs.Parse(args); err != nil {
					return err
				}
				if fs.NArg() != 0 {
					return usageError("generate [-e] [-p] [-t]")
				}
				return doGenerate(k, *allowExport, *returnPrivate, *testnet)
			},
		},
		"import": {
			usage: "import [-e] <serialized-key-hex>",
			short: "load an extended private key onto the card",
			run: func(k *ykneo.Key, args []string) error {
				fs := newShellFlags("import")
				allowExport := fs.BoolP("allow-export", "e", false, "")
				if err := fs.Parse(args); err != nil {
					return err
				}
				if fs.NArg() != 1 {
					return usageError("import [-e] <serialized-key-hex>")
				}
				return doImport(k, fs.Arg(0), *allowExport)
			},
		},
		"export": {
			usage: "export",
			short: "print the extended public key",
			run: func(k *ykneo.Key, args []string) error {
				if len(args) != 0 {
					return usageError("export")
				}
				return doExport(k, "", false)
			},
		},
		"reset_user_pin": {
			usage: "reset_user_pin",
			short: "set a new user PIN (admin)",
			run: func(k *ykneo.Key, args []string) error {
				if len(args) != 0 {
					return usageError("reset_user_pin")
				}
				return doResetUserPin(k)
			},
		},
		"retries": {
			usage: "retries [--user n] [--admin n]",
			short: "configure PIN retry counters (admin)",
			run: func(k *ykneo.Key, args []string) error {
				fs := newShellFlags("retries")
				user := fs.Int("user", 0, "")
				admin := fs.Int("admin", 0, "")
				if err := fs.Parse(args); err != nil {
					return err
				}
				if fs.NArg() != 0 {
					return usageError("retries [--user n] [--admin n]")
				}
				return doRetries(k, *user, *admin)
			},
		},
		"header": {
			usage: "header",
			short: "print the BIP32 serialization header",
			run: func(k *ykneo.Key, args []string) error {
				if len(args) != 0 {
					return usageError("header")
				}
				return doHeader(k)
			},
		},
		"status": {
			usage: "status",
			short: "show applet version and session state",
			run: func(k *ykneo.Key, args []string) error {
				if len(args) != 0 {
					return usageError("status")
				}
				return doStatus(k)
			},
		},
	}
}

// newShellFlags builds a per-line FlagSet that reports errors instead
// of exiting the process.
func newShellFlags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard) // parse errors are returned, not printed twice
	return fs
}

// usageError builds the one-line usage error for a malformed command.
func usageError(usage string) error {
	return &ToolError{
		Category: ErrCategoryInput,
		Message:  "usage: " + usage,
	}
}

// repl reads and dispatches commands until EOF or 'exit'. It returns
// a non-nil error only for fatal conditions (a blocked PIN), which the
// caller turns into a process exit.
func repl(k *ykneo.Key, in io.Reader, out io.Writer) error {
	return replWith(k, shellCommands(), in, out)
}

// replWith is the dispatch loop, parameterized over the command map
// for tests.
func replWith(k *ykneo.Key, commands map[string]shellCommand, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, "ykneobtc> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return nil
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "exit", "quit":
			return nil
		case "help":
			printShellHelp(out, commands)
			continue
		}

		sc, ok := commands[fields[0]]
		if !ok {
			fmt.Fprintf(out, "unknown command %q (try 'help')\n", fields[0])
			continue
		}

		if err := sc.run(k, fields[1:]); err != nil {
			te := ClassifyError(err)
			fmt.Fprintln(out, "error:", te.FullError())
			if te.Fatal {
				return te
			}
		}
	}
}

// printShellHelp lists the shell commands in a stable order.
func printShellHelp(out io.Writer, commands map[string]shellCommand) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(out, "  %-40s %s\n", commands[name].usage, commands[name].short)
	}
	fmt.Fprintf(out, "  %-40s %s\n", "help", "show this help")
	fmt.Fprintf(out, "  %-40s %s\n", "exit", "leave the shell")
}
