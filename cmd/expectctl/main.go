// Command expectctl is a thin demonstration CLI over the expectgo package:
// spawn a program under a PTY, wait for a pattern, or hand the terminal over
// to it interactively. It carries no core logic — every behavior it exposes
// is a direct call into the expectgo package.
//
// Grounded on ehrlich-b-wingthing/cmd/wt's cobra command structure (root
// command + subcommands, flags bound to local vars, golang.org/x/term for
// host terminal size/raw-mode).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expectctl",
		Short: "Spawn a program under a PTY and drive it with the expect engine",
	}
	cmd.AddCommand(runCmd())
	cmd.AddCommand(interactCmd())
	cmd.AddCommand(replCmd())
	return cmd
}
