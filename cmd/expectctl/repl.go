package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nick/expectgo/internal/replhelpers"
)

// replCmd launches a known shell profile (bash, zsh, python, node), waits
// for its prompt, then hands the terminal over interactively.
func replCmd() *cobra.Command {
	var catalogPath string

	cmd := &cobra.Command{
		Use:   "repl <profile>",
		Short: "Launch a known shell (bash, zsh, python, node) and wait for its prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := replhelpers.DefaultCatalog()
			if catalogPath != "" {
				loaded, err := replhelpers.LoadCatalog(catalogPath)
				if err != nil {
					return fmt.Errorf("load catalog: %w", err)
				}
				cat = loaded
			}

			sess, prompt, err := cat.Spawn(args[0])
			if err != nil {
				return err
			}
			defer sess.Close(false)

			if _, err := sess.Expect(prompt); err != nil {
				return fmt.Errorf("waiting for prompt: %w", err)
			}
			return sess.Interact(0)
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "path to a YAML profile catalog (default: built-in)")
	return cmd
}
