package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nick/expectgo"
)

// interactCmd spawns a command and bridges the invoking terminal to it until
// the escape sequence is typed or the child exits. The host's current
// terminal size is inherited for the child's initial PTY window, the same
// term.GetSize/IsTerminal pattern ehrlich-b-wingthing's egg.go uses before
// attaching a session.
func interactCmd() *cobra.Command {
	var escape string

	cmd := &cobra.Command{
		Use:   "interact <cmd>",
		Short: "Spawn <cmd> under a PTY and bridge it to your terminal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := []expectgo.Option{}
			fd := int(os.Stdin.Fd())
			if term.IsTerminal(fd) {
				if cols, rows, err := term.GetSize(fd); err == nil {
					opts = append(opts, expectgo.WithWinsize(uint16(cols), uint16(rows)))
				}
			}

			sess, err := expectgo.Spawn(strings.Join(args, " "), opts...)
			if err != nil {
				return fmt.Errorf("spawn: %w", err)
			}
			defer sess.Close(false)

			esc, err := parseEscape(escape)
			if err != nil {
				return err
			}
			return sess.Interact(esc)
		},
	}

	cmd.Flags().StringVar(&escape, "escape", "GroupSeparator", "escape code that ends the interactive session (name or ^X form, X in A-Z)")
	return cmd
}

func parseEscape(s string) (byte, error) {
	if s == "" {
		return 0, nil
	}
	cc, err := expectgo.ParseControlCode(s)
	if err != nil {
		return 0, fmt.Errorf("--escape: %w", err)
	}
	return cc.Byte(), nil
}
