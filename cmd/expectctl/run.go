package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nick/expectgo"
)

// runCmd spawns a command, waits for a pattern (literal, regex, or EOF per
// --mode), and prints what matched.
func runCmd() *cobra.Command {
	var (
		pattern string
		mode    string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run <cmd>",
		Short: "Spawn <cmd> under a PTY and wait for a pattern in its output",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := expectgo.Spawn(strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("spawn: %w", err)
			}
			defer sess.Close(false)

			if timeout > 0 {
				sess.SetExpectTimeout(&timeout)
			}

			needle, err := buildNeedle(mode, pattern)
			if err != nil {
				return err
			}

			found, err := sess.Expect(needle)
			if err != nil {
				return fmt.Errorf("expect: %w", err)
			}
			fmt.Printf("before: %q\nmatch:  %q\n", found.Before(), found.First())
			return nil
		},
	}

	cmd.Flags().StringVar(&pattern, "expect", "", "pattern to wait for (ignored for --mode eof)")
	cmd.Flags().StringVar(&mode, "mode", "bytes", "pattern kind: bytes|regex|eof")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "expect deadline (0 = session default)")
	return cmd
}

func buildNeedle(mode, pattern string) (expectgo.Needle, error) {
	switch mode {
	case "bytes":
		return expectgo.Bytes(pattern), nil
	case "regex":
		return expectgo.Regex(pattern)
	case "eof":
		return expectgo.Eof, nil
	default:
		return nil, fmt.Errorf("unknown --mode %q (want bytes|regex|eof)", mode)
	}
}
