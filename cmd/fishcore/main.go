// Command fishcore is a small demo driver wiring the tokenizer, navigator,
// edit buffer, and commandline builtin together end to end, the way the
// teacher's cli/main.go wires its lexer/parser/planner/executor pipeline
// behind a single cobra root command.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/opal/internal/cli"
	"github.com/aledsdavies/opal/internal/editbuffer"
	"github.com/aledsdavies/opal/internal/token"
)

func main() {
	svc := editbuffer.New()

	rootCmd := &cobra.Command{
		Use:   "fishcore",
		Short: "Reference driver over the fish-core runtime substrate",
	}

	rootCmd.AddCommand(cli.NewCommandlineCmd(svc))
	rootCmd.AddCommand(newTokenizeCmd())
	rootCmd.AddCommand(newReplCmd(svc))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newTokenizeCmd exposes the L1 tokenizer directly, for inspecting the token
// stream a buffer produces.
func newTokenizeCmd() *cobra.Command {
	var acceptUnfinished, showComments, showBlankLines bool

	cmd := &cobra.Command{
		Use:   "tokenize [STRING]",
		Short: "Print the token stream for a buffer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tz := token.New(args[0], token.Flags{
				AcceptUnfinished: acceptUnfinished,
				ShowComments:     showComments,
				ShowBlankLines:   showBlankLines,
			})
			for tz.Next() {
				tok := tz.Current()
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s start=%-4d len=%-4d text=%q\n", tok.Kind, tok.Start, tok.Length, tok.Text)
				if !tz.HasNext() {
					break
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&acceptUnfinished, "accept-unfinished", false, "best-effort tokens for open quotes/parens at EOF")
	cmd.Flags().BoolVar(&showComments, "show-comments", false, "emit Comment tokens instead of skipping them")
	cmd.Flags().BoolVar(&showBlankLines, "show-blank-lines", false, "emit an End token per newline")
	return cmd
}

// newReplCmd loads the first stdin line into the shared edit buffer service, so
// `commandline` invocations in the same process can be exercised against it.
func newReplCmd(svc *editbuffer.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "load-buffer",
		Short: "Read a line from stdin into the edit buffer and print it back",
		RunE: func(cmd *cobra.Command, args []string) error {
			scanner := bufio.NewScanner(cmd.InOrStdin())
			if !scanner.Scan() {
				return scanner.Err()
			}
			line := scanner.Text()
			svc.SetBuffer(line, len(line))
			fmt.Fprintln(cmd.OutOrStdout(), line)
			return nil
		},
	}
}
