// Package cli exposes the navigator and edit buffer as the commandline
// builtin's cobra command surface (spec §4.6, §6.1), grounded on the
// teacher's cli/main.go rootCmd wiring.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/opal/internal/editbuffer"
	"github.com/aledsdavies/opal/internal/navigator"
)

// flags mirrors the commandline builtin's short/long option table (spec
// §6.1).
type flags struct {
	appendMode   bool
	insertMode   bool
	replaceMode  bool
	currentJob   bool
	currentProc  bool
	currentToken bool
	currentBuf   bool
	cutAtCursor  bool
	tokenize     bool
	function     bool
	input        string
	hasInput     bool
	cursor       bool
	line         bool
	searchMode   bool
}

// NewCommandlineCmd builds the `commandline` builtin as a cobra.Command over
// svc, the shared edit buffer service instance.
func NewCommandlineCmd(svc *editbuffer.Service) *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:           "commandline [flags] [STRING...]",
		Short:         "Set or get the current command line buffer",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommandline(cmd, svc, f, args)
		},
	}

	cmd.Flags().BoolVarP(&f.appendMode, "append", "a", false, "write mode = append")
	cmd.Flags().BoolVarP(&f.insertMode, "insert", "i", false, "write mode = insert at cursor")
	cmd.Flags().BoolVarP(&f.replaceMode, "replace", "r", false, "write mode = replace")
	cmd.Flags().BoolVarP(&f.currentJob, "current-job", "j", false, "region = job")
	cmd.Flags().BoolVarP(&f.currentProc, "current-process", "p", false, "region = process")
	cmd.Flags().BoolVarP(&f.currentToken, "current-token", "t", false, "region = token")
	cmd.Flags().BoolVarP(&f.currentBuf, "current-buffer", "b", false, "region = entire buffer")
	cmd.Flags().BoolVarP(&f.cutAtCursor, "cut-at-cursor", "c", false, "on read, truncate region at cursor")
	cmd.Flags().BoolVarP(&f.tokenize, "tokenize", "o", false, "on read, emit one string-token per line")
	cmd.Flags().BoolVarP(&f.function, "function", "f", false, "positional arguments are input-function names")
	cmd.Flags().StringVarP(&f.input, "input", "I", "", "use ARG as the current buffer override")
	cmd.Flags().BoolVarP(&f.cursor, "cursor", "C", false, "print or set cursor position")
	cmd.Flags().BoolVarP(&f.line, "line", "L", false, "print current line number")
	cmd.Flags().BoolVarP(&f.searchMode, "search-mode", "S", false, "exit 0 iff in search mode")

	return cmd
}

// usageError reports NAME: message plus the help text, per spec §7's
// commandline-builtin failure shape.
func usageError(cmd *cobra.Command, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(cmd.ErrOrStderr(), "commandline: %s\n", msg)
	fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
	return fmt.Errorf("commandline: %s", msg)
}

func runCommandline(cmd *cobra.Command, svc *editbuffer.Service, f flags, args []string) error {
	f.hasInput = cmd.Flags().Changed("input")

	regionFlags := 0
	for _, set := range []bool{f.currentJob, f.currentProc, f.currentToken, f.currentBuf} {
		if set {
			regionFlags++
		}
	}
	if regionFlags > 1 {
		return usageError(cmd, "only one region flag may be given")
	}

	writeFlags := 0
	for _, set := range []bool{f.appendMode, f.insertMode, f.replaceMode} {
		if set {
			writeFlags++
		}
	}
	if writeFlags > 1 {
		return usageError(cmd, "only one write-mode flag may be given")
	}

	exclusiveQuery := f.cursor || f.line || f.searchMode
	if f.function && (regionFlags > 0 || writeFlags > 0 || exclusiveQuery) {
		return usageError(cmd, "--function is mutually exclusive with region/write/query flags")
	}
	if (f.cutAtCursor || f.tokenize) && len(args) > 0 {
		return usageError(cmd, "--cut-at-cursor/--tokenize cannot be combined with a string to write")
	}

	if f.hasInput {
		svc.PushOverride(f.input)
		defer svc.PopOverride()
	}

	switch {
	case f.function:
		return runFunction(cmd, svc, args)
	case f.searchMode:
		if !svc.IsSearchMode() {
			return fmt.Errorf("commandline: not in search mode")
		}
		return nil
	case f.cursor:
		return runCursor(cmd, svc, args)
	case f.line:
		text, cursor := svc.GetBuffer()
		fmt.Fprintln(cmd.OutOrStdout(), navigator.Lineno(text, cursor)+1)
		return nil
	}

	region := resolveRegion(f)
	if writeFlags > 0 || len(args) > 0 {
		return runWrite(cmd, svc, f, region, args)
	}
	return runRead(cmd, svc, f, region)
}

func resolveRegion(f flags) editbuffer.Region {
	switch {
	case f.currentJob:
		return editbuffer.RegionJob
	case f.currentProc:
		return editbuffer.RegionProcess
	case f.currentToken:
		return editbuffer.RegionToken
	default:
		return editbuffer.RegionBuffer
	}
}

func resolveWriteMode(f flags) editbuffer.WriteMode {
	switch {
	case f.appendMode:
		return editbuffer.WriteAppend
	case f.insertMode:
		return editbuffer.WriteInsert
	default:
		return editbuffer.WriteReplace
	}
}

func runWrite(cmd *cobra.Command, svc *editbuffer.Service, f flags, region editbuffer.Region, args []string) error {
	if len(args) == 0 {
		return usageError(cmd, "write mode given without a string to write")
	}
	insert := strings.Join(args, "\n")
	if err := svc.Write(region, resolveWriteMode(f), insert); err != nil {
		return usageError(cmd, "%s", err)
	}
	return nil
}

func runRead(cmd *cobra.Command, svc *editbuffer.Service, f flags, region editbuffer.Region) error {
	text := svc.Read(region, editbuffer.ReadOptions{CutAtCursor: f.cutAtCursor, Tokenize: f.tokenize})
	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}

func runCursor(cmd *cobra.Command, svc *editbuffer.Service, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), svc.GetCursor())
		return nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return usageError(cmd, "invalid cursor position %q", args[0])
	}
	text, _ := svc.GetBuffer()
	if n < 0 {
		n = 0
	}
	if n > len(text) {
		n = len(text)
	}
	svc.SetBuffer(text, n)
	return nil
}

// runFunction enqueues input-function names onto svc's pending input-function
// queue, in argument order. The key reader that actually dispatches queued
// input functions is a collaborator outside the core (spec §1); this builtin
// is only responsible for the hand-off.
func runFunction(cmd *cobra.Command, svc *editbuffer.Service, args []string) error {
	if len(args) == 0 {
		return usageError(cmd, "--function requires at least one input-function name")
	}
	for _, name := range args {
		svc.PushFunction(name)
	}
	return nil
}
