package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/mzedit/internal/engine/brackets"
	"github.com/dshills/mzedit/internal/engine/document"
	"github.com/dshills/mzedit/internal/renderer/highlight"
)

var matchFlags struct {
	line int
	col  int
}

var matchCmd = &cobra.Command{
	Use:   "match <file.mzn>",
	Short: "Find the bracket matching the one at a position",
	Long: `Match reports the bracket partner for a cursor at --line and --col
(both 1-based). A bracket just before the cursor is tried before the one
under it, the same rule the editor uses while typing.`,
	Args: cobra.ExactArgs(1),
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().IntVar(&matchFlags.line, "line", 1, "cursor line (1-based)")
	matchCmd.Flags().IntVar(&matchFlags.col, "col", 1, "cursor column (1-based)")
}

func runMatch(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	if matchFlags.line < 1 || matchFlags.col < 1 {
		return fmt.Errorf("line and column are 1-based, got %d:%d", matchFlags.line, matchFlags.col)
	}

	doc := document.New(string(data))
	model := brackets.NewModel(doc, highlight.NewLexer())
	m := model.MatchAt(matchFlags.line-1, matchFlags.col-1)

	out := cmd.OutOrStdout()
	pos := func(off int) string {
		p := doc.OffsetToPoint(off)
		return fmt.Sprintf("%d:%d", p.Line+1, p.Column+1)
	}
	switch m.Kind {
	case brackets.Matched:
		fmt.Fprintf(out, "matched %s %s\n", pos(m.At), pos(m.Partner))
	case brackets.Unmatched:
		fmt.Fprintf(out, "unmatched %s\n", pos(m.At))
		return errFindings
	default:
		fmt.Fprintln(out, "no bracket")
	}
	return nil
}
