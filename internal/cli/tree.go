package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/mdtree/internal/present"
	"github.com/mithrel/mdtree/internal/present/format"
)

func newTreeCmd() *cobra.Command {
	var outputMode string
	var indent, headers, cst bool
	cmd := &cobra.Command{
		Use:   "tree [file|-]",
		Short: "Print the normalized syntax tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, ok := present.ParseMode(strings.ToLower(outputMode))
			if !ok {
				return fmt.Errorf("unknown format %q (plain|pretty|json|ndjson|tui)", outputMode)
			}
			app := getApp(cmd)
			src, err := readSource(cmd, args)
			if err != nil {
				return err
			}
			doc, _ := app.Markdown.Parse(src)
			if cst {
				return withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), func(w io.Writer) error {
					return format.WriteSyntaxTree(w, doc.Syntax)
				})
			}
			opts := present.Options{Mode: mode, JSONIndent: indent, Headers: headers}
			if mode == present.ModeTUI {
				return present.RenderTree(cmd.Context(), cmd.OutOrStdout(), doc.Root, opts)
			}
			return withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), func(w io.Writer) error {
				return present.RenderTree(cmd.Context(), w, doc.Root, opts)
			})
		},
	}
	cmd.Flags().StringVarP(&outputMode, "format", "f", "plain", "output format: plain|pretty|json|ndjson|tui")
	cmd.Flags().BoolVar(&indent, "indent", false, "indent JSON output")
	cmd.Flags().BoolVar(&headers, "headers", true, "print column headers in plain and tui output")
	cmd.Flags().BoolVar(&cst, "syntax", false, "dump the parser tree before text reconstruction")
	return cmd
}
