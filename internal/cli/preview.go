package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mithrel/mdtree/internal/present/format"
)

func newPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview [file|-]",
		Short: "Preview Markdown in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			src, err := readSource(cmd, args)
			if err != nil {
				return err
			}
			style := app.Cfg.GetString("preview.style")
			width := app.Cfg.GetInt("preview.width")
			if width == 0 {
				width = terminalWidth(cmd.OutOrStdout())
			}
			return withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), func(w io.Writer) error {
				return format.WritePreview(w, src, style, width)
			})
		},
	}
	cmd.Flags().String("style", "", "glamour style (dracula, dark, light, notty, ascii)")
	cmd.Flags().Int("width", 0, "word wrap width; 0 uses the terminal width")
	return cmd
}

// terminalWidth returns the width of out when it is a terminal, else 80.
func terminalWidth(out io.Writer) int {
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return 80
}
