package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newRenderCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Render Markdown to HTML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			src, err := readSource(cmd, args)
			if err != nil {
				return err
			}
			html, hit, err := app.RenderHTML(cmd.Context(), src)
			if err != nil {
				return err
			}
			if hit {
				app.Log.Printf("render: cache hit")
			}
			if !strings.HasSuffix(html, "\n") {
				html += "\n"
			}
			if out != "" {
				if err := os.WriteFile(out, []byte(html), 0o644); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
				return nil
			}
			return withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), func(w io.Writer) error {
				_, err := io.WriteString(w, html)
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "write HTML to a file instead of stdout")
	cmd.Flags().Bool("sanitize", false, "filter raw HTML through a UGC sanitizer policy")
	cmd.Flags().String("cache", "", "render cache backend for this run: sqlite, mem or off")
	return cmd
}
