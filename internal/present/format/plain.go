package format

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mithrel/mdtree/pkg/api"
)

// TSV columns: type (indented by depth), from, to, content
var headerLine = "type\tfrom\tto\tcontent\n"

func WritePlainTree(w io.Writer, root *api.Node, headers bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if headers {
		_, _ = io.WriteString(tw, headerLine)
	}
	for _, r := range Flatten(root) {
		line := fmt.Sprintf("%s%s\t%d\t%d\t%s\n",
			strings.Repeat("  ", r.Depth), r.Type, r.From, r.To, Snippet(r.Content, 60))
		_, _ = io.WriteString(tw, line)
	}
	return tw.Flush()
}
