package format

import (
	"encoding/json"
	"io"

	"github.com/mithrel/mdtree/pkg/api"
)

func WriteJSONTree(w io.Writer, root *api.Node, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(root)
}
