package format

import (
	"encoding/json"
	"io"

	"github.com/mithrel/mdtree/pkg/api"
)

// WriteNDJSONTree writes one JSON object per node, depth first.
func WriteNDJSONTree(w io.Writer, root *api.Node) error {
	enc := json.NewEncoder(w)
	for _, r := range Flatten(root) {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}
