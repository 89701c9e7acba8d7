package present

import (
	"context"
	"io"

	"github.com/mithrel/mdtree/internal/present/format"
	"github.com/mithrel/mdtree/internal/present/tui"
	"github.com/mithrel/mdtree/pkg/api"
)

type Mode int

const (
	ModePlain Mode = iota
	ModePretty
	ModeJSON
	ModeNDJSON
	ModeTUI
)

type Options struct {
	Mode       Mode
	JSONIndent bool
	Headers    bool
}

// ParseMode parses a string like "plain", "pretty", "json", "ndjson", "tui".
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "plain":
		return ModePlain, true
	case "pretty":
		return ModePretty, true
	case "json":
		return ModeJSON, true
	case "ndjson":
		return ModeNDJSON, true
	case "tui":
		return ModeTUI, true
	default:
		return ModePlain, false
	}
}

// RenderTree writes a normalized tree according to options.
func RenderTree(ctx context.Context, w io.Writer, root *api.Node, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSONTree(w, root, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSONTree(w, root)
	case ModePretty:
		return format.WritePrettyTree(w, root)
	case ModeTUI:
		return tui.BrowseTree(ctx, w, root, opts.Headers)
	default:
		return format.WritePlainTree(w, root, opts.Headers)
	}
}
