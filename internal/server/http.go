package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/spf13/viper"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mithrel/mdtree/internal/render"
	"github.com/mithrel/mdtree/internal/wire"
	"github.com/mithrel/mdtree/pkg/api"
)

// maxBody caps request sources.
const maxBody = 4 << 20

// CacheHeader reports whether a render was served from the cache.
const CacheHeader = "X-Mdtree-Cache"

// Server serves render endpoints backed by an App.
type Server struct {
	cfg *viper.Viper
	app *wire.App
}

func New(cfg *viper.Viper, app *wire.App) *Server {
	return &Server{cfg: cfg, app: app}
}

// Router returns an http.Handler with registered routes.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/v1/render", s.auth(s.handleRender))
	mux.HandleFunc("/v1/tree", s.auth(s.handleTree))
	mux.HandleFunc("/v1/stats", s.auth(s.handleStats))
	return mux
}

// auth requires a bearer token when auth.token is configured.
func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tok := strings.TrimSpace(s.cfg.GetString("auth.token"))
		if tok == "" {
			next.ServeHTTP(w, r)
			return
		}
		got := r.Header.Get("Authorization")
		if !strings.HasPrefix(got, "Bearer ") || strings.TrimSpace(strings.TrimPrefix(got, "Bearer ")) != tok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	}
}

func readSource(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return "", false
	}
	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return "", false
	}
	return string(b), true
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	src, ok := readSource(w, r)
	if !ok {
		return
	}
	out, hit, err := s.app.RenderHTML(r.Context(), src)
	if err != nil {
		log.Printf("render: %v", err)
		status := http.StatusInternalServerError
		if errors.Is(err, render.ErrNoRenderer) {
			status = http.StatusUnprocessableEntity
		}
		http.Error(w, err.Error(), status)
		return
	}
	cache := "miss"
	if hit {
		cache = "hit"
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set(CacheHeader, cache)
	_, _ = io.WriteString(w, out)
}

// handleTree returns the normalized tree as JSON, or as a protobuf Struct
// when the client accepts application/x-protobuf.
func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	src, ok := readSource(w, r)
	if !ok {
		return
	}
	root := s.app.Markdown.Tree(src)
	if strings.Contains(r.Header.Get("Accept"), "application/x-protobuf") {
		msg, err := structpb.NewStruct(nodeMap(root))
		if err != nil {
			http.Error(w, "encode failed", http.StatusInternalServerError)
			return
		}
		b, err := proto.Marshal(msg)
		if err != nil {
			http.Error(w, "encode failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/x-protobuf")
		_, _ = w.Write(b)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(root); err != nil {
		log.Printf("tree: %v", err)
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	resp := map[string]any{"cache": "off"}
	if s.app.Cache != nil {
		st, err := s.app.Cache.Stats(r.Context())
		if err != nil {
			http.Error(w, "stats failed", http.StatusInternalServerError)
			return
		}
		resp = map[string]any{"cache": s.cfg.GetString("cache.backend"), "entries": st.Entries, "hits": st.Hits}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// nodeMap converts n into the generic shape structpb accepts. Leaves carry
// no children field, matching the JSON encoding.
func nodeMap(n *api.Node) map[string]any {
	m := map[string]any{
		"type":    n.Type,
		"from":    n.From,
		"to":      n.To,
		"content": n.Content,
	}
	if len(n.Children) > 0 {
		kids := make([]any, 0, len(n.Children))
		for _, c := range n.Children {
			kids = append(kids, nodeMap(c))
		}
		m["children"] = kids
	}
	return m
}
