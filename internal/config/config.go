package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// applyDefaults seeds Viper with defaults defined in GetConfigOptions.
func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence: defaults < file < env.
// The provided Viper instance is mutated with defaults, file contents, and env.
func Load(ctx context.Context, v *viper.Viper) error {
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "mdtree"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "mdtree"))
		}
		v.AddConfigPath(".")
	}

	applyDefaults(v)

	_ = v.ReadInConfig()

	// MDTREE_* env vars win over the file
	v.SetEnvPrefix("mdtree")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if v.GetString("data_dir") == "" {
		v.Set("data_dir", defaultDataDir())
	}

	// Allow comma-separated env override for parser.extensions
	if s := strings.TrimSpace(os.Getenv("MDTREE_PARSER_EXTENSIONS")); s != "" {
		v.Set("parser.extensions", splitList(s))
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// defaultDataDir resolves default data dir: $XDG_DATA_HOME/mdtree or ~/.local/share/mdtree
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "mdtree")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "mdtree")
}

// DefaultConfigPath resolves the standard config.toml location.
func DefaultConfigPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, "mdtree", "config.toml")
}

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// Extensions lists the parser extension names accepted in parser.extensions.
var Extensions = []string{"table", "strikethrough", "tasklist"}

// GetConfigOptions returns the default configuration options and their meanings.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		{Key: "data_dir", Default: defaultDataDir(), Comment: "Directory for local state; render cache is data_dir/mdtree.db"},
		{Key: "http_addr", Default: "127.0.0.1:8484", Comment: "HTTP listen address for mdtree serve"},
		{Key: "auth.token", Default: "", Comment: "Bearer token required by the HTTP API when set"},

		{Key: "parser.extensions", Default: append([]string(nil), Extensions...), Comment: "GFM extensions enabled in the parser: table, strikethrough, tasklist"},

		{Key: "render.sanitize_html", Default: false, Comment: "Filter raw HTML in sources through a UGC sanitizer policy"},

		{Key: "cache.backend", Default: "sqlite", Comment: "Render cache backend: sqlite, mem or off"},
		{Key: "cache.max_entries", Default: 1000, Comment: "Rendered documents kept before the least recently used are pruned"},

		{Key: "preview.style", Default: "dracula", Comment: "Terminal preview style: dracula, dark, light, notty or ascii"},
		{Key: "preview.width", Default: 80, Comment: "Terminal preview word wrap; 0 uses the terminal width"},
	}
}

// ResolveCachePath returns the sqlite render cache file under data_dir.
func ResolveCachePath(v *viper.Viper) string {
	dir := v.GetString("data_dir")
	if dir == "" {
		dir = defaultDataDir()
	}
	if len(dir) > 0 && dir[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, dir[1:])
		}
	}
	return filepath.Join(dir, "mdtree.db")
}

// CacheURL maps cache.backend to a store URL. It returns "" when caching
// is off.
func CacheURL(v *viper.Viper) string {
	switch strings.ToLower(strings.TrimSpace(v.GetString("cache.backend"))) {
	case "sqlite", "":
		return "sqlite://" + ResolveCachePath(v)
	case "mem":
		return "mem://"
	}
	return ""
}
