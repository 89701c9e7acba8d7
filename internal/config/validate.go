package config

import (
	"errors"
	"fmt"
	"net"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

var previewStyles = []string{"dracula", "dark", "light", "notty", "ascii", "pink", "tokyo-night"}

// CheckConfigValidity reports every invalid setting at once.
func CheckConfigValidity(v *viper.Viper) error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		add("data_dir is required")
	}
	if addr := v.GetString("http_addr"); addr != "" {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			add("http_addr %q is not host:port", addr)
		}
	}
	for _, ext := range v.GetStringSlice("parser.extensions") {
		if !slices.Contains(Extensions, ext) {
			add("parser.extensions has unknown extension %q", ext)
		}
	}
	switch b := strings.ToLower(v.GetString("cache.backend")); b {
	case "", "sqlite", "mem", "off":
	default:
		add("cache.backend %q must be sqlite, mem or off", b)
	}
	if v.IsSet("cache.max_entries") && v.GetInt("cache.max_entries") <= 0 {
		add("cache.max_entries must be greater than 0")
	}
	if s := v.GetString("preview.style"); s != "" && !slices.Contains(previewStyles, s) {
		add("preview.style %q is not a known style", s)
	}
	if v.GetInt("preview.width") < 0 {
		add("preview.width must not be negative")
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.New("invalid config: " + strings.Join(problems, "; "))
}
