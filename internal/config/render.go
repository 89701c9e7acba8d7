package config

import (
	"fmt"
	"strconv"
	"strings"
)

// section groups options by the prefix before the first dot. Top-level keys
// land in the "" section, which is always first.
type section struct {
	name string
	opts []ConfigOption
}

func groupSections(opts []ConfigOption) []section {
	out := []section{{}}
	index := map[string]int{"": 0}
	for _, o := range opts {
		name, key := "", o.Key
		if before, after, ok := strings.Cut(o.Key, "."); ok {
			name, key = before, after
		}
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, section{name: name})
		}
		out[i].opts = append(out[i].opts, ConfigOption{Key: key, Default: o.Default, Comment: o.Comment})
	}
	return out
}

// RenderDefaultTOML renders a TOML config with defaults from GetConfigOptions.
func RenderDefaultTOML() string {
	lines := []string{"# mdtree configuration (TOML)"}
	for _, s := range groupSections(GetConfigOptions()) {
		if len(s.opts) == 0 {
			continue
		}
		if s.name != "" {
			lines = append(lines, "["+s.name+"]")
		}
		for _, o := range s.opts {
			lines = appendOption(lines, o)
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

// UpdateTOML appends options missing from existing and comments out keys
// the schema no longer knows. It reports whether anything changed.
func UpdateTOML(existing string) (string, bool) {
	known := make(map[string]bool)
	for _, o := range GetConfigOptions() {
		known[o.Key] = true
	}

	seen := make(map[string]bool)
	current := ""
	changed := false
	lines := strings.Split(existing, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trim := strings.TrimSpace(line)
		switch {
		case trim == "" || strings.HasPrefix(trim, "#"):
		case strings.HasPrefix(trim, "[") && strings.HasSuffix(trim, "]"):
			current = strings.TrimSpace(trim[1 : len(trim)-1])
		default:
			key, ok := parseTOMLKey(trim)
			if !ok {
				break
			}
			if current != "" {
				key = current + "." + key
			}
			seen[key] = true
			if !known[key] {
				indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
				out = append(out, indent+"# OUTDATED: option removed from config schema", indent+"# "+trim)
				changed = true
				continue
			}
		}
		out = append(out, line)
	}

	var missing []ConfigOption
	for _, o := range GetConfigOptions() {
		if !seen[o.Key] {
			missing = append(missing, o)
		}
	}
	if len(missing) == 0 {
		return strings.Join(out, "\n"), changed
	}

	// Missing keys go at the end of their existing table, or into a new
	// table at the end of the file.
	ends := sectionEnds(out)
	inserts := make(map[int][]string)
	var tail []string
	for _, s := range groupSections(missing) {
		if len(s.opts) == 0 {
			continue
		}
		block := []string{"# Added by config update"}
		for _, o := range s.opts {
			block = appendOption(block, o)
		}
		if at, ok := ends[s.name]; ok {
			inserts[at] = append(inserts[at], block...)
			continue
		}
		if s.name != "" {
			tail = append(tail, "", "["+s.name+"]")
		}
		tail = append(tail, block...)
	}
	merged := make([]string, 0, len(out)+len(tail))
	for i := 0; i <= len(out); i++ {
		merged = append(merged, inserts[i]...)
		if i < len(out) {
			merged = append(merged, out[i])
		}
	}
	merged = append(merged, tail...)
	return strings.Join(merged, "\n"), true
}

// sectionEnds maps each table name to the line index its content ends at.
// The top-level table ends at the first header.
func sectionEnds(lines []string) map[string]int {
	ends := map[string]int{"": len(lines)}
	current := ""
	for i, line := range lines {
		trim := strings.TrimSpace(line)
		if strings.HasPrefix(trim, "[") && strings.HasSuffix(trim, "]") {
			ends[current] = i
			current = strings.TrimSpace(trim[1 : len(trim)-1])
		}
		ends[current] = i + 1
	}
	if current != "" {
		ends[current] = len(lines)
	}
	return ends
}

func parseTOMLKey(line string) (string, bool) {
	key, _, ok := strings.Cut(line, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" || strings.ContainsAny(key[:1], "[\"'") {
		return "", false
	}
	return key, true
}

func appendOption(lines []string, o ConfigOption) []string {
	if o.Comment != "" {
		lines = append(lines, "# "+o.Comment)
	}
	return append(lines, o.Key+" = "+tomlValue(o.Default), "")
}

func tomlValue(v any) string {
	switch v := v.(type) {
	case string:
		return strconv.Quote(v)
	case []string:
		quoted := make([]string, len(v))
		for i, s := range v {
			quoted[i] = strconv.Quote(s)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	default:
		return fmt.Sprint(v)
	}
}
