package config

import (
	"fmt"
	"strings"
)

// RenderDefaultTOML renders a TOML config with defaults from GetConfigOptions.
func RenderDefaultTOML() string {
	top, sections, order := groupOptions(GetConfigOptions())

	out := []string{"# quill configuration (TOML)", ""}
	for _, o := range top {
		out = appendOption(out, o)
	}
	for _, name := range order {
		out = append(out, "["+name+"]")
		for _, o := range sections[name] {
			out = appendOption(out, o)
		}
	}
	return strings.Join(out, "\n")
}

// UpdateTOML merges missing defaults into an existing TOML string and
// comments out keys the schema no longer knows. It reports whether anything changed.
func UpdateTOML(existing string) (string, bool) {
	known := make(map[string]bool)
	for _, o := range GetConfigOptions() {
		known[o.Key] = true
	}

	lines := strings.Split(existing, "\n")
	out := make([]string, 0, len(lines))
	seen := make(map[string]bool)
	headers := make(map[string]int)
	firstHeader := -1
	section := ""
	changed := false

	for _, line := range lines {
		trim := strings.TrimSpace(line)
		switch {
		case trim == "" || strings.HasPrefix(trim, "#"):
			out = append(out, line)
			continue
		case strings.HasPrefix(trim, "[") && strings.HasSuffix(trim, "]"):
			section = strings.TrimSpace(trim[1 : len(trim)-1])
			if firstHeader < 0 {
				firstHeader = len(out)
			}
			headers[section] = len(out)
			out = append(out, line)
			continue
		}
		key, ok := parseTOMLKey(line)
		if !ok {
			out = append(out, line)
			continue
		}
		full := key
		if section != "" {
			full = section + "." + key
		}
		seen[full] = true
		if !known[full] {
			indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			out = append(out, indent+"# OUTDATED: option removed from config schema")
			out = append(out, indent+"# "+strings.TrimLeft(line, " \t"))
			changed = true
			continue
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

	// A TOML table may only be declared once, so keys of sections that already
	// exist go under their header and top-level keys go above the first table.
	top, sections, order := groupOptions(missing)
	inserts := make(map[int][]string)
	var tail []string
	if len(top) > 0 {
		var block []string
		for _, o := range top {
			block = appendOption(block, o)
		}
		if firstHeader < 0 {
			tail = append(tail, block...)
		} else {
			inserts[firstHeader-1] = append(inserts[firstHeader-1], block...)
		}
	}
	for _, name := range order {
		var block []string
		for _, o := range sections[name] {
			block = appendOption(block, o)
		}
		if at, ok := headers[name]; ok {
			inserts[at] = append(inserts[at], block...)
			continue
		}
		tail = append(tail, "["+name+"]")
		tail = append(tail, block...)
	}

	merged := make([]string, 0, len(out)+len(tail)+8)
	merged = append(merged, inserts[-1]...)
	for i, line := range out {
		merged = append(merged, line)
		merged = append(merged, inserts[i]...)
	}
	if len(tail) > 0 {
		merged = append(merged, "", "# Added by config update")
		merged = append(merged, tail...)
	}
	return strings.Join(merged, "\n"), true
}

// groupOptions splits dotted keys into TOML sections, keeping first-seen order.
func groupOptions(opts []ConfigOption) (top []ConfigOption, sections map[string][]ConfigOption, order []string) {
	sections = make(map[string][]ConfigOption)
	for _, o := range opts {
		name, key, ok := strings.Cut(o.Key, ".")
		if !ok {
			top = append(top, o)
			continue
		}
		if _, exists := sections[name]; !exists {
			order = append(order, name)
		}
		sections[name] = append(sections[name], ConfigOption{Key: key, Default: o.Default, Comment: o.Comment})
	}
	return top, sections, order
}

func appendOption(out []string, o ConfigOption) []string {
	if o.Comment != "" {
		out = append(out, "# "+o.Comment)
	}
	return append(out, o.Key+" = "+formatValue(o.Default), "")
}

func formatValue(value any) string {
	switch v := value.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case []string:
		quoted := make([]string, len(v))
		for i, s := range v {
			quoted[i] = fmt.Sprintf("%q", s)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func parseTOMLKey(line string) (string, bool) {
	key, _, ok := strings.Cut(line, "=")
	if !ok {
		return "", false
	}
	key = strings.TrimSpace(key)
	if key == "" || strings.HasPrefix(key, "[") || strings.HasPrefix(key, `"`) || strings.HasPrefix(key, "'") {
		return "", false
	}
	return key, true
}
