package codec

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mcpdock/mcpdock/internal/client"
)

const tomlSectionPrefix = "mcp_servers."

// ParseTOMLServers scans a TOML document line by line, recognizing
// [mcp_servers.<name>] section headers. Within a section it reads
// command, args, and env.<KEY> keys; anything else is ignored. Sections
// without a command are dropped silently.
func ParseTOMLServers(data []byte) map[string]client.ServerConfig {
	servers := make(map[string]client.ServerConfig)

	var cur *client.ServerConfig
	flush := func() {
		if cur != nil && cur.Command != "" {
			servers[cur.Name] = *cur
		}
		cur = nil
	}

	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "[") {
			flush()
			if name, ok := serverSectionName(trimmed); ok {
				cur = &client.ServerConfig{Name: name}
			}
			continue
		}
		if cur == nil {
			continue
		}

		key, value, ok := splitTOMLAssignment(trimmed)
		if !ok {
			continue
		}
		switch {
		case key == "command":
			if s, ok := unquoteTOMLString(value); ok {
				cur.Command = s
			}
		case key == "args":
			cur.Args = parseTOMLStringArray(value)
		case strings.HasPrefix(key, "env."):
			if s, ok := unquoteTOMLString(value); ok {
				if cur.Env == nil {
					cur.Env = make(map[string]string)
				}
				cur.Env[key[len("env."):]] = s
			}
		}
	}
	flush()

	return servers
}

// UpsertTOMLServer replaces any existing [mcp_servers.<name>] section with a
// freshly generated one appended at the end of the document. This keeps
// exactly one section per server name; comments inside a replaced section
// are not preserved.
func UpsertTOMLServer(data []byte, cfg client.ServerConfig) []byte {
	content, _ := removeTOMLSection(string(data), cfg.Name)

	var b strings.Builder
	b.WriteString(content)
	if content != "" && !strings.HasSuffix(content, "\n") {
		b.WriteString("\n")
	}
	if strings.TrimSpace(content) != "" {
		b.WriteString("\n")
	}
	b.WriteString(renderTOMLSection(cfg))

	return []byte(b.String())
}

// RemoveTOMLServer deletes the [mcp_servers.<name>] section, every line up
// to the next [...] header or EOF. All other content is preserved
// byte-for-byte. It reports whether the section was present.
func RemoveTOMLServer(data []byte, name string) ([]byte, bool) {
	content, removed := removeTOMLSection(string(data), name)
	return []byte(content), removed
}

func removeTOMLSection(content, name string) (string, bool) {
	lines := strings.Split(content, "\n")
	kept := make([]string, 0, len(lines))
	removed := false
	skipping := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") {
			section, ok := serverSectionName(trimmed)
			skipping = ok && section == name
			if skipping {
				removed = true
			}
		}
		if !skipping {
			kept = append(kept, line)
		}
	}

	return strings.Join(kept, "\n"), removed
}

func renderTOMLSection(cfg client.ServerConfig) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s%s]\n", tomlSectionPrefix, quoteTOMLKey(cfg.Name))
	fmt.Fprintf(&b, "command = %s\n", quoteTOMLString(cfg.Command))

	if len(cfg.Args) > 0 {
		quoted := make([]string, len(cfg.Args))
		for i, a := range cfg.Args {
			quoted[i] = quoteTOMLString(a)
		}
		fmt.Fprintf(&b, "args = [%s]\n", strings.Join(quoted, ", "))
	}

	if len(cfg.Env) > 0 {
		keys := make([]string, 0, len(cfg.Env))
		for k := range cfg.Env {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "env.%s = %s\n", k, quoteTOMLString(cfg.Env[k]))
		}
	}

	return b.String()
}

// serverSectionName extracts the server name from a [mcp_servers.<name>]
// header line. The name may be bare or double-quoted.
func serverSectionName(trimmed string) (string, bool) {
	if !strings.HasPrefix(trimmed, "[") || !strings.HasSuffix(trimmed, "]") {
		return "", false
	}
	inner := strings.TrimSpace(trimmed[1 : len(trimmed)-1])
	if !strings.HasPrefix(inner, tomlSectionPrefix) {
		return "", false
	}
	name := inner[len(tomlSectionPrefix):]
	if unquoted, ok := unquoteTOMLString(name); ok {
		return unquoted, true
	}
	if name == "" {
		return "", false
	}
	return name, true
}

// splitTOMLAssignment splits a "key = value" line. Comment-only and blank
// lines report ok=false.
func splitTOMLAssignment(trimmed string) (key, value string, ok bool) {
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", "", false
	}
	i := strings.Index(trimmed, "=")
	if i < 0 {
		return "", "", false
	}
	return strings.TrimSpace(trimmed[:i]), strings.TrimSpace(trimmed[i+1:]), true
}

// parseTOMLStringArray parses a single-line [...] array of strings:
// comma-separated, quote-aware, no nested brackets.
func parseTOMLStringArray(value string) []string {
	if !strings.HasPrefix(value, "[") || !strings.HasSuffix(value, "]") {
		return nil
	}
	inner := value[1 : len(value)-1]

	var out []string
	var elem strings.Builder
	inString := false
	escaped := false

	emit := func() {
		s := strings.TrimSpace(elem.String())
		elem.Reset()
		if s == "" {
			return
		}
		if unquoted, ok := unquoteTOMLString(s); ok {
			out = append(out, unquoted)
		}
	}

	for _, r := range inner {
		switch {
		case escaped:
			elem.WriteRune(r)
			escaped = false
		case inString && r == '\\':
			elem.WriteRune(r)
			escaped = true
		case r == '"':
			elem.WriteRune(r)
			inString = !inString
		case r == ',' && !inString:
			emit()
		default:
			elem.WriteRune(r)
		}
	}
	emit()

	return out
}

// unquoteTOMLString strips surrounding double quotes and resolves the
// escapes this codec emits (backslash and quote).
func unquoteTOMLString(s string) (string, bool) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", false
	}
	inner := s[1 : len(s)-1]
	var b strings.Builder
	escaped := false
	for _, r := range inner {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		b.WriteRune(r)
	}
	return b.String(), true
}

func quoteTOMLString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// quoteTOMLKey quotes a server name for use in a section header when it
// contains characters outside the bare-key set.
func quoteTOMLKey(name string) string {
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return quoteTOMLString(name)
		}
	}
	return name
}
