// Package codec translates between client.ServerConfig values and the two
// on-disk formats clients use: JSON documents with a per-client key path,
// and TOML documents with [mcp_servers.<name>] sections.
//
// The JSON side operates on whole-document bytes so unrelated keys survive
// every write; the TOML side is a line-oriented scanner that leaves
// untouched sections byte-for-byte intact.
package codec

import (
	"github.com/mcpdock/mcpdock/internal/client"
	"github.com/mcpdock/mcpdock/internal/jsondoc"
)

// ParseJSONServers extracts the servers map at keyPath from a JSON config
// document. A missing key at any level yields an empty result, not an
// error. Entries without a string command are skipped.
func ParseJSONServers(data []byte, keyPath []string) (map[string]client.ServerConfig, error) {
	doc, err := jsondoc.Parse(data)
	if err != nil {
		return nil, err
	}

	servers := make(map[string]client.ServerConfig)
	obj, ok := doc.Object(keyPath...)
	if !ok {
		return servers, nil
	}

	for name, raw := range obj {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		cfg, ok := objectToServer(name, entry)
		if !ok {
			continue
		}
		servers[name] = cfg
	}
	return servers, nil
}

// UpsertJSONServer inserts or overwrites the entry keyed by cfg.Name in the
// servers object at keyPath, leaving every other key in the document
// untouched. Unreadable or invalid existing content is treated as an empty
// document. Returns the new document bytes.
func UpsertJSONServer(data []byte, keyPath []string, cfg client.ServerConfig) ([]byte, error) {
	doc := jsondoc.ParseLenient(data)
	path := append(append([]string(nil), keyPath...), cfg.Name)
	doc.Set(ServerToObject(cfg), path...)
	return doc.Marshal()
}

// RemoveJSONServer deletes the entry keyed by name from the servers object
// at keyPath. It reports whether the entry was present. The document must
// parse; uninstalls never run against content they could misread.
func RemoveJSONServer(data []byte, keyPath []string, name string) ([]byte, bool, error) {
	doc, err := jsondoc.Parse(data)
	if err != nil {
		return nil, false, err
	}
	path := append(append([]string(nil), keyPath...), name)
	removed := doc.Delete(path...)
	out, err := doc.Marshal()
	if err != nil {
		return nil, false, err
	}
	return out, removed, nil
}

// ServersFromObject converts a generic servers object (name → entry) into
// ServerConfig values, skipping entries without a string command.
func ServersFromObject(obj map[string]any) map[string]client.ServerConfig {
	servers := make(map[string]client.ServerConfig, len(obj))
	for name, raw := range obj {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if cfg, ok := objectToServer(name, entry); ok {
			servers[name] = cfg
		}
	}
	return servers
}

// ServerToObject converts a ServerConfig to its generic JSON object form:
// command, optional args, optional env. Name and scope are carried by the
// surrounding map key, never written into the entry.
func ServerToObject(cfg client.ServerConfig) map[string]any {
	entry := map[string]any{"command": cfg.Command}
	if len(cfg.Args) > 0 {
		args := make([]any, len(cfg.Args))
		for i, a := range cfg.Args {
			args[i] = a
		}
		entry["args"] = args
	}
	if len(cfg.Env) > 0 {
		env := make(map[string]any, len(cfg.Env))
		for k, v := range cfg.Env {
			env[k] = v
		}
		entry["env"] = env
	}
	return entry
}

func objectToServer(name string, entry map[string]any) (client.ServerConfig, bool) {
	command, ok := entry["command"].(string)
	if !ok {
		return client.ServerConfig{}, false
	}

	cfg := client.ServerConfig{Name: name, Command: command}

	if rawArgs, ok := entry["args"].([]any); ok {
		for _, a := range rawArgs {
			if s, ok := a.(string); ok {
				cfg.Args = append(cfg.Args, s)
			}
		}
	}

	if rawEnv, ok := entry["env"].(map[string]any); ok && len(rawEnv) > 0 {
		cfg.Env = make(map[string]string, len(rawEnv))
		for k, v := range rawEnv {
			if s, ok := v.(string); ok {
				cfg.Env[k] = s
			}
		}
	}

	return cfg, true
}
