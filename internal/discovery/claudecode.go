package discovery

import (
	"os"
	"path/filepath"

	"github.com/mcpdock/mcpdock/internal/client"
	"github.com/mcpdock/mcpdock/internal/codec"
	"github.com/mcpdock/mcpdock/internal/jsondoc"
	"github.com/mcpdock/mcpdock/pkg/fileutil"
)

// parseScopedServers reads the scope-capable client's single config
// document and folds all three scopes into one map under composite keys:
//
//   - the root servers map (global scope)
//   - each entry under the projects map, keyed by project path (local scope)
//   - for every known project path, an adjacent .mcp.json file (project scope)
func (d *Discoverer) parseScopedServers(data []byte) (map[string]client.ServerConfig, error) {
	doc, err := jsondoc.Parse(data)
	if err != nil {
		return nil, err
	}

	servers := make(map[string]client.ServerConfig)

	if rootObj, ok := doc.Object("mcpServers"); ok {
		addScoped(servers, codec.ServersFromObject(rootObj), client.GlobalScope())
	}

	projects, ok := doc.Object("projects")
	if !ok {
		return servers, nil
	}

	for projectPath, raw := range projects {
		project, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if obj, ok := project["mcpServers"].(map[string]any); ok {
			addScoped(servers, codec.ServersFromObject(obj), client.LocalScope(projectPath))
		}

		d.addProjectFileServers(servers, projectPath)
	}

	return servers, nil
}

// addProjectFileServers merges servers from the project's shared .mcp.json
// file, if one exists. Parse failures are logged and skipped; one broken
// project file must not hide the rest of the client's servers.
func (d *Discoverer) addProjectFileServers(servers map[string]client.ServerConfig, projectPath string) {
	path := filepath.Join(projectPath, client.ProjectConfigName)
	if _, err := os.Stat(path); err != nil {
		return
	}

	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		d.logger.Warn("failed to read project config", "path", path, "error", err)
		return
	}

	parsed, err := codec.ParseJSONServers(data, []string{"mcpServers"})
	if err != nil {
		d.logger.Warn("failed to parse project config", "path", path, "error", err)
		return
	}

	addScoped(servers, parsed, client.ProjectScope(projectPath))
}

func addScoped(dst map[string]client.ServerConfig, src map[string]client.ServerConfig, scope client.Scope) {
	for name, cfg := range src {
		s := scope
		cfg.Scope = &s
		dst[client.CompositeKey(name, scope)] = cfg
	}
}

func (d *Discoverer) readDoc(path string) (jsondoc.Doc, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return nil, err
	}
	return jsondoc.Parse(data)
}
