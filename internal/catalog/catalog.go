// Package catalog consumes a remote MCP server catalog as a read-only data
// source: names, distribution packages, transports, and env-var
// requirements. The core only needs the final deduplicated list; browsing
// and rendering are someone else's job.
package catalog

import (
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Kind identifies a package's distribution registry.
type Kind string

// Known package kinds. Anything else resolves to a bare command launch.
const (
	KindNPM    Kind = "npm"
	KindPyPI   Kind = "pypi"
	KindOCI    Kind = "oci"
	KindBundle Kind = "bundle"
)

// EnvVarSpec describes an environment variable a server package expects.
type EnvVarSpec struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"isRequired,omitempty"`
}

// Package is one installable distribution of a server.
type Package struct {
	Kind       Kind         `json:"registryName"`
	Identifier string       `json:"name"`
	Transport  string       `json:"transport,omitempty"`
	EnvVars    []EnvVarSpec `json:"environmentVariables,omitempty"`
}

// Server is one catalog listing.
type Server struct {
	Name          string    `json:"name"`
	RepositoryURL string    `json:"repositoryUrl,omitempty"`
	Version       string    `json:"version,omitempty"`
	Packages      []Package `json:"packages"`
}

// PrimaryPackage returns the server's first distribution package, the one
// installs resolve a launch command from.
func (s Server) PrimaryPackage() (Package, bool) {
	if len(s.Packages) == 0 {
		return Package{}, false
	}
	return s.Packages[0], true
}

// Dedup collapses catalog listings that point at the same repository:
// group by normalized repository URL, keep the highest semantic version,
// tie-break by package count. Listings without a repository URL pass
// through keyed by name. Output is sorted case-insensitively by name.
func Dedup(servers []Server) []Server {
	best := make(map[string]Server, len(servers))
	for _, s := range servers {
		key := normalizeRepoURL(s.RepositoryURL)
		if key == "" {
			key = "name:" + s.Name
		}
		cur, ok := best[key]
		if !ok || prefer(s, cur) {
			best[key] = s
		}
	}

	out := make([]Server, 0, len(best))
	for _, s := range best {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a != b {
			return a < b
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// prefer reports whether candidate should replace current within one
// repository group.
func prefer(candidate, current Server) bool {
	cv := parseVersion(candidate.Version)
	xv := parseVersion(current.Version)

	switch {
	case cv != nil && xv == nil:
		return true
	case cv == nil && xv != nil:
		return false
	case cv != nil && xv != nil && !cv.Equal(xv):
		return cv.GreaterThan(xv)
	}
	return len(candidate.Packages) > len(current.Packages)
}

func parseVersion(v string) *semver.Version {
	if v == "" {
		return nil
	}
	parsed, err := semver.NewVersion(strings.TrimPrefix(v, "v"))
	if err != nil {
		return nil
	}
	return parsed
}

// normalizeRepoURL reduces a repository URL to a grouping key: lowercase,
// scheme and www stripped, trailing .git and slash removed.
func normalizeRepoURL(u string) string {
	u = strings.ToLower(strings.TrimSpace(u))
	for _, prefix := range []string{"https://", "http://", "git://"} {
		u = strings.TrimPrefix(u, prefix)
	}
	u = strings.TrimPrefix(u, "www.")
	u = strings.TrimSuffix(u, "/")
	u = strings.TrimSuffix(u, ".git")
	return u
}
