// Package paths centralizes filesystem path resolution for mcpdock.
//
// It wraps the XDG base directory specification (via adrg/xdg) and exposes
// the fixed locations this tool owns: its own config directory, the
// disabled-servers store, and the backup directory. Client config paths
// are owned by the client registry, not this package.
package paths
