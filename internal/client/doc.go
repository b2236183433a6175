// Package client defines the supported MCP client applications and their
// static filesystem conventions: config path candidates, the key path into
// each JSON document, format flags, and install detection markers.
//
// The package also carries the shared data shapes the rest of the system
// is built on: ServerConfig (one server registration), Scope (one of the
// three storage locations Claude Code supports), and Client (the discovered
// runtime state of one client type).
package client
