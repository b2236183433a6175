package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// AppName is the directory name used under the XDG base directories.
const AppName = "mcpdock"

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// Home returns the user's home directory.
// Note: It returns an empty string on error.
// Use ResolveHome for proper error handling.
func Home() string {
	h, _ := ResolveHome()
	return h
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// DataHome returns the XDG data home directory.
// On Linux: ~/.local/share
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func DataHome() string {
	return xdg.DataHome
}

// CacheHome returns the XDG cache home directory.
// On Linux: ~/.cache
// On macOS: ~/Library/Caches
// On Windows: %LOCALAPPDATA%\cache
func CacheHome() string {
	return xdg.CacheHome
}

// AppConfigDir returns the mcpdock configuration directory.
func AppConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// AppDataDir returns the mcpdock data directory.
func AppDataDir() string {
	return filepath.Join(DataHome(), AppName)
}

// DisabledStorePath returns the location of the disabled-servers side store.
// The file's absence is not an error; the store loads as empty.
func DisabledStorePath() string {
	return filepath.Join(AppDataDir(), "disabled-servers.json")
}

// BackupDir returns the root directory for client config backups.
func BackupDir() string {
	return filepath.Join(AppConfigDir(), "backups")
}
