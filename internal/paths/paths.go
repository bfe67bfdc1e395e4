package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Name used for directory and file naming.
	toolName = "remint"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644
)

// Path to the directory for per-run build workspaces.
//
//	Linux:   ~/.local/state/remint/work
//	macOS:   ~/Library/Application Support/remint/work
func Workspace() string {
	return filepath.Join(xdg.StateHome, toolName, "work")
}

// Default path to the directory for exported image archives.
//
//	Linux:   ~/.cache/remint/images
//	macOS:   ~/Library/Caches/remint/images
func Images() string {
	return filepath.Join(xdg.CacheHome, toolName, "images")
}

// Default path to the release configuration file.
//
//	Linux:   ~/.config/remint/releases.yaml
//	macOS:   ~/Library/Application Support/remint/releases.yaml
func Releases() string {
	return filepath.Join(xdg.ConfigHome, toolName, "releases.yaml")
}
