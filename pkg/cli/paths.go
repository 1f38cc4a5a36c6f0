package cli

import (
	"os"
	"path/filepath"
)

// Paths is the resolved on-disk layout for one app's state. All hearsay
// tooling shares ~/.hearsay, with one subdirectory per app.
type Paths struct {
	appDir string
}

// NewPaths resolves the layout for the given app under the user's home
// directory.
func NewPaths(appName string) (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &Paths{appDir: filepath.Join(home, DefaultBaseDir, appName)}, nil
}

// BaseDir returns the shared base directory (~/.hearsay).
func (p *Paths) BaseDir() string { return filepath.Dir(p.appDir) }

// AppDir returns the app-specific directory (~/.hearsay/<app>).
func (p *Paths) AppDir() string { return p.appDir }

// ConfigFile returns the config file path (~/.hearsay/<app>/config.yaml).
func (p *Paths) ConfigFile() string { return filepath.Join(p.appDir, DefaultConfigFile) }
