package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/portablesource/portablesource/pkg/util/files"
)

// FindInstallRoot returns the first directory on the user's saved search path or on pathList
// whose name mentions portablesource and which holds the installed marker.
func FindInstallRoot(pathList string) (string, bool) {
	dirs := append(userPathEntries(), filepath.SplitList(pathList)...)
	for _, dir := range dirs {
		dir = strings.TrimSpace(dir)
		if dir == "" || !strings.Contains(strings.ToLower(dir), "portablesource") {
			continue
		}
		if ok, _ := files.Exists(filepath.Join(dir, InstalledMarker)); ok {
			return dir, true
		}
	}
	return "", false
}

// MarkInstalled writes the installed marker into the install root.
func (c *Config) MarkInstalled() error {
	if err := os.MkdirAll(c.Root, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.Root, InstalledMarker), []byte(c.Root+"\n"), 0o644)
}

// Installed reports whether the install root has been set up before.
func (c *Config) Installed() bool {
	ok, _ := files.Exists(filepath.Join(c.Root, InstalledMarker))
	return ok
}
