//go:build windows

package config

import (
	"strings"

	"golang.org/x/sys/windows/registry"

	"github.com/portablesource/portablesource/pkg/util/console"
)

// userPathEntries reads the per-user Path saved in the registry, which is not yet in the
// environment of a shell opened before the install.
func userPathEntries() []string {
	key, err := registry.OpenKey(registry.CURRENT_USER, `Environment`, registry.QUERY_VALUE)
	if err != nil {
		console.Debugf("Failed to open user environment key: %s", err)
		return nil
	}
	defer key.Close()
	path, _, err := key.GetStringValue("Path")
	if err != nil {
		return nil
	}
	return strings.Split(path, ";")
}
