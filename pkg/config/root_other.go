//go:build !windows

package config

func userPathEntries() []string {
	return nil
}
