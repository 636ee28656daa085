//go:build windows

package i18n

import (
	"golang.org/x/sys/windows/registry"
)

// systemLocales returns the display locale from the user's regional settings, then the
// locale environment variables.
func systemLocales() []string {
	locales := []string{}
	key, err := registry.OpenKey(registry.CURRENT_USER, `Control Panel\International`, registry.QUERY_VALUE)
	if err == nil {
		defer key.Close()
		if name, _, err := key.GetStringValue("LocaleName"); err == nil {
			locales = append(locales, name)
		}
	}
	return append(locales, envLocales()...)
}
