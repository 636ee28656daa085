package http

import (
	"fmt"
	"runtime"

	"github.com/portablesource/portablesource/pkg/global"
)

func UserAgent() string {
	return fmt.Sprintf("portablesource/%s (%s/%s)", global.Version, runtime.GOOS, runtime.GOARCH)
}
