package hardware

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	perrors "github.com/portablesource/portablesource/pkg/errors"
	"github.com/portablesource/portablesource/pkg/util/console"
	"github.com/portablesource/portablesource/pkg/util/shell"
)

// DeviceLister returns free-text display adapter names for the host.
type DeviceLister interface {
	ListDevices(ctx context.Context) ([]string, error)
}

// StaticLister returns a fixed list. Used for overrides and tests.
type StaticLister []string

func (s StaticLister) ListDevices(ctx context.Context) ([]string, error) {
	return append([]string(nil), s...), nil
}

// CommandLister asks the OS for display adapters: wmic on Windows, lspci on Linux.
type CommandLister struct {
	Runner shell.Runner
	// GOOS defaults to runtime.GOOS.
	GOOS string
}

func NewCommandLister(runner shell.Runner) *CommandLister {
	return &CommandLister{Runner: runner, GOOS: runtime.GOOS}
}

func (l *CommandLister) ListDevices(ctx context.Context) ([]string, error) {
	goos := l.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	switch goos {
	case "windows":
		out, err := l.Runner.Output(ctx, "", "wmic", "path", "win32_VideoController", "get", "name")
		if err != nil {
			return nil, perrors.DeviceQueryFailed("wmic", err)
		}
		return parseWMIC(string(out)), nil
	case "linux":
		out, err := l.Runner.Output(ctx, "", "lspci")
		if err != nil {
			return nil, perrors.DeviceQueryFailed("lspci", err)
		}
		return parseLSPCI(string(out)), nil
	}
	return nil, perrors.DeviceQueryFailed(fmt.Sprintf("listing display adapters on %s", goos), errors.ErrUnsupported)
}

// parseWMIC drops the "Name" header and blank lines from wmic output.
func parseWMIC(out string) []string {
	var devices []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == "Name" {
			continue
		}
		devices = append(devices, line)
	}
	return devices
}

// parseLSPCI keeps display controllers from lspci output.
func parseLSPCI(out string) []string {
	var devices []string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "VGA") || strings.Contains(line, "3D") {
			devices = append(devices, strings.TrimSpace(line))
		}
	}
	return devices
}

// MultiLister merges the output of several listers in order. A lister that fails is
// logged and skipped; the merged call fails only when every lister failed.
type MultiLister []DeviceLister

func (m MultiLister) ListDevices(ctx context.Context) ([]string, error) {
	var devices []string
	var errs []error
	for _, l := range m {
		found, err := l.ListDevices(ctx)
		if err != nil {
			console.Debugf("Device listing failed: %s", err)
			errs = append(errs, err)
			continue
		}
		devices = append(devices, found...)
	}
	if len(m) > 0 && len(errs) == len(m) {
		return nil, errors.Join(errs...)
	}
	return devices, nil
}

// nvmlDescriptor makes sure datacenter names such as "Tesla T4" still carry the vendor keyword.
func nvmlDescriptor(name string) string {
	if strings.Contains(strings.ToUpper(name), vendorNVIDIA) {
		return name
	}
	return "NVIDIA " + name
}
