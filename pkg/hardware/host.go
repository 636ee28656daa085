package hardware

import (
	"context"
	"runtime"

	"github.com/shirou/gopsutil/v3/host"
)

// HostInfo summarises the operating system for diagnostics.
type HostInfo struct {
	OS              string `json:"os"`
	Platform        string `json:"platform"`
	PlatformVersion string `json:"platform_version"`
	KernelArch      string `json:"kernel_arch"`
	Hostname        string `json:"hostname"`
}

// DescribeHost reads host details. On error it still returns what the Go runtime knows.
func DescribeHost(ctx context.Context) (HostInfo, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return HostInfo{OS: runtime.GOOS, KernelArch: runtime.GOARCH}, err
	}
	return HostInfo{
		OS:              info.OS,
		Platform:        info.Platform,
		PlatformVersion: info.PlatformVersion,
		KernelArch:      info.KernelArch,
		Hostname:        info.Hostname,
	}, nil
}
