//go:build linux && cgo && !nonvml

package hardware

import (
	"context"
	"fmt"

	"github.com/NVIDIA/go-nvml/pkg/nvml"

	perrors "github.com/portablesource/portablesource/pkg/errors"
)

// NVMLLister reports NVIDIA devices through the driver's management library. It fails when
// no NVIDIA driver is installed, which MultiLister treats as "nothing found here".
type NVMLLister struct{}

func NewNVMLLister() *NVMLLister {
	return &NVMLLister{}
}

func (l *NVMLLister) ListDevices(ctx context.Context) ([]string, error) {
	if ret := nvml.Init(); ret != nvml.SUCCESS {
		return nil, perrors.DeviceQueryFailed("NVML init", fmt.Errorf("%s", nvml.ErrorString(ret)))
	}
	defer nvml.Shutdown()

	count, ret := nvml.DeviceGetCount()
	if ret != nvml.SUCCESS {
		return nil, perrors.DeviceQueryFailed("NVML device count", fmt.Errorf("%s", nvml.ErrorString(ret)))
	}
	devices := make([]string, 0, count)
	for i := 0; i < count; i++ {
		device, ret := nvml.DeviceGetHandleByIndex(i)
		if ret != nvml.SUCCESS {
			continue
		}
		name, ret := device.GetName()
		if ret != nvml.SUCCESS {
			continue
		}
		devices = append(devices, nvmlDescriptor(name))
	}
	return devices, nil
}
