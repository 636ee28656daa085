//go:build !linux || !cgo || nonvml

package hardware

import (
	"context"
	"errors"

	perrors "github.com/portablesource/portablesource/pkg/errors"
)

// NVMLLister is only available on linux cgo builds and always fails.
type NVMLLister struct{}

func NewNVMLLister() *NVMLLister {
	return &NVMLLister{}
}

func (l *NVMLLister) ListDevices(ctx context.Context) ([]string, error) {
	return nil, perrors.DeviceQueryFailed("NVML", errors.ErrUnsupported)
}
