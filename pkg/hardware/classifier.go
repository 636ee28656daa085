package hardware

import (
	"context"

	"github.com/portablesource/portablesource/pkg/util/console"
	"github.com/portablesource/portablesource/pkg/util/shell"
)

// Detection is the outcome of one device query.
type Detection struct {
	Class       Class
	Descriptors []string
	// Err is the device query failure, if any. Class is CPU when it is set.
	Err error
}

// Classifier derives the session's Class from a DeviceLister.
type Classifier struct {
	Lister DeviceLister
}

func NewClassifier(lister DeviceLister) *Classifier {
	return &Classifier{Lister: lister}
}

// DefaultLister asks NVML first, then the OS device listing tool.
func DefaultLister(runner shell.Runner) DeviceLister {
	return MultiLister{NewNVMLLister(), NewCommandLister(runner)}
}

// Detect queries the host and classifies the result. It never fails: a query error
// is logged, recorded on the Detection and the class falls back to CPU.
func (c *Classifier) Detect(ctx context.Context) Detection {
	descriptors, err := c.Lister.ListDevices(ctx)
	if err != nil {
		console.Warnf("Could not list display adapters, assuming CPU: %s", err)
		return Detection{Class: CPU, Err: err}
	}
	class := Classify(descriptors)
	console.Debugf("Detected %s from %d display adapter(s)", class, len(descriptors))
	return Detection{Class: class, Descriptors: descriptors}
}

// Classify returns the host's Class.
func (c *Classifier) Classify(ctx context.Context) Class {
	return c.Detect(ctx).Class
}
