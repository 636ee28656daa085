// Package hardware classifies the accelerator available on the host.
//
// A session derives exactly one Class from the display adapters the OS reports. The
// Class decides which package variants get installed and whether launchers carry CUDA
// environment variables.
package hardware

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// Class is the accelerator family of a host.
type Class string

const (
	NVIDIA   Class = "nvidia"
	DirectML Class = "directml"
	CPU      Class = "cpu"
)

// Classes lists every class in priority order.
var Classes = []Class{NVIDIA, DirectML, CPU}

var _ pflag.Value = (*Class)(nil)

// String returns the upper-case label used in output, e.g. "DIRECTML".
func (c Class) String() string {
	if c == "" {
		return "UNKNOWN"
	}
	return strings.ToUpper(string(c))
}

// Valid reports whether c is one of the known classes.
func (c Class) Valid() bool {
	switch c {
	case NVIDIA, DirectML, CPU:
		return true
	}
	return false
}

// UsesCUDA reports whether packages for this class come from CUDA builds.
func (c Class) UsesCUDA() bool {
	return c == NVIDIA
}

// Set implements pflag.Value so a Class can be used directly as a flag.
func (c *Class) Set(s string) error {
	parsed, err := ParseClass(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Type implements pflag.Value.
func (c *Class) Type() string {
	return "hardware"
}

// ParseClass parses a class name. Vendor names are accepted too: "amd" and "intel" map to DirectML.
func ParseClass(s string) (Class, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nvidia", "cuda":
		return NVIDIA, nil
	case "directml", "dml", "amd", "intel":
		return DirectML, nil
	case "cpu":
		return CPU, nil
	}
	return "", fmt.Errorf("unknown hardware class %q, must be one of nvidia, directml, cpu", s)
}
