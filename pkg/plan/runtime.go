package plan

import (
	"github.com/portablesource/portablesource/pkg/hardware"
	"github.com/portablesource/portablesource/pkg/requirements"
)

const ONNXRuntime = "onnxruntime"

// runtimeBuilds is the only place runtime build compatibility lives. Every variant a
// manifest or requirements file names is replaced by the build pinned here.
var runtimeBuilds = map[string]map[hardware.Class]requirements.Pin{
	ONNXRuntime: {
		hardware.NVIDIA:   requirements.MustParsePin("onnxruntime-gpu==1.18.0"),
		hardware.DirectML: requirements.MustParsePin("onnxruntime-directml==1.17.3"),
		hardware.CPU:      requirements.MustParsePin("onnxruntime==1.19.2"),
	},
}

// RuntimePin returns the build of runtime to install for class.
func RuntimePin(runtime string, class hardware.Class) (requirements.Pin, bool) {
	builds, ok := runtimeBuilds[requirements.NormalizeName(runtime)]
	if !ok {
		return requirements.Pin{}, false
	}
	pin, ok := builds[class]
	return pin, ok
}

// RuntimeVariants returns the package names of every build of runtime, in class priority order.
func RuntimeVariants(runtime string) []string {
	builds := runtimeBuilds[requirements.NormalizeName(runtime)]
	names := []string{}
	for _, class := range hardware.Classes {
		if pin, ok := builds[class]; ok {
			names = append(names, pin.Name)
		}
	}
	return names
}

// IsRuntimeVariant reports whether name is a build of runtime.
func IsRuntimeVariant(runtime string, name string) bool {
	for _, v := range RuntimeVariants(runtime) {
		if requirements.NormalizeName(v) == requirements.NormalizeName(name) {
			return true
		}
	}
	return false
}
