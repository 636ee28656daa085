package plan

import (
	// blank import for embeds
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/portablesource/portablesource/pkg/hardware"
	"github.com/portablesource/portablesource/pkg/requirements"
	"github.com/portablesource/portablesource/pkg/util/console"
)

const (
	Torch = "torch"
	// DefaultTorchVersion is installed for repositories outside the catalog that require torch.
	DefaultTorchVersion = "2.4.0"
)

// TorchPackages are the members of the torch framework triple.
var TorchPackages = []string{"torch", "torchvision", "torchaudio"}

type TorchCompatibility struct {
	Torch       string
	Torchvision string
	Torchaudio  string
	// IndexURL is empty for the default index.
	IndexURL string
	// CUDA is nil for builds without CUDA.
	CUDA *string
}

func (c *TorchCompatibility) TorchVersion() string {
	parts := strings.Split(c.Torch, "+")
	return parts[0]
}

// Pins returns the framework triple.
func (c *TorchCompatibility) Pins() requirements.Pins {
	return requirements.Pins{
		requirements.NewPin("torch", c.Torch),
		requirements.NewPin("torchvision", c.Torchvision),
		requirements.NewPin("torchaudio", c.Torchaudio),
	}
}

//go:embed data/torch_compatibility_matrix.json
var torchCompatibilityMatrixData []byte

// TorchCompatibilityMatrix is ordered newest CUDA first within each torch version.
var TorchCompatibilityMatrix []TorchCompatibility

func init() {
	if err := json.Unmarshal(torchCompatibilityMatrixData, &TorchCompatibilityMatrix); err != nil {
		console.Fatalf("Failed to load embedded PyTorch compatibility matrix: %s", err)
	}
	for _, c := range TorchCompatibilityMatrix {
		for _, pin := range c.Pins() {
			if err := pin.Validate(); err != nil {
				console.Fatalf("Invalid entry in embedded PyTorch compatibility matrix: %s", err)
			}
		}
	}
}

// TorchFor returns the torch build for class: the newest CUDA build for NVIDIA and the
// default-index build otherwise.
func TorchFor(version string, class hardware.Class) (*TorchCompatibility, error) {
	for i, c := range TorchCompatibilityMatrix {
		if c.TorchVersion() != version {
			continue
		}
		if class.UsesCUDA() == (c.CUDA != nil) {
			return &TorchCompatibilityMatrix[i], nil
		}
	}
	return nil, fmt.Errorf("no %s build of torch %s is known", class, version)
}

// FrameworkFor returns the compatible build of a framework for class.
func FrameworkFor(name string, version string, class hardware.Class) (*TorchCompatibility, error) {
	if requirements.NormalizeName(name) != Torch {
		return nil, fmt.Errorf("unsupported framework %q", name)
	}
	return TorchFor(version, class)
}
