package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/portablesource/portablesource/pkg/hardware"
	"github.com/portablesource/portablesource/pkg/requirements"
)

func TestIndexFamily(t *testing.T) {
	for url, want := range map[string]Family{
		"":                                        FamilyGeneric,
		"https://pypi.org/simple":                 FamilyGeneric,
		"https://download.pytorch.org/whl/cu124":  FamilyCUDA,
		"https://download.pytorch.org/whl/cu118/": FamilyCUDA,
		"https://download.pytorch.org/whl/CPU":    FamilyCPU,
	} {
		require.Equal(t, want, IndexFamily(url), url)
	}
}

func TestPackageFamily(t *testing.T) {
	for pin, want := range map[string]Family{
		"onnxruntime-gpu==1.18.0":      FamilyCUDA,
		"onnxruntime_gpu==1.18.0":      FamilyCUDA,
		"torch==2.4.0+cu124":           FamilyCUDA,
		"torch==2.4.0+cpu":             FamilyCPU,
		"onnxruntime-directml==1.17.3": FamilyDirectML,
		"onnxruntime==1.19.2":          FamilyGeneric,
		"torch==2.4.0":                 FamilyGeneric,
	} {
		require.Equal(t, want, PackageFamily(requirements.MustParsePin(pin)), pin)
	}
}

func TestURLFamily(t *testing.T) {
	for _, tt := range []struct {
		url  string
		want Family
	}{
		{"https://download.pytorch.org/whl/cu118/torch-2.0.1%2Bcu118-cp310-cp310-win_amd64.whl", FamilyCUDA},
		{"https://download.pytorch.org/whl/cpu/torch-2.0.1-cp310-cp310-win_amd64.whl", FamilyCPU},
		{"https://example.com/wheels/torch-2.0.1+cu118-cp310-cp310-linux_x86_64.whl", FamilyCUDA},
		{"https://example.com/wheels/tool-1.0-py3-none-any.whl", FamilyGeneric},
	} {
		require.Equal(t, tt.want, URLFamily(tt.url), tt.url)
	}
}

func TestRequirementFamily(t *testing.T) {
	for _, tt := range []struct {
		line string
		want Family
	}{
		{"tensorflow-gpu>=2.10", FamilyCUDA},
		{"onnxruntime_directml", FamilyDirectML},
		{"xformers==0.0.22+cu118 ; sys_platform == 'linux'", FamilyCUDA},
		{"numpy>=1.26", FamilyGeneric},
		{"-f https://download.pytorch.org/whl/cu118", FamilyGeneric},
		{"torch @ https://download.pytorch.org/whl/cu118/torch-2.0.1%2Bcu118-cp310-cp310-win_amd64.whl", FamilyCUDA},
		{"onnxruntime-gpu @ https://example.com/onnxruntime_gpu-1.18.0-cp310-cp310-win_amd64.whl", FamilyCUDA},
	} {
		require.Equal(t, tt.want, RequirementFamily(tt.line), tt.line)
	}
}

func TestFamilyAccepts(t *testing.T) {
	require.True(t, FamilyCUDA.Accepts(hardware.NVIDIA))
	require.False(t, FamilyCUDA.Accepts(hardware.DirectML))
	require.False(t, FamilyCUDA.Accepts(hardware.CPU))
	require.True(t, FamilyDirectML.Accepts(hardware.DirectML))
	require.False(t, FamilyDirectML.Accepts(hardware.CPU))
	require.False(t, FamilyCPU.Accepts(hardware.NVIDIA))
	require.True(t, FamilyCPU.Accepts(hardware.DirectML))
	for _, class := range hardware.Classes {
		require.True(t, FamilyGeneric.Accepts(class))
	}
}

func TestValidate(t *testing.T) {
	torch := pins("torch==2.4.0", "torchvision==0.19.0", "torchaudio==2.4.0")

	require.NoError(t, Validate(&InstallationPlan{App: "a", Class: hardware.CPU, Steps: []Step{
		{Kind: FrameworkStep, Packages: torch, IndexURL: "https://download.pytorch.org/whl/cpu"},
	}}))

	err := Validate(&InstallationPlan{App: "a", Class: hardware.DirectML, Steps: []Step{
		{Kind: PackagesStep, Packages: pins("numpy==1.26.4")},
		{Kind: FrameworkStep, Packages: torch, IndexURL: "https://download.pytorch.org/whl/cu124"},
	}})
	require.EqualError(t, err, "DIRECTML plan for a: step 2 (framework) installs from https://download.pytorch.org/whl/cu124, a cuda index")

	err = Validate(&InstallationPlan{App: "a", Class: hardware.NVIDIA, Steps: []Step{
		{Kind: FrameworkStep, Packages: torch},
	}})
	require.EqualError(t, err, "NVIDIA plan for a: step 1 (framework) installs from the default index, a generic index")

	err = Validate(&InstallationPlan{App: "a", Class: hardware.NVIDIA, Steps: []Step{
		{Kind: RuntimeStep, Packages: pins("onnxruntime-directml==1.17.3")},
	}})
	require.ErrorContains(t, err, "onnxruntime-directml==1.17.3, a directml build")
}

func TestRuntimeTable(t *testing.T) {
	require.Equal(t, []string{"onnxruntime-gpu", "onnxruntime-directml", "onnxruntime"}, RuntimeVariants(ONNXRuntime))
	require.True(t, IsRuntimeVariant("onnxruntime", "onnxruntime_gpu"))
	require.False(t, IsRuntimeVariant("onnxruntime", "onnx"))
	for _, class := range hardware.Classes {
		pin, ok := RuntimePin(ONNXRuntime, class)
		require.True(t, ok)
		require.True(t, PackageFamily(pin).Accepts(class))
	}
	_, ok := RuntimePin("tensorrt", hardware.NVIDIA)
	require.False(t, ok)
}

func TestTorchFor(t *testing.T) {
	c, err := TorchFor("2.4.0", hardware.NVIDIA)
	require.NoError(t, err)
	require.Equal(t, "https://download.pytorch.org/whl/cu124", c.IndexURL)
	require.Equal(t, "12.4", *c.CUDA)

	c, err = TorchFor("2.3.1", hardware.NVIDIA)
	require.NoError(t, err)
	require.Equal(t, "https://download.pytorch.org/whl/cu121", c.IndexURL)

	c, err = TorchFor("2.4.0", hardware.DirectML)
	require.NoError(t, err)
	require.Nil(t, c.CUDA)
	require.Equal(t, "", c.IndexURL)

	_, err = FrameworkFor("tensorflow", "2.15.0", hardware.CPU)
	require.ErrorContains(t, err, "unsupported framework")
}
