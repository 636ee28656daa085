package requirements

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestParsePin(t *testing.T) {
	for _, tt := range []struct {
		input   string
		name    string
		version string
	}{
		{"onnxruntime-gpu==1.18.0", "onnxruntime-gpu", "1.18.0"},
		{"opencv-python==4.10.0.84", "opencv-python", "4.10.0.84"},
		{" torch == 2.4.0+cu124 ", "torch", "2.4.0+cu124"},
		{"gradio-rangeslider==0.0.6", "gradio-rangeslider", "0.0.6"},
	} {
		pin, err := ParsePin(tt.input)
		require.NoError(t, err, tt.input)
		require.Equal(t, tt.name, pin.Name)
		require.Equal(t, tt.version, pin.Version)
	}
}

func TestParsePinRejectsUnpinned(t *testing.T) {
	for _, input := range []string{"torch", "torch>=2.0", "==1.0", "torch==", "torch==latest", "to rch==1.0"} {
		_, err := ParsePin(input)
		require.Error(t, err, input)
	}
}

func TestPinHelpers(t *testing.T) {
	pin := MustParsePin("torch==2.4.0+cu124")
	require.Equal(t, "torch==2.4.0+cu124", pin.String())
	require.Equal(t, "cu124", pin.LocalVersion())
	require.True(t, MustParsePin("Onnx_Runtime==1.0").Is("onnx-runtime"))
	require.True(t, MustParsePin("onnxruntime==1.19.2").NewerThan(MustParsePin("onnxruntime==1.18.0")))
	require.False(t, MustParsePin("onnxruntime==1.17.3").NewerThan(MustParsePin("onnxruntime==1.18.0")))
}

func TestPinsFindAndWithout(t *testing.T) {
	pins := Pins{MustParsePin("numpy==1.26.4"), MustParsePin("onnxruntime-gpu==1.18.0"), MustParsePin("tqdm==4.66.5")}

	found, ok := pins.Find("onnxruntime_gpu")
	require.True(t, ok)
	require.Equal(t, "1.18.0", found.Version)

	require.Equal(t, []string{"numpy==1.26.4", "tqdm==4.66.5"}, pins.Without("onnxruntime-gpu").Strings())
}

func TestPinYAMLAndJSON(t *testing.T) {
	var out struct {
		Packages Pins `yaml:"packages"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("packages:\n  - filetype==1.2.0\n  - onnx==1.16.1\n"), &out))
	require.Equal(t, []string{"filetype==1.2.0", "onnx==1.16.1"}, out.Packages.Strings())

	var unpinned struct {
		Packages Pins `yaml:"packages"`
	}
	require.Error(t, yaml.Unmarshal([]byte("packages:\n  - filetype\n"), &unpinned))

	data, err := json.Marshal(out.Packages)
	require.NoError(t, err)
	require.JSONEq(t, `["filetype==1.2.0","onnx==1.16.1"]`, string(data))

	var decoded Pins
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, out.Packages, decoded)
}
