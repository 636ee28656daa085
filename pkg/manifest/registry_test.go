package manifest

import (
	"testing"

	"github.com/stretchr/testify/require"

	perrors "github.com/portablesource/portablesource/pkg/errors"
	"github.com/portablesource/portablesource/pkg/hardware"
)

func TestDefaultCatalog(t *testing.T) {
	r := Default()
	names := []string{}
	for _, m := range r.Apps() {
		names = append(names, m.Name)
	}
	require.Equal(t, []string{
		"facefusion",
		"LivePortrait",
		"stable-diffusion-webui-forge",
		"ComfyUI",
		"Deep-Live-Cam",
		"Rope-Live",
	}, names)
}

func TestDefaultCatalogFacefusion(t *testing.T) {
	m, err := Default().Lookup("facefusion")
	require.NoError(t, err)
	require.Equal(t, "master", m.Branch)
	require.Equal(t, []string{"master", "next"}, m.Branches())
	require.Equal(t, []string{"facefusion.py", "run", "--open-browser"}, m.Command())
	require.Nil(t, m.Framework)

	nvidia, ok := m.PackagesFor(hardware.NVIDIA)
	require.True(t, ok)
	pin, ok := nvidia.Find("onnxruntime-gpu")
	require.True(t, ok)
	require.Equal(t, "1.18.0", pin.Version)

	directml, ok := m.PackagesFor(hardware.DirectML)
	require.True(t, ok)
	pin, ok = directml.Find("onnxruntime-directml")
	require.True(t, ok)
	require.Equal(t, "1.17.3", pin.Version)
}

func TestDefaultCatalogForgeFramework(t *testing.T) {
	m, err := Default().Lookup("stable-diffusion-webui-forge")
	require.NoError(t, err)
	require.NotNil(t, m.Framework)
	require.Equal(t, "torch", m.Framework.Name)
	require.Equal(t, "2.4.0", m.Framework.Version)
	require.True(t, m.Framework.AppliesTo(hardware.NVIDIA))

	nvidia, ok := m.PackagesFor(hardware.NVIDIA)
	require.True(t, ok)
	require.Empty(t, nvidia)
	_, ok = m.PackagesFor(hardware.CPU)
	require.False(t, ok)
}

func TestLookup(t *testing.T) {
	r := Default()
	for _, ref := range []string{"1", "facefusion", "FaceFusion", "https://github.com/facefusion/facefusion", "https://github.com/facefusion/facefusion.git/"} {
		m, err := r.Lookup(ref)
		require.NoError(t, err, ref)
		require.Equal(t, "facefusion", m.Name, ref)
	}

	m, err := r.Lookup("6")
	require.NoError(t, err)
	require.Equal(t, "Rope-Live", m.Name)

	for _, ref := range []string{"0", "7", "automatic1111", "https://github.com/someone/else"} {
		_, err := r.Lookup(ref)
		require.True(t, perrors.IsAppNotFound(err), ref)
	}
}

func TestResolveUnknownURL(t *testing.T) {
	m, err := Default().Resolve("https://github.com/someone/my-app.git")
	require.NoError(t, err)
	require.Equal(t, "my-app", m.Name)
	require.Equal(t, DefaultEntryPoint, m.EntryPoint)
	require.True(t, m.Requirements)

	_, err = Default().Resolve("my-app")
	require.True(t, perrors.IsAppNotFound(err))
}

func TestNameFromURL(t *testing.T) {
	require.Equal(t, "ComfyUI", NameFromURL("https://github.com/comfyanonymous/ComfyUI"))
	require.Equal(t, "Rope-Live", NameFromURL("https://github.com/argenspin/Rope-Live.git"))
	require.Equal(t, "facefusion", NameFromURL(" https://github.com/facefusion/facefusion/ "))
}

func TestEntryPointFor(t *testing.T) {
	require.Equal(t, "Rope.py", EntryPointFor("Rope-Live"))
	require.Equal(t, "main.py", EntryPointFor("ComfyUI"))
	require.Equal(t, "run.py", EntryPointFor("Deep-Live-Cam"))
	require.Equal(t, "app.py", EntryPointFor("unknown-repo"))
}

func TestLoadRejectsSchemaViolations(t *testing.T) {
	_, err := Load("catalog.yaml", []byte(`
apps:
  - name: broken
    url: https://github.com/x/broken
    entry_point: app.py
    packages:
      nvidia:
        - torch
`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "apps.0.packages.nvidia.0")

	_, err = Load("catalog.yaml", []byte(`
apps:
  - name: broken
    url: https://github.com/x/broken
    entry_point: app.py
    packages:
      rocm: []
`))
	require.Error(t, err)
}

func TestLoadRejectsSemanticErrors(t *testing.T) {
	_, err := Load("catalog.yaml", []byte(`
apps:
  - name: a
    url: https://github.com/x/a
    entry_point: app.py
  - name: A
    url: https://github.com/x/a2
    entry_point: app.py
`))
	require.ErrorContains(t, err, "duplicate app")

	_, err = Load("catalog.yaml", []byte(`
apps:
  - name: a
    url: https://github.com/x/a
    entry_point: app.py
    packages:
      cpu:
        - numpy==not.a.version
`))
	require.ErrorContains(t, err, "invalid version")

	_, err = Load("catalog.yaml", []byte(`
apps:
  - name: a
    url: https://github.com/x/a
    entry_point: app.py
    models:
      - https://example.com/model.onnx
`))
	require.ErrorContains(t, err, "models_dir")
}

func TestMerge(t *testing.T) {
	custom, err := Load("custom.yaml", []byte(`
apps:
  - name: facefusion
    url: https://github.com/me/facefusion-fork
    branch: dev
    entry_point: facefusion.py
  - name: my-tool
    url: https://github.com/me/my-tool
    entry_point: main.py
`))
	require.NoError(t, err)

	merged := Default().Merge(custom)
	require.Equal(t, Default().Len()+1, merged.Len())

	m, err := merged.Lookup("1")
	require.NoError(t, err)
	require.Equal(t, "dev", m.Branch)

	m, err = merged.Lookup("my-tool")
	require.NoError(t, err)
	require.Equal(t, "main.py", m.EntryPoint)

	original, err := Default().Lookup("facefusion")
	require.NoError(t, err)
	require.Equal(t, "master", original.Branch)
}
