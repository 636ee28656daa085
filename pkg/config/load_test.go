package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/portablesource/portablesource/pkg/global"
	"github.com/portablesource/portablesource/pkg/hardware"
)

func env(vars map[string]string) func(string) string {
	return func(name string) string {
		return vars[name]
	}
}

func writeConfig(t *testing.T, root string, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, global.ConfigFilename), []byte(contents), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	root := t.TempDir()
	c, err := load(Overrides{Root: root}, env(nil), "windows")
	require.NoError(t, err)
	require.Equal(t, root, c.Root)
	require.Equal(t, "", c.Filename())
	require.True(t, c.UseUV)
	require.Equal(t, hardware.Class(""), c.Hardware)
	require.Equal(t, filepath.Join(root, "sources"), c.SourcesDir)
	require.Equal(t, filepath.Join(root, "system", "git", "cmd", "git.exe"), c.Git)
	require.Equal(t, filepath.Join(root, "system", "git", "cmd"), c.GitDir())
	require.Equal(t, filepath.Join(root, "system", "python", "python.exe"), c.Python)
	require.Equal(t, filepath.Join(root, "system", "ffmpeg"), c.FFmpeg)
	require.Equal(t, filepath.Join(root, "system", "CUDA", "bin"), c.CUDADirs()[0])
}

func TestLoadLinuxPaths(t *testing.T) {
	root := t.TempDir()
	c, err := load(Overrides{Root: root}, env(nil), "linux")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "system", "git", "cmd", "git"), c.Git)
	require.Equal(t, filepath.Join(root, "system", "python", "bin", "python3"), c.Python)
	require.Equal(t, filepath.Join("venv", "bin", "python"), c.VenvPython("venv"))
}

func TestVenvPathsWindows(t *testing.T) {
	c := New("root", "windows")
	require.Equal(t, filepath.Join("venv", "Scripts"), c.VenvScripts("venv"))
	require.Equal(t, filepath.Join("venv", "Scripts", "python.exe"), c.VenvPython("venv"))
	require.Equal(t, filepath.Join("root", "sources", "facefusion"), c.AppDir("facefusion"))
}

func TestLoadConfigFile(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `
hardware: directml
language: ru
use_uv: false
sources_dir: apps
catalog: my-catalog.yaml
tools:
  git: /usr/bin/git
  python: python/bin/python3.10
`)
	c, err := load(Overrides{Root: root}, env(nil), "linux")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, global.ConfigFilename), c.Filename())
	require.Equal(t, hardware.DirectML, c.Hardware)
	require.Equal(t, "ru", c.Language)
	require.False(t, c.UseUV)
	require.Equal(t, filepath.Join(root, "apps"), c.SourcesDir)
	require.Equal(t, filepath.Join(root, "my-catalog.yaml"), c.Catalog)
	require.Equal(t, "/usr/bin/git", c.Git)
	require.Equal(t, filepath.Join(root, "python", "bin", "python3.10"), c.Python)
	require.Equal(t, filepath.Join(root, "system", "ffmpeg"), c.FFmpeg)
}

func TestLoadEmptyConfigFile(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "\n")
	c, err := load(Overrides{Root: root}, env(nil), "linux")
	require.NoError(t, err)
	require.True(t, c.UseUV)
}

func TestLoadPriority(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "hardware: cpu\nlanguage: en\n")

	c, err := load(Overrides{Root: root}, env(map[string]string{EnvHardware: "amd", EnvLanguage: "ru_RU.UTF-8"}), "linux")
	require.NoError(t, err)
	require.Equal(t, hardware.DirectML, c.Hardware)
	require.Equal(t, "ru", c.Language)

	c, err = load(Overrides{Root: root, Hardware: "nvidia", Language: "en"}, env(map[string]string{EnvHardware: "amd"}), "linux")
	require.NoError(t, err)
	require.Equal(t, hardware.NVIDIA, c.Hardware)
	require.Equal(t, "en", c.Language)
}

func TestLoadRootFromEnvironment(t *testing.T) {
	root := t.TempDir()
	c, err := load(Overrides{}, env(map[string]string{EnvRoot: root}), "linux")
	require.NoError(t, err)
	require.Equal(t, root, c.Root)
}

func TestLoadReportsAllInvalidValues(t *testing.T) {
	root := t.TempDir()
	_, err := load(Overrides{Root: root, Hardware: "rocm", Language: "de"}, env(nil), "linux")
	require.Error(t, err)
	require.ErrorContains(t, err, `invalid --hardware "rocm": must be one of nvidia, directml, cpu`)
	require.ErrorContains(t, err, `invalid --lang "de": must be en or ru`)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
}

func TestLoadSchemaErrors(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "use_uv: sometimes\n")
	_, err := load(Overrides{Root: root}, env(nil), "linux")
	var serr *SchemaError
	require.True(t, errors.As(err, &serr))
	require.ErrorContains(t, err, "use_uv must be a boolean")

	writeConfig(t, root, "mirrors: []\n")
	_, err = load(Overrides{Root: root}, env(nil), "linux")
	require.True(t, errors.As(err, &serr))

	writeConfig(t, root, "hardware: [unterminated\n")
	_, err = load(Overrides{Root: root}, env(nil), "linux")
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
}

func TestFindInstallRoot(t *testing.T) {
	base := t.TempDir()
	other := filepath.Join(base, "tools")
	installed := filepath.Join(base, "portablesource")
	notYet := filepath.Join(base, "portablesource-new")
	for _, dir := range []string{other, installed, notYet} {
		require.NoError(t, os.MkdirAll(dir, 0o755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(other, InstalledMarker), nil, 0o644))
	require.NoError(t, (&Config{Root: installed}).MarkInstalled())

	pathList := other + string(os.PathListSeparator) + notYet + string(os.PathListSeparator) + installed
	found, ok := FindInstallRoot(pathList)
	require.True(t, ok)
	require.Equal(t, installed, found)

	_, ok = FindInstallRoot(other)
	require.False(t, ok)

	c, err := load(Overrides{}, env(map[string]string{"PATH": pathList}), "linux")
	require.NoError(t, err)
	require.Equal(t, installed, c.Root)
	require.True(t, c.Installed())
}
