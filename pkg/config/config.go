// Package config resolves the install root and the locations of the bundled tools once
// at startup. Everything else receives the resulting *Config.
package config

import (
	"path/filepath"

	"github.com/portablesource/portablesource/pkg/hardware"
)

const (
	SystemDirName  = "system"
	SourcesDirName = "sources"
	// InstalledMarker marks a directory as a finished install root.
	InstalledMarker = "installed.txt"
)

type Config struct {
	Root string
	GOOS string

	// Hardware skips detection when set.
	Hardware hardware.Class
	// Language is "en" or "ru", or empty to detect it from the system.
	Language string
	UseUV    bool

	SourcesDir string
	// Catalog is an extra catalog file merged over the built-in one.
	Catalog string

	Git    string
	Python string
	FFmpeg string
	CUDA   string

	filename string
}

// New returns the default configuration for an install root on goos.
func New(root string, goos string) *Config {
	system := filepath.Join(root, SystemDirName)
	c := &Config{
		Root:       root,
		GOOS:       goos,
		UseUV:      true,
		SourcesDir: filepath.Join(root, SourcesDirName),
		FFmpeg:     filepath.Join(system, "ffmpeg"),
		CUDA:       filepath.Join(system, "CUDA"),
	}
	c.Git = filepath.Join(system, "git", "cmd", c.Exe("git"))
	if goos == "windows" {
		c.Python = filepath.Join(system, "python", "python.exe")
	} else {
		c.Python = filepath.Join(system, "python", "bin", "python3")
	}
	return c
}

// Filename returns the config file that was loaded, or "" if there was none.
func (c *Config) Filename() string {
	return c.filename
}

func (c *Config) SystemDir() string {
	return filepath.Join(c.Root, SystemDirName)
}

// AppDir returns where an application is cloned.
func (c *Config) AppDir(name string) string {
	return filepath.Join(c.SourcesDir, name)
}

// GitDir returns the directory holding the git executable.
func (c *Config) GitDir() string {
	return filepath.Dir(c.Git)
}

// CUDADirs returns the CUDA directories launchers put on PATH.
func (c *Config) CUDADirs() []string {
	return []string{
		filepath.Join(c.CUDA, "bin"),
		filepath.Join(c.CUDA, "lib"),
		filepath.Join(c.CUDA, "include"),
		filepath.Join(c.CUDA, "libnvvp"),
	}
}

// Exe returns name with the executable suffix of the target OS.
func (c *Config) Exe(name string) string {
	if c.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

// VenvScripts returns the directory of a virtualenv's executables.
func (c *Config) VenvScripts(venv string) string {
	if c.GOOS == "windows" {
		return filepath.Join(venv, "Scripts")
	}
	return filepath.Join(venv, "bin")
}

// VenvPython returns a virtualenv's interpreter.
func (c *Config) VenvPython(venv string) string {
	return filepath.Join(c.VenvScripts(venv), c.Exe("python"))
}
