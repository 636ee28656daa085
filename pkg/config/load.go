package config

import (
	"bytes"
	// blank import for embeds
	_ "embed"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v2"

	"github.com/portablesource/portablesource/pkg/global"
	"github.com/portablesource/portablesource/pkg/hardware"
	"github.com/portablesource/portablesource/pkg/i18n"
	"github.com/portablesource/portablesource/pkg/util/console"
	"github.com/portablesource/portablesource/pkg/util/files"
	"github.com/portablesource/portablesource/pkg/util/schema"
)

const (
	EnvRoot     = "PORTABLESOURCE_ROOT"
	EnvHardware = "PORTABLESOURCE_HARDWARE"
	EnvLanguage = "PORTABLESOURCE_LANG"
)

//go:embed data/config_schema_v1.0.json
var schemaV1 []byte

// Overrides come from command line flags and take priority over everything else.
type Overrides struct {
	Root     string
	Hardware string
	Language string
}

// Load builds the configuration from, in increasing priority, the defaults, the config file
// in the install root, the environment and overrides. Invalid values are all reported
// together.
func Load(overrides Overrides) (*Config, error) {
	return load(overrides, os.Getenv, runtime.GOOS)
}

func load(overrides Overrides, getenv func(string) string, goos string) (*Config, error) {
	root, err := InstallRoot(overrides.Root, getenv)
	if err != nil {
		return nil, err
	}
	c := New(root, goos)

	path := filepath.Join(root, global.ConfigFilename)
	exists, err := files.Exists(path)
	if err != nil {
		return nil, err
	}
	result := NewValidationResult()
	if exists {
		contents, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		file, err := Parse(global.ConfigFilename, contents)
		if err != nil {
			return nil, err
		}
		c.apply(file, result)
		c.filename = path
		console.Debugf("Loaded %s", path)
	}

	c.setHardware(EnvHardware, getenv(EnvHardware), result)
	c.setLanguage(EnvLanguage, getenv(EnvLanguage), result)
	c.setHardware("--hardware", overrides.Hardware, result)
	c.setLanguage("--lang", overrides.Language, result)

	return c, result.Err()
}

// Parse validates a config document against the schema and decodes it.
func Parse(filename string, contents []byte) (*ConfigFile, error) {
	file := &ConfigFile{}
	if len(bytes.TrimSpace(contents)) == 0 {
		return file, nil
	}
	if err := schema.ValidateYAML(filename, schemaV1, contents); err != nil {
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			return nil, &SchemaError{Err: err}
		}
		return nil, &ParseError{Filename: filename, Err: err}
	}
	if err := yaml.UnmarshalStrict(contents, file); err != nil {
		return nil, &ParseError{Filename: filename, Err: err}
	}
	return file, nil
}

// InstallRoot picks the install root: the flag, then PORTABLESOURCE_ROOT, then an existing
// install found on the search path, then the working directory.
func InstallRoot(flag string, getenv func(string) string) (string, error) {
	root := flag
	if root == "" {
		root = getenv(EnvRoot)
	}
	if root == "" {
		if found, ok := FindInstallRoot(getenv("PATH")); ok {
			root = found
		}
	}
	if root == "" {
		root = "."
	}
	return files.ExpandPath(root)
}

func (c *Config) apply(file *ConfigFile, result *ValidationResult) {
	if file.Hardware != nil {
		c.setHardware("hardware", *file.Hardware, result)
	}
	if file.Language != nil {
		c.setLanguage("language", *file.Language, result)
	}
	if file.UseUV != nil {
		c.UseUV = *file.UseUV
	}
	if file.SourcesDir != nil {
		c.SourcesDir = c.resolve(*file.SourcesDir)
	}
	if file.Catalog != nil {
		c.Catalog = c.resolve(*file.Catalog)
	}
	if t := file.Tools; t != nil {
		for _, tool := range []struct {
			value *string
			dest  *string
		}{
			{t.Git, &c.Git},
			{t.Python, &c.Python},
			{t.FFmpeg, &c.FFmpeg},
			{t.CUDA, &c.CUDA},
		} {
			if tool.value != nil {
				*tool.dest = c.resolve(*tool.value)
			}
		}
	}
}

func (c *Config) setHardware(field string, value string, result *ValidationResult) {
	if strings.TrimSpace(value) == "" {
		return
	}
	class, err := hardware.ParseClass(value)
	if err != nil {
		result.AddError(&ValidationError{Field: field, Value: value, Message: "must be one of nvidia, directml, cpu"})
		return
	}
	c.Hardware = class
}

func (c *Config) setLanguage(field string, value string, result *ValidationResult) {
	if strings.TrimSpace(value) == "" {
		return
	}
	lang, ok := i18n.Normalize(value)
	if !ok {
		result.AddError(&ValidationError{Field: field, Value: value, Message: "must be en or ru"})
		return
	}
	c.Language = lang
}

func (c *Config) resolve(path string) string {
	if strings.HasPrefix(path, "~") {
		if expanded, err := homedir.Expand(path); err == nil {
			return expanded
		}
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Root, path)
}
