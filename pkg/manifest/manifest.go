// Package manifest holds the catalog of applications portablesource knows how to install.
//
// Each Manifest declares, per hardware class, the exact packages an application needs and
// optionally the deep-learning framework it runs on. The catalog is embedded in the binary,
// validated once when first used and never modified afterwards.
package manifest

import (
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/portablesource/portablesource/pkg/hardware"
	"github.com/portablesource/portablesource/pkg/requirements"
)

const DefaultEntryPoint = "app.py"

// Manifest describes one installable application. Treat it as read-only.
type Manifest struct {
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`
	// Branch is checked out on clone. Empty means the remote's default branch.
	Branch        string   `yaml:"branch" json:"branch,omitempty"`
	ExtraBranches []string `yaml:"extra_branches" json:"extra_branches,omitempty"`
	// BranchDirs clones every branch into its own directory under sources/<name>/.
	BranchDirs bool     `yaml:"branch_dirs" json:"branch_dirs,omitempty"`
	EntryPoint string   `yaml:"entry_point" json:"entry_point"`
	Args       []string `yaml:"args" json:"args,omitempty"`

	// Runtime names the inference runtime whose build depends on the hardware class,
	// e.g. "onnxruntime". Any of its variants in a package list is resolved per class.
	Runtime string `yaml:"runtime" json:"runtime,omitempty"`

	Packages  map[hardware.Class]requirements.Pins `yaml:"packages" json:"packages,omitempty"`
	Framework *Framework                           `yaml:"framework" json:"framework,omitempty"`

	// Requirements installs the repository's own requirements.txt before the declared packages.
	Requirements bool `yaml:"requirements" json:"requirements,omitempty"`

	ModelsDir string   `yaml:"models_dir" json:"models_dir,omitempty"`
	Models    []string `yaml:"models" json:"models,omitempty"`
}

// Framework is a deep-learning framework requirement, e.g. torch 2.4.0. Companion packages
// and the package index are chosen per hardware class by the plan resolver.
type Framework struct {
	Name          string           `yaml:"name" json:"name"`
	Version       string           `yaml:"version" json:"version"`
	NotApplicable []hardware.Class `yaml:"not_applicable" json:"not_applicable,omitempty"`
}

// AppliesTo reports whether the framework should be installed for class.
func (f *Framework) AppliesTo(class hardware.Class) bool {
	return f != nil && f.Name != "" && !slices.Contains(f.NotApplicable, class)
}

// PackagesFor returns the package list declared for class and whether one was declared.
func (m *Manifest) PackagesFor(class hardware.Class) (requirements.Pins, bool) {
	pins, ok := m.Packages[class]
	return pins, ok
}

// Branches returns the main branch followed by any extra branches.
func (m *Manifest) Branches() []string {
	branches := []string{}
	if m.Branch != "" {
		branches = append(branches, m.Branch)
	}
	return append(branches, m.ExtraBranches...)
}

// Command returns the entry point followed by its arguments.
func (m *Manifest) Command() []string {
	return append([]string{m.EntryPoint}, m.Args...)
}

func (m *Manifest) validate() error {
	if m.Name == "" {
		return fmt.Errorf("app without a name")
	}
	if m.URL == "" {
		return fmt.Errorf("%s: url is required", m.Name)
	}
	if m.EntryPoint == "" {
		return fmt.Errorf("%s: entry_point is required", m.Name)
	}
	for class, pins := range m.Packages {
		if !class.Valid() {
			return fmt.Errorf("%s: unknown hardware class %q in packages", m.Name, string(class))
		}
		for _, pin := range pins {
			if err := pin.Validate(); err != nil {
				return fmt.Errorf("%s: %w", m.Name, err)
			}
		}
	}
	if m.Framework != nil {
		if m.Framework.Name == "" || m.Framework.Version == "" {
			return fmt.Errorf("%s: framework needs a name and a version", m.Name)
		}
		for _, class := range m.Framework.NotApplicable {
			if !class.Valid() {
				return fmt.Errorf("%s: unknown hardware class %q in framework.not_applicable", m.Name, string(class))
			}
		}
	}
	if len(m.Models) > 0 && m.ModelsDir == "" {
		return fmt.Errorf("%s: models_dir is required when models are listed", m.Name)
	}
	return nil
}

// NameFromURL returns the repository name of a git URL, e.g. "facefusion" for
// https://github.com/facefusion/facefusion.git.
func NameFromURL(url string) string {
	url = strings.TrimRight(strings.TrimSpace(url), "/")
	return strings.TrimSuffix(path.Base(url), ".git")
}

// EntryPointFor returns the script that starts a known repository, or DefaultEntryPoint.
func EntryPointFor(name string) string {
	if m, err := Default().Lookup(name); err == nil {
		return m.EntryPoint
	}
	return DefaultEntryPoint
}

// ForURL returns an ad-hoc manifest for a repository outside the catalog. It installs the
// repository's requirements.txt and nothing else.
func ForURL(url string) *Manifest {
	name := NameFromURL(url)
	return &Manifest{
		Name:         name,
		URL:          strings.TrimSpace(url),
		EntryPoint:   EntryPointFor(name),
		Requirements: true,
	}
}
