// Package plan turns an application manifest and a hardware class into an ordered,
// internally consistent list of install steps.
//
// Resolution is a fixed table lookup, not dependency solving. Plans are built fresh for
// every run and validated before they are returned: a step whose package or index
// targets a different accelerator family than the plan is an IncompatiblePairingError.
package plan

import (
	"github.com/portablesource/portablesource/pkg/hardware"
	"github.com/portablesource/portablesource/pkg/requirements"
)

type StepKind string

const (
	// PackagesStep installs the manifest's pinned packages for the plan's class.
	PackagesStep StepKind = "packages"
	// RuntimeStep replaces whatever build of the inference runtime is installed with the
	// build for the plan's class.
	RuntimeStep StepKind = "runtime"
	// FrameworkStep installs the framework triple from the index matching the class.
	FrameworkStep StepKind = "framework"
	// RequirementsStep installs a repository's own requirements file.
	RequirementsStep StepKind = "requirements"
	// WheelStep installs a prebuilt wheel by URL.
	WheelStep StepKind = "wheel"
)

// Step is one pip invocation.
type Step struct {
	Kind     StepKind          `json:"kind"`
	Packages requirements.Pins `json:"packages,omitempty"`
	IndexURL string            `json:"index_url,omitempty"`

	// File and Requirements describe a RequirementsStep: the lines are written to File
	// before it is installed.
	File         string   `json:"file,omitempty"`
	Requirements []string `json:"requirements,omitempty"`

	// URL is the wheel a WheelStep installs.
	URL string `json:"url,omitempty"`

	// Reinstall forces the packages to replace an installed build without touching
	// their dependencies.
	Reinstall bool `json:"reinstall,omitempty"`
}

// Empty reports whether the step installs nothing.
func (s Step) Empty() bool {
	switch s.Kind {
	case RequirementsStep:
		return s.File == ""
	case WheelStep:
		return s.URL == ""
	}
	return len(s.Packages) == 0
}

// InstallArgs returns the arguments that follow "pip install" for this step.
func (s Step) InstallArgs() []string {
	args := []string{}
	switch s.Kind {
	case RequirementsStep:
		args = append(args, "-r", s.File)
	case WheelStep:
		args = append(args, s.URL)
	default:
		args = append(args, s.Packages.Strings()...)
	}
	if s.IndexURL != "" {
		args = append(args, "--index-url", s.IndexURL)
	}
	return args
}

// InstallationPlan is the ordered list of steps for one application on one class.
type InstallationPlan struct {
	App   string         `json:"app"`
	Class hardware.Class `json:"class"`
	Steps []Step         `json:"steps"`
}

// Packages returns every pinned package in step order.
func (p *InstallationPlan) Packages() requirements.Pins {
	pins := requirements.Pins{}
	for _, s := range p.Steps {
		pins = append(pins, s.Packages...)
	}
	return pins
}

// Step returns the first step of the given kind.
func (p *InstallationPlan) Step(kind StepKind) (Step, bool) {
	for _, s := range p.Steps {
		if s.Kind == kind {
			return s, true
		}
	}
	return Step{}, false
}

// Append adds other's steps after p's. Both plans must be for the same class.
func (p *InstallationPlan) Append(other *InstallationPlan) {
	p.Steps = append(p.Steps, other.Steps...)
}
