package plan

import (
	"fmt"
	"strings"

	perrors "github.com/portablesource/portablesource/pkg/errors"
	"github.com/portablesource/portablesource/pkg/hardware"
)

// IncompatiblePairingError is returned when a step would install a build for a different
// accelerator family than the plan's class. It always indicates a bad table entry.
type IncompatiblePairingError struct {
	App   string
	Class hardware.Class
	// Step is the 1-based position of the offending step.
	Step int
	Kind StepKind
	// Package is empty when the index itself is the problem.
	Package  string
	IndexURL string
	Family   Family
	// Detail replaces the family mismatch in the message.
	Detail string
}

func (e *IncompatiblePairingError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s plan for %s: step %d (%s): %s", e.Class, e.App, e.Step, e.Kind, e.Detail)
	}
	if e.Package != "" {
		return fmt.Sprintf("%s plan for %s: step %d (%s) installs %s, a %s build", e.Class, e.App, e.Step, e.Kind, e.Package, e.Family)
	}
	index := e.IndexURL
	if index == "" {
		index = "the default index"
	}
	return fmt.Sprintf("%s plan for %s: step %d (%s) installs from %s, a %s index", e.Class, e.App, e.Step, e.Kind, index, e.Family)
}

func (e *IncompatiblePairingError) Code() string {
	return perrors.CodeIncompatiblePairing
}

// Validate checks that every step's index, packages and requirement lines belong to the
// plan's accelerator family, and that an NVIDIA framework step comes from a CUDA index.
func Validate(p *InstallationPlan) error {
	for i, step := range p.Steps {
		fail := &IncompatiblePairingError{
			App:      p.App,
			Class:    p.Class,
			Step:     i + 1,
			Kind:     step.Kind,
			IndexURL: step.IndexURL,
		}
		family := IndexFamily(step.IndexURL)
		if !family.Accepts(p.Class) {
			fail.Family = family
			return fail
		}
		if step.Kind == FrameworkStep && p.Class.UsesCUDA() && family != FamilyCUDA {
			fail.Family = family
			return fail
		}
		for _, pin := range step.Packages {
			if f := PackageFamily(pin); !f.Accepts(p.Class) {
				fail.Package = pin.String()
				fail.Family = f
				return fail
			}
		}
		for _, line := range step.Requirements {
			if f := RequirementFamily(line); !f.Accepts(p.Class) {
				fail.Package = strings.TrimSpace(line)
				fail.Family = f
				return fail
			}
		}
	}
	return nil
}
