package plan

import (
	"fmt"
	"slices"
	"strings"

	perrors "github.com/portablesource/portablesource/pkg/errors"
	"github.com/portablesource/portablesource/pkg/hardware"
	"github.com/portablesource/portablesource/pkg/manifest"
	"github.com/portablesource/portablesource/pkg/requirements"
	"github.com/portablesource/portablesource/pkg/util/console"
)

// InsightfaceWheel is a prebuilt insightface for CPython 3.10 on 64-bit Windows, where
// building it from source needs a compiler toolchain.
const InsightfaceWheel = "https://huggingface.co/hanamizuki-ai/insightface-releases/resolve/main/insightface-0.7.3-cp310-cp310-win_amd64.whl"

// Resolve builds the plan for installing m on class hw. Steps come in a fixed order:
// the base package set, the runtime override, then the framework triple.
//
// A manifest without packages for hw falls back to its CPU list, or to an empty package
// step. The only error is an *IncompatiblePairingError.
func Resolve(m *manifest.Manifest, hw hardware.Class) (*InstallationPlan, error) {
	p := &InstallationPlan{App: m.Name, Class: hw, Steps: []Step{}}

	base, err := basePackages(m, hw)
	if err != nil {
		if len(base) == 0 {
			console.Warnf("%s, skipping the package step", err)
		} else {
			console.Infof("%s, using its CPU packages", err)
		}
	}
	p.Steps = append(p.Steps, Step{Kind: PackagesStep, Packages: base})

	if m.Runtime != "" && slices.ContainsFunc(base, func(pin requirements.Pin) bool {
		return IsRuntimeVariant(m.Runtime, pin.Name)
	}) {
		if pin, ok := RuntimePin(m.Runtime, hw); ok {
			p.Steps = append(p.Steps, Step{Kind: RuntimeStep, Packages: requirements.Pins{pin}, Reinstall: true})
		}
	}

	if m.Framework.AppliesTo(hw) {
		build, err := FrameworkFor(m.Framework.Name, m.Framework.Version, hw)
		if err != nil {
			return nil, &IncompatiblePairingError{
				App:     m.Name,
				Class:   hw,
				Step:    len(p.Steps) + 1,
				Kind:    FrameworkStep,
				Package: fmt.Sprintf("%s==%s", m.Framework.Name, m.Framework.Version),
				Detail:  err.Error(),
			}
		}
		p.Steps = append(p.Steps, Step{Kind: FrameworkStep, Packages: build.Pins(), IndexURL: build.IndexURL})
	} else if m.Framework != nil {
		console.Debugf("Skipping %s for %s on %s", m.Framework.Name, m.Name, hw)
	}

	if err := Validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

// basePackages returns m's pins for hw with runtime variants replaced by the build for hw.
// The error is a ManifestIncomplete when the CPU list or nothing had to be used instead.
func basePackages(m *manifest.Manifest, hw hardware.Class) (requirements.Pins, error) {
	if len(m.Packages) == 0 {
		return requirements.Pins{}, nil
	}
	pins, ok := m.PackagesFor(hw)
	var err error
	if !ok {
		pins, ok = m.PackagesFor(hardware.CPU)
		err = perrors.ManifestIncomplete(fmt.Sprintf("%s declares no packages for %s", m.Name, hw))
	}
	if !ok {
		return requirements.Pins{}, err
	}
	out := make(requirements.Pins, 0, len(pins))
	for _, pin := range pins {
		if m.Runtime != "" && IsRuntimeVariant(m.Runtime, pin.Name) {
			if build, ok := RuntimePin(m.Runtime, hw); ok {
				if build != pin {
					console.Debugf("Using %s instead of %s for %s", build, pin, hw)
				}
				pin = build
			}
		}
		out = append(out, pin)
	}
	return out, err
}

// Options configure how a repository's own requirements file is planned.
type Options struct {
	// File is where the filtered requirements are written before installing.
	File string
	// Wheels maps package names to prebuilt wheel URLs installed instead of the requirement.
	Wheels map[string]string
}

// DefaultOptions returns the options for a repository checked out on goos.
func DefaultOptions(goos string, file string) Options {
	opts := Options{File: file, Wheels: map[string]string{}}
	if goos == "windows" {
		opts.Wheels["insightface"] = InsightfaceWheel
	}
	return opts
}

// ResolveRequirements plans the installation of a repository's requirements file for hw.
// Index options, the torch triple, runtime builds and packages with a wheel are taken out
// of the file and installed by their own steps, in this order: requirements, wheels,
// runtime override, framework triple. Builds for another accelerator family are dropped.
// The runtime override is always added, whether or not the file names onnxruntime.
func ResolveRequirements(app string, lines []string, hw hardware.Class, opts Options) (*InstallationPlan, error) {
	p := &InstallationPlan{App: app, Class: hw, Steps: []Step{}}

	wantsTorch := requirements.Mentions(lines, TorchPackages...)

	wheels := make([]string, 0, len(opts.Wheels))
	for name := range opts.Wheels {
		if requirements.Mentions(lines, name) {
			wheels = append(wheels, name)
		}
	}
	slices.Sort(wheels)

	drop := append(append([]string{}, TorchPackages...), RuntimeVariants(ONNXRuntime)...)
	drop = append(drop, wheels...)
	kept := []string{}
	for _, line := range requirements.Filter(lines, drop...) {
		if isIndexOption(line) {
			continue
		}
		if f := RequirementFamily(line); !f.Accepts(hw) {
			console.Warnf("Skipping %s, a %s build cannot run on %s", line, f, hw)
			continue
		}
		kept = append(kept, line)
	}

	p.Steps = append(p.Steps, Step{Kind: RequirementsStep, File: opts.File, Requirements: kept})
	for _, name := range wheels {
		p.Steps = append(p.Steps, Step{Kind: WheelStep, URL: opts.Wheels[name]})
	}
	if pin, ok := RuntimePin(ONNXRuntime, hw); ok {
		p.Steps = append(p.Steps, Step{Kind: RuntimeStep, Packages: requirements.Pins{pin}, Reinstall: true})
	}
	if wantsTorch {
		build, err := TorchFor(DefaultTorchVersion, hw)
		if err != nil {
			return nil, err
		}
		p.Steps = append(p.Steps, Step{Kind: FrameworkStep, Packages: build.Pins(), IndexURL: build.IndexURL})
	}

	if err := Validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

func isIndexOption(line string) bool {
	line = strings.TrimSpace(line)
	for _, opt := range []string{"-i", "--index-url", "--extra-index-url"} {
		if line == opt || strings.HasPrefix(line, opt+" ") || strings.HasPrefix(line, opt+"=") {
			return true
		}
	}
	return false
}
