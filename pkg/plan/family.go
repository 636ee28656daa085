package plan

import (
	"path"
	"regexp"
	"strings"

	"github.com/portablesource/portablesource/pkg/hardware"
	"github.com/portablesource/portablesource/pkg/requirements"
)

// Family is the accelerator family a package build or package index targets.
type Family string

const (
	// FamilyGeneric builds run everywhere, e.g. anything from PyPI.
	FamilyGeneric  Family = "generic"
	FamilyCUDA     Family = "cuda"
	FamilyDirectML Family = "directml"
	// FamilyCPU builds explicitly exclude CUDA, e.g. the /whl/cpu torch index.
	FamilyCPU Family = "cpu"
)

var (
	cudaLocalPattern  = regexp.MustCompile(`^cu\d+$`)
	indexPattern      = regexp.MustCompile(`/whl/(cu\d+|cpu)/?$`)
	wheelLocalPattern = regexp.MustCompile(`(?:\+|%2b)(cu\d+|cpu)-`)
)

// Accepts reports whether a build of this family can be installed for class.
func (f Family) Accepts(class hardware.Class) bool {
	switch f {
	case FamilyCUDA:
		return class == hardware.NVIDIA
	case FamilyDirectML:
		return class == hardware.DirectML
	case FamilyCPU:
		return class != hardware.NVIDIA
	}
	return true
}

// IndexFamily classifies a package index URL. download.pytorch.org/whl/cuXYZ is CUDA,
// /whl/cpu is CPU-only and everything else, including no index, is generic.
func IndexFamily(url string) Family {
	url = strings.ToLower(strings.TrimSpace(url))
	m := indexPattern.FindStringSubmatch(url)
	if m == nil {
		return FamilyGeneric
	}
	if m[1] == "cpu" {
		return FamilyCPU
	}
	return FamilyCUDA
}

// PackageFamily classifies a pinned build by its name suffix and local version label:
// "-gpu" and "+cuXYZ" are CUDA, "-directml" is DirectML and "+cpu" is CPU-only.
func PackageFamily(pin requirements.Pin) Family {
	local := strings.ToLower(pin.LocalVersion())
	switch {
	case cudaLocalPattern.MatchString(local):
		return FamilyCUDA
	case local == "cpu":
		return FamilyCPU
	}
	name := requirements.NormalizeName(pin.Name)
	switch {
	case strings.HasSuffix(name, "-gpu"):
		return FamilyCUDA
	case strings.HasSuffix(name, "-directml"):
		return FamilyDirectML
	}
	return FamilyGeneric
}

// URLFamily classifies a direct wheel link by the index directory it lives in or, failing
// that, by the local version label in its file name.
func URLFamily(url string) Family {
	url = strings.ToLower(strings.TrimSpace(url))
	if f := IndexFamily(path.Dir(url)); f != FamilyGeneric {
		return f
	}
	m := wheelLocalPattern.FindStringSubmatch(path.Base(url))
	switch {
	case m == nil:
		return FamilyGeneric
	case m[1] == "cpu":
		return FamilyCPU
	}
	return FamilyCUDA
}

// RequirementFamily classifies one line of a requirements file. Ranges are judged by the
// name alone, exact pins also by their local version label and direct references by URL.
func RequirementFamily(line string) Family {
	name := requirements.Name(line)
	if name == "" {
		return FamilyGeneric
	}
	if url := requirements.DirectURL(line); url != "" {
		if f := URLFamily(url); f != FamilyGeneric {
			return f
		}
		return PackageFamily(requirements.NewPin(name, ""))
	}
	spec, _, _ := strings.Cut(line, ";")
	_, ver, _ := strings.Cut(spec, "==")
	return PackageFamily(requirements.NewPin(name, strings.TrimSpace(ver)))
}
