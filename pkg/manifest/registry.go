package manifest

import (
	// blank import for embeds
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v2"

	perrors "github.com/portablesource/portablesource/pkg/errors"
	"github.com/portablesource/portablesource/pkg/util/schema"
)

//go:embed data/catalog.yaml
var catalogData []byte

//go:embed data/catalog_schema_v1.0.json
var catalogSchema []byte

type catalogFile struct {
	Version string      `yaml:"version"`
	Apps    []*Manifest `yaml:"apps"`
}

// Registry is an ordered, immutable set of manifests.
type Registry struct {
	apps   []*Manifest
	byName map[string]*Manifest
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r, err := Load("catalog.yaml", catalogData)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %s", err))
	}
	return r
})

// Default returns the built-in catalog.
func Default() *Registry {
	return defaultRegistry()
}

// Load parses and validates a catalog document. document names it in error messages.
func Load(document string, contents []byte) (*Registry, error) {
	if err := schema.ValidateYAML(document, catalogSchema, contents); err != nil {
		return nil, err
	}
	var file catalogFile
	if err := yaml.UnmarshalStrict(contents, &file); err != nil {
		return nil, fmt.Errorf("Failed to parse %s: %w", document, err)
	}
	return New(file.Apps...)
}

// New builds a registry from manifests, rejecting invalid entries and duplicate names.
func New(apps ...*Manifest) (*Registry, error) {
	r := &Registry{byName: make(map[string]*Manifest, len(apps))}
	for _, m := range apps {
		if err := m.validate(); err != nil {
			return nil, err
		}
		key := strings.ToLower(m.Name)
		if _, ok := r.byName[key]; ok {
			return nil, fmt.Errorf("duplicate app %q in catalog", m.Name)
		}
		r.byName[key] = m
		r.apps = append(r.apps, m)
	}
	return r, nil
}

// Merge returns a registry with other's apps replacing same-named apps in r and new apps
// appended. Neither input is modified.
func (r *Registry) Merge(other *Registry) *Registry {
	merged := &Registry{byName: make(map[string]*Manifest, len(r.apps)+len(other.apps))}
	for _, m := range r.apps {
		if o, ok := other.byName[strings.ToLower(m.Name)]; ok {
			m = o
		}
		merged.apps = append(merged.apps, m)
		merged.byName[strings.ToLower(m.Name)] = m
	}
	for _, m := range other.apps {
		key := strings.ToLower(m.Name)
		if _, ok := merged.byName[key]; !ok {
			merged.apps = append(merged.apps, m)
			merged.byName[key] = m
		}
	}
	return merged
}

// Apps returns the manifests in catalog order.
func (r *Registry) Apps() []*Manifest {
	return append([]*Manifest(nil), r.apps...)
}

// Len returns the number of apps.
func (r *Registry) Len() int {
	return len(r.apps)
}

// Lookup finds an app by 1-based catalog number, name (case-insensitive) or repository URL.
func (r *Registry) Lookup(ref string) (*Manifest, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(r.apps) {
			return nil, perrors.AppNotFound(fmt.Sprintf("No app number %d, choose 1-%d", n, len(r.apps)))
		}
		return r.apps[n-1], nil
	}
	if m, ok := r.byName[strings.ToLower(ref)]; ok {
		return m, nil
	}
	if strings.Contains(ref, "://") {
		want := normalizeURL(ref)
		for _, m := range r.apps {
			if normalizeURL(m.URL) == want {
				return m, nil
			}
		}
	}
	return nil, perrors.AppNotFound(fmt.Sprintf("%s is not in the catalog", ref))
}

// Resolve looks ref up in the catalog and falls back to an ad-hoc manifest for URLs.
func (r *Registry) Resolve(ref string) (*Manifest, error) {
	m, err := r.Lookup(ref)
	if err == nil {
		return m, nil
	}
	if strings.Contains(ref, "://") {
		return ForURL(ref), nil
	}
	return nil, err
}

func normalizeURL(url string) string {
	url = strings.ToLower(strings.TrimRight(strings.TrimSpace(url), "/"))
	return strings.TrimSuffix(url, ".git")
}
