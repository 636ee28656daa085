package requirements

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hashicorp/go-version"
)

// Pin is an exact package requirement, name==version.
type Pin struct {
	Name    string
	Version string
}

func NewPin(name, version string) Pin {
	return Pin{Name: name, Version: version}
}

// ParsePin parses "name==version". Anything other than an exact pin is rejected.
func ParsePin(s string) (Pin, error) {
	name, ver, ok := strings.Cut(strings.TrimSpace(s), "==")
	if !ok {
		return Pin{}, fmt.Errorf("%q is not pinned, expected name==version", s)
	}
	pin := Pin{Name: strings.TrimSpace(name), Version: strings.TrimSpace(ver)}
	if err := pin.Validate(); err != nil {
		return Pin{}, err
	}
	return pin, nil
}

// MustParsePin is ParsePin for static tables.
func MustParsePin(s string) Pin {
	pin, err := ParsePin(s)
	if err != nil {
		panic(err)
	}
	return pin
}

// Validate checks the name is a distribution name and the version parses.
func (p Pin) Validate() error {
	if p.Name == "" || namePattern.FindString(p.Name) != p.Name {
		return fmt.Errorf("invalid package name %q", p.Name)
	}
	if _, err := version.NewVersion(p.Version); err != nil {
		return fmt.Errorf("invalid version %q for %s: %w", p.Version, p.Name, err)
	}
	return nil
}

func (p Pin) String() string {
	if p.Version == "" {
		return p.Name
	}
	return p.Name + "==" + p.Version
}

// Is reports whether the pin is for the named package, comparing normalized names.
func (p Pin) Is(name string) bool {
	return NormalizeName(p.Name) == NormalizeName(name)
}

// LocalVersion returns the local version label, e.g. "cu124" for "2.4.0+cu124".
func (p Pin) LocalVersion() string {
	_, local, _ := strings.Cut(p.Version, "+")
	return local
}

// NewerThan reports whether p's version is greater than other's. Invalid versions are never newer.
func (p Pin) NewerThan(other Pin) bool {
	a, err := version.NewVersion(p.Version)
	if err != nil {
		return false
	}
	b, err := version.NewVersion(other.Version)
	if err != nil {
		return false
	}
	return a.GreaterThan(b)
}

func (p *Pin) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	pin, err := ParsePin(s)
	if err != nil {
		return err
	}
	*p = pin
	return nil
}

func (p Pin) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Pin) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	pin, err := ParsePin(s)
	if err != nil {
		return err
	}
	*p = pin
	return nil
}

// Pins is an ordered list of pins.
type Pins []Pin

// Strings renders every pin as name==version.
func (ps Pins) Strings() []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.String()
	}
	return out
}

// Find returns the pin for the named package.
func (ps Pins) Find(name string) (Pin, bool) {
	for _, p := range ps {
		if p.Is(name) {
			return p, true
		}
	}
	return Pin{}, false
}

// Without returns the pins that are not for any of the named packages.
func (ps Pins) Without(names ...string) Pins {
	out := make(Pins, 0, len(ps))
	for _, p := range ps {
		skip := false
		for _, n := range names {
			if p.Is(n) {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, p)
		}
	}
	return out
}
