// Package protocol provides scan protocol definitions and management.
package protocol

import (
	"fmt"
	"sort"

	"ct-console/internal/recon"
)

// Spec describes a scan protocol preset: the region it targets, the
// longitudinal scale of its scout, and the reconstruction defaults the
// operator starts from.
type Spec struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Region      string `json:"region"`

	// PixelSpacingMM is the z-size of one scout pixel for this protocol.
	PixelSpacingMM float64 `json:"pixel_spacing_mm"`

	// DefaultRecon seeds the reconstruction panel when a case under this
	// protocol is selected.
	DefaultRecon recon.Params `json:"default_recon"`
}

// Validate checks the spec for internal consistency.
func (s Spec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("protocol has no name")
	}
	if s.PixelSpacingMM <= 0 {
		return fmt.Errorf("protocol %s: pixel spacing must be positive", s.Name)
	}
	return s.DefaultRecon.Validate()
}

// Registry of known protocols.
var registry = make(map[string]Spec)

// Register adds a protocol to the registry, replacing any previous entry
// with the same name.
func Register(spec Spec) {
	registry[spec.Name] = spec
}

// Get returns a protocol by name.
func Get(name string) (Spec, bool) {
	spec, ok := registry[name]
	return spec, ok
}

// List returns all registered protocol names, sorted for stable display.
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register(HeadSpec())
	Register(ChestSpec())
	Register(AbdomenSpec())
}
