package exam

import (
	"fmt"
	"os"

	"ct-console/internal/scout"

	"gopkg.in/yaml.v3"
)

// CatalogEntry describes one selectable case: its identifier, the protocol
// preset it runs under, and where its scout comes from. Exactly one of
// ScoutPath or Synth should be set; Synth wins when both are present.
type CatalogEntry struct {
	ID        CaseID             `yaml:"id"`
	Protocol  string             `yaml:"protocol"`
	ScoutPath string             `yaml:"scout_path,omitempty"`
	Synth     *scout.SynthParams `yaml:"synth,omitempty"`
}

// Catalog is the list of cases offered by the console, loaded from a YAML
// file at startup.
type Catalog struct {
	Cases []CatalogEntry `yaml:"cases"`
}

// LoadCatalog reads and validates a case catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read case catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog parses catalog YAML.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse case catalog: %w", err)
	}
	seen := make(map[CaseID]bool, len(c.Cases))
	for i, e := range c.Cases {
		if e.ID == "" {
			return nil, fmt.Errorf("catalog entry %d has no id", i)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("duplicate case id %q", e.ID)
		}
		seen[e.ID] = true
	}
	return &c, nil
}

// Find returns the entry for the given case id, or nil.
func (c *Catalog) Find(id CaseID) *CatalogEntry {
	for i := range c.Cases {
		if c.Cases[i].ID == id {
			return &c.Cases[i]
		}
	}
	return nil
}

// DefaultCatalog returns the built-in demo catalog used when no catalog
// file is configured: one synthetic case per protocol region.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Cases: []CatalogEntry{
			{
				ID:       "Head/CT Head Plain/case_001",
				Protocol: "head",
				Synth:    synthPreset(512, 640, 0.30),
			},
			{
				ID:       "Chest/CT Chest HR/case_001",
				Protocol: "chest",
				Synth:    synthPreset(800, 900, 0.40),
			},
			{
				ID:       "Abdomen/CT Abdomen Contrast/case_001",
				Protocol: "abdomen",
				Synth:    synthPreset(800, 1000, 0.35),
			},
			{
				ID:       "Abdomen/CT Abdomen Contrast/case_002",
				Protocol: "abdomen",
				Synth:    synthPreset(800, 1000, 0.38),
			},
		},
	}
}

func synthPreset(w, h int, bodyWidth float64) *scout.SynthParams {
	p := scout.DefaultSynthParams()
	p.Width = w
	p.Height = h
	p.BodyWidth = bodyWidth
	return &p
}
