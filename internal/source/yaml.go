package source

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"gantt2svg/internal/timeline"
)

// yamlDocument is the top level of a YAML input file:
//
//	entities:
//	  - id: crew-1
//	    label: Alice
//	    kind: person
//	    intervals:
//	      - start: 2025-09-29
//	        end: 2025-10-02
//	        status: in_progress
//	        label: Harbour Tower
type yamlDocument struct {
	Entities []entityRecord `yaml:"entities"`
}

// LoadYAML reads entities from a YAML file with a top-level entities list.
func LoadYAML(path string, opts Options) ([]timeline.Entity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading YAML file: %w", err)
	}

	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing YAML file: %w", err)
	}

	return toEntities(doc.Entities, opts.Location)
}
