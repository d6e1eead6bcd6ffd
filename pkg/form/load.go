package form

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sirosfoundation/vcionboard/pkg/vctm"
)

// LoadOptions controls schema loading
type LoadOptions struct {
	// Language selects display labels from multi-locale sources
	Language string
}

// LoadFile reads a form schema, choosing the parser by file extension:
// .md and .markdown are page definitions, .vctm (or .vctm.json) is SD-JWT VC
// type metadata, anything else is YAML or JSON.
func LoadFile(path string, opts LoadOptions) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("form: failed to read file %s: %w", path, err)
	}

	var schema *Schema
	name := strings.ToLower(filepath.Base(path))

	switch {
	case strings.HasSuffix(name, ".md"), strings.HasSuffix(name, ".markdown"):
		schema, err = NewMarkdownParser().Parse(data)
	case strings.HasSuffix(name, ".vctm"), strings.HasSuffix(name, ".vctm.json"):
		var doc *vctm.VCTM
		doc, err = vctm.FromJSON(data)
		if err == nil {
			schema = FromVCTM(doc, opts.Language)
		}
	default:
		schema, err = FromYAML(data)
	}
	if err != nil {
		return nil, err
	}

	if len(schema.Rows) == 0 {
		return nil, fmt.Errorf("form: schema in %s has no fields", path)
	}
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	return schema, nil
}

// FromYAML parses a YAML (or JSON) schema document
func FromYAML(data []byte) (*Schema, error) {
	var schema Schema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("form: failed to parse YAML: %w", err)
	}
	if len(schema.Rows) == 0 {
		return nil, fmt.Errorf("form: schema has no rows")
	}
	return &schema, nil
}

// FromVCTM derives a schema from credential type metadata: one row per claim,
// non-mandatory claims optional, labels taken from the display for language.
func FromVCTM(doc *vctm.VCTM, language string) *Schema {
	schema := &Schema{
		Title:       doc.Title(language),
		Description: doc.Description,
	}
	for _, claim := range doc.Claims {
		labels := claim.Labels()
		if len(labels) == 0 {
			labels = nil
		}
		schema.Rows = append(schema.Rows, Row{{
			Key:      claim.Name(),
			Title:    claim.Label(language),
			Titles:   labels,
			Type:     TypeText,
			Optional: !claim.Mandatory,
		}})
	}
	return schema
}
