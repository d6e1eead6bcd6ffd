// Package vctm reads SD-JWT VC Type Metadata documents (draft-ietf-oauth-sd-jwt-vc)
// so that the claims a credential type declares can drive an information-request form.
package vctm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// VCTM represents a Verifiable Credential Type Metadata document
type VCTM struct {
	// VCT is the Verifiable Credential Type identifier
	VCT string `json:"vct"`

	// Name is a human-readable name for the credential type
	Name string `json:"name,omitempty"`

	// Description is a human-readable description of the credential type
	Description string `json:"description,omitempty"`

	// Display contains display properties in different locales
	Display []DisplayProperties `json:"display,omitempty"`

	// Claims contains the metadata about claims in the credential
	Claims []ClaimMetadataEntry `json:"claims,omitempty"`
}

// DisplayProperties contains locale-specific display information
type DisplayProperties struct {
	Locale      string `json:"locale,omitempty"`
	Lang        string `json:"lang,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// ClaimMetadataEntry describes one claim addressed by a path
type ClaimMetadataEntry struct {
	// Path selects the claim; string elements are object keys
	Path []interface{} `json:"path"`

	// Display contains display properties for this claim
	Display []ClaimDisplay `json:"display,omitempty"`

	// Mandatory indicates if the claim must always be present
	Mandatory bool `json:"mandatory,omitempty"`

	// SD indicates selective disclosure (always, allowed, never)
	SD string `json:"sd,omitempty"`

	// SvgId is the ID for SVG template reference
	SvgId string `json:"svg_id,omitempty"`
}

// ClaimDisplay contains locale-specific display information for a claim
type ClaimDisplay struct {
	Locale      string `json:"locale,omitempty"`
	Lang        string `json:"lang,omitempty"`
	Label       string `json:"label,omitempty"`
	Description string `json:"description,omitempty"`
}

// Validate checks if the VCTM document is valid
func (v *VCTM) Validate() error {
	if v.VCT == "" {
		return fmt.Errorf("vctm: vct field is required")
	}
	for i, c := range v.Claims {
		if c.Name() == "" {
			return fmt.Errorf("vctm: claim %d has an empty path", i)
		}
	}
	return nil
}

// FromJSON deserializes VCTM from JSON
func FromJSON(data []byte) (*VCTM, error) {
	var doc VCTM
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("vctm: failed to parse JSON: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Name returns the claim name: the string path elements joined with ".".
// Array selectors (null or index) are skipped.
func (c ClaimMetadataEntry) Name() string {
	parts := make([]string, 0, len(c.Path))
	for _, p := range c.Path {
		if s, ok := p.(string); ok && s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ".")
}

// Label returns the display label for locale, falling back to the first
// label present and finally to the claim name.
func (c ClaimMetadataEntry) Label(locale string) string {
	for _, d := range c.Display {
		if d.locale() == locale && d.Label != "" {
			return d.Label
		}
	}
	for _, d := range c.Display {
		if d.Label != "" {
			return d.Label
		}
	}
	return c.Name()
}

// Labels returns every non-empty display label keyed by locale
func (c ClaimMetadataEntry) Labels() map[string]string {
	labels := make(map[string]string)
	for _, d := range c.Display {
		if loc := d.locale(); loc != "" && d.Label != "" {
			labels[loc] = d.Label
		}
	}
	return labels
}

// Title returns the display name of the credential type for locale
func (v *VCTM) Title(locale string) string {
	for _, d := range v.Display {
		if d.locale() == locale && d.Name != "" {
			return d.Name
		}
	}
	return v.Name
}

func (d ClaimDisplay) locale() string {
	if d.Locale != "" {
		return d.Locale
	}
	return d.Lang
}

func (d DisplayProperties) locale() string {
	if d.Locale != "" {
		return d.Locale
	}
	return d.Lang
}
