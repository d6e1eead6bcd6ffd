package form

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Fallback keys used when a page has no form schema
const (
	KeyFirstName = "Voornaam"
	KeyLastName  = "Achternaam"
	KeyEmail     = "emailAddress"
)

// FallbackKeys is the fixed key set of a page without form schema
var FallbackKeys = []string{KeyFirstName, KeyLastName, KeyEmail}

// Payload maps field keys to values
type Payload map[string]string

// Template returns the empty-value payload for schema: one empty entry per
// field key, or the fallback keys when schema is nil.
func Template(schema *Schema) Payload {
	p := make(Payload)
	for _, key := range schema.Keys() {
		p[key] = ""
	}
	return p
}

// Clone returns a copy of the payload
func (p Payload) Clone() Payload {
	if p == nil {
		return nil
	}
	c := make(Payload, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// Populated counts the keys carrying a non-blank value
func (p Payload) Populated() int {
	return len(lo.PickBy(p, func(_ string, v string) bool { return !isBlank(v) }))
}

// PopulatedKeys returns the sorted keys carrying a non-blank value
func (p Payload) PopulatedKeys() []string {
	keys := lo.Keys(lo.PickBy(p, func(_ string, v string) bool { return !isBlank(v) }))
	sort.Strings(keys)
	return keys
}

func (p Payload) sortedKeys() []string {
	keys := lo.Keys(p)
	sort.Strings(keys)
	return keys
}

// KeySet is a set of field keys
type KeySet map[string]struct{}

// Add inserts key into the set
func (k KeySet) Add(key string) {
	k[key] = struct{}{}
}

// Has reports whether key is in the set
func (k KeySet) Has(key string) bool {
	_, ok := k[key]
	return ok
}

// Keys returns the members in sorted order
func (k KeySet) Keys() []string {
	keys := lo.Keys(k)
	sort.Strings(keys)
	return keys
}

func isBlank(v string) bool {
	return strings.TrimSpace(v) == ""
}
