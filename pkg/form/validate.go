package form

import (
	"regexp"
)

var emailPattern = regexp.MustCompile(
	"^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9-]+(?:\\.[a-zA-Z0-9-]+)*$")

// MissingKeys returns, in schema order, the required keys whose value is
// empty or whitespace-only. Without a schema every payload key is required.
func MissingKeys(payload Payload, schema *Schema) []string {
	var required []string
	if schema != nil {
		required = schema.RequiredKeys()
	} else {
		required = payload.sortedKeys()
	}

	var missing []string
	for _, key := range required {
		if isBlank(payload[key]) {
			missing = append(missing, key)
		}
	}
	return missing
}

// IsValid reports whether payload satisfies every required field of schema
func IsValid(payload Payload, schema *Schema) bool {
	return len(MissingKeys(payload, schema)) == 0
}

// InvalidEmails returns the keys of email fields whose non-empty value is not
// a plausible address. Without a schema the emailAddress fallback key is checked.
func InvalidEmails(payload Payload, schema *Schema) []string {
	var keys []string
	if schema == nil {
		keys = []string{KeyEmail}
	} else {
		for _, f := range schema.Fields() {
			if f.InputType() == TypeEmail {
				keys = append(keys, f.Key)
			}
		}
	}

	var invalid []string
	for _, key := range keys {
		v := payload[key]
		if v != "" && !emailPattern.MatchString(v) {
			invalid = append(invalid, key)
		}
	}
	return invalid
}

// ManualIdentification reports whether the holder still has to identify
// manually: first or last name is missing.
func ManualIdentification(payload Payload) bool {
	return isBlank(payload[KeyFirstName]) || isBlank(payload[KeyLastName])
}
