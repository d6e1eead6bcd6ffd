package offer

import "fmt"

// ConfigurationError reports a setting that must be configured before offers can be created.
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("offer: credential issuance is not enabled because %s is not set", e.Setting)
}
