package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sirosfoundation/vcionboard/internal/metrics"
	"github.com/sirosfoundation/vcionboard/pkg/form"
)

var skipValidation bool

var offerCmd = &cobra.Command{
	Use:   "offer <payload.json>",
	Short: "Create a credential offer for a completed payload",
	Long: `Send a completed information-request payload to the issuance agent and
print the credential offer URI with its pre-authorized code.

The payload is a JSON object of field keys to string values. It is checked
against the form unless --skip-validation is given. Use - to read standard input.

Example:
  vcionboard offer payload.json --agent-base-url https://agent.example.com --credential-type DemoCredential`,
	Args: cobra.ExactArgs(1),
	RunE: runOffer,
}

func init() {
	rootCmd.AddCommand(offerCmd)

	offerCmd.Flags().BoolVar(&skipValidation, "skip-validation", false, "Send the payload without checking required fields")
}

func runOffer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}

	var payload form.Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("failed to parse payload: %w", err)
	}

	if !skipValidation {
		schema, err := loadSchema(cfg)
		if err != nil {
			return err
		}

		payload = completePayload(schema, payload)

		if missing := form.MissingKeys(payload, schema); len(missing) > 0 {
			return fmt.Errorf("payload is incomplete, missing: %s", strings.Join(missing, ", "))
		}
	}

	created, err := newOfferClient(cfg, metrics.Noop{}).CreateOffer(cmd.Context(), payload, "")
	if err != nil {
		return err
	}

	return writeJSON(cmd.OutOrStdout(), created)
}

// completePayload lays payload over the form template so that every form
// field, the fallback fields included, is present before validation.
func completePayload(schema *form.Schema, payload form.Payload) form.Payload {
	complete := form.Template(schema)
	for key, value := range payload {
		complete[key] = value
	}

	return complete
}
