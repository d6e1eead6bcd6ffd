package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/sirosfoundation/vcionboard/internal/logfields"
	"github.com/sirosfoundation/vcionboard/pkg/form"
	"github.com/sirosfoundation/vcionboard/pkg/vptoken"
)

var strictExtract bool

// extractResult is printed by the extract command.
type extractResult struct {
	Candidates []form.Payload `json:"candidates"`
	Selected   form.Payload   `json:"selected"`
}

var extractCmd = &cobra.Command{
	Use:   "extract <vp_token.json>",
	Short: "Print the claim sets a vp_token would pre-fill",
	Long: `Decode a vp_token and print every credential subject as a claim set,
together with the set an information request would be seeded from.

The file holds the JSON value of the vp_token parameter: a compact JWT string,
a presentation object, or an array of either. Use - to read standard input.

Without --strict a token that does not decode prints an empty result, the way
an information request falls back to an empty form.

Example:
  vcionboard extract vp_token.json --form form.md
  cat vp_token.json | vcionboard extract - --strict`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().BoolVar(&strictExtract, "strict", false, "Fail when the vp_token cannot be decoded")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	schema, err := loadSchema(cfg)
	if err != nil {
		return err
	}

	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}

	result := extractResult{Candidates: []form.Payload{}, Selected: form.Template(schema)}

	candidates, err := extractClaimSets(cmd, schema, data)
	if err != nil {
		if strictExtract {
			return err
		}

		logger.Warn("vp_token could not be decoded", log.WithError(err))
	} else {
		result.Candidates = candidates
		if best, ok := vptoken.SelectRichest(candidates); ok {
			result.Selected = best
		}
	}

	logger.Debug("claim sets extracted", logfields.WithCommand(cmd.Name()),
		logfields.WithCandidates(len(result.Candidates)))

	return writeJSON(cmd.OutOrStdout(), result)
}

func extractClaimSets(cmd *cobra.Command, schema *form.Schema, data []byte) ([]form.Payload, error) {
	token, err := vptoken.ParseToken(data)
	if err != nil {
		return nil, err
	}

	return vptoken.NewExtractor(vptoken.WithSchema(schema)).ExtractClaimSets(cmd.Context(), token)
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	var (
		data []byte
		err  error
	)

	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return data, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}
