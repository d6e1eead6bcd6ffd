// Package cmd provides the CLI commands for vcionboard
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/sirosfoundation/vcionboard/internal/cmdutil"
)

var (
	// Version is set during build
	Version = "dev"
	// Commit is set during build
	Commit = "unknown"
)

var logger = log.New("vcionboard")

var rootCmd = &cobra.Command{
	Use:   "vcionboard",
	Short: "Onboard wallet holders with an information request and a credential offer",
	Long: `vcionboard runs the information-request step of a credential onboarding flow.

A verifier hands over the OID4VP vp_token; vcionboard pre-fills a form with the
claims the wallet disclosed, lets the holder complete it and asks an OID4VCI
issuance agent for a pre-authorized credential offer.

Example usage:
  vcionboard serve --form form.md --agent-base-url https://agent.example.com
  vcionboard extract vp_token.json
  vcionboard offer payload.json --credential-type DemoCredential`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().StringP(cmdutil.LogLevelFlagName, cmdutil.LogLevelFlagShorthand, "",
		cmdutil.LogLevelFlagUsage)

	addConfigFlags(rootCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "vcionboard %s (commit: %s)\n", Version, Commit)
	},
}
