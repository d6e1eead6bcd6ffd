package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configOutput string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration resulting from defaults, the config file,
environment variables and flags, as YAML.

Example:
  vcionboard config --agent-base-url https://agent.example.com
  vcionboard config -o vcionboard.yaml`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().StringVarP(&configOutput, "output", "o", "", "Write the configuration to this file instead")
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if configOutput != "" {
		if err := cfg.SaveToFile(configOutput); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", configOutput)

		return nil
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	_, err = cmd.OutOrStdout().Write(data)

	return err
}
