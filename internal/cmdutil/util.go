// Package cmdutil resolves command settings from flags and environment variables.
package cmdutil

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// GetUserSetOptionalVarFromString returns values either command line flag or environment variable.
func GetUserSetOptionalVarFromString(cmd *cobra.Command, flagName, envKey string) string {
	//nolint // the error will not happen for optional var
	v, _ := GetUserSetVarFromString(cmd, flagName, envKey, true)

	return v
}

// GetUserSetVarFromString returns values either command line flag or environment variable.
func GetUserSetVarFromString(cmd *cobra.Command, flagName, envKey string, isOptional bool) (string, error) {
	if cmd.Flags().Changed(flagName) {
		value, err := cmd.Flags().GetString(flagName)
		if err != nil {
			return "", fmt.Errorf(flagName+" flag not found: %s", err)
		}

		if value == "" {
			return "", fmt.Errorf("%s value is empty", flagName)
		}

		return value, nil
	}

	value, isSet := os.LookupEnv(envKey)

	if isOptional || isSet {
		if !isOptional && value == "" {
			return "", fmt.Errorf("%s value is empty", envKey)
		}

		return value, nil
	}

	return "", errors.New("Neither " + flagName + " (command line flag) nor " + envKey +
		" (environment variable) have been set.")
}

// GetUserSetOptionalDuration parses an optional flag or environment variable
// as a duration. Zero is returned when neither is set.
func GetUserSetOptionalDuration(cmd *cobra.Command, flagName, envKey string) (time.Duration, error) {
	v := GetUserSetOptionalVarFromString(cmd, flagName, envKey)
	if v == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", flagName, err)
	}

	return d, nil
}

// GetUserSetOptionalInt parses an optional flag or environment variable as
// an integer. Zero is returned when neither is set.
func GetUserSetOptionalInt(cmd *cobra.Command, flagName, envKey string) (int, error) {
	v := GetUserSetOptionalVarFromString(cmd, flagName, envKey)
	if v == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", flagName, err)
	}

	return n, nil
}
