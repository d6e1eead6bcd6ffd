package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sirosfoundation/vcionboard/internal/cmdutil"
	"github.com/sirosfoundation/vcionboard/internal/logfields"
	"github.com/sirosfoundation/vcionboard/pkg/config"
	"github.com/sirosfoundation/vcionboard/pkg/form"
)

const (
	configFlagName  = "config"
	configEnvKey    = "VCIONBOARD_CONFIG"
	configFlagUsage = "Configuration file path. Alternatively, this can be set with the following environment variable: " +
		configEnvKey

	agentBaseURLFlagName  = "agent-base-url"
	agentBaseURLEnvKey    = "VCIONBOARD_AGENT_BASE_URL"
	agentBaseURLFlagUsage = "Base URL of the OID4VCI issuance agent. Alternatively, this can be set with the " +
		"following environment variable: " + agentBaseURLEnvKey

	credentialIssuerFlagName  = "credential-issuer"
	credentialIssuerEnvKey    = "VCIONBOARD_CREDENTIAL_ISSUER"
	credentialIssuerFlagUsage = "Credential issuer announced in offers (default: the agent base URL). " +
		"Alternatively, this can be set with the following environment variable: " + credentialIssuerEnvKey

	credentialTypeFlagName  = "credential-type"
	credentialTypeEnvKey    = "VCIONBOARD_ISSUE_CREDENTIAL_TYPE"
	credentialTypeFlagUsage = "Credential configuration id to offer. Alternatively, this can be set with the " +
		"following environment variable: " + credentialTypeEnvKey

	offerPathFlagName  = "offer-path"
	offerPathEnvKey    = "VCIONBOARD_OFFER_PATH"
	offerPathFlagUsage = "Agent endpoint creating credential offers. Alternatively, this can be set with the " +
		"following environment variable: " + offerPathEnvKey

	formFlagName  = "form"
	formEnvKey    = "VCIONBOARD_FORM"
	formFlagUsage = "Form schema file (.yaml, .json, .md or .vctm); the fallback fields are used when unset. " +
		"Alternatively, this can be set with the following environment variable: " + formEnvKey

	listenFlagName  = "listen"
	listenEnvKey    = "VCIONBOARD_LISTEN"
	listenFlagUsage = "HTTP listen address. Alternatively, this can be set with the following environment variable: " +
		listenEnvKey

	languageFlagName  = "language"
	languageEnvKey    = "VCIONBOARD_LANGUAGE"
	languageFlagUsage = "Locale of form labels taken from multi-language sources. Alternatively, this can be set " +
		"with the following environment variable: " + languageEnvKey

	sessionTTLFlagName  = "session-ttl"
	sessionTTLEnvKey    = "VCIONBOARD_SESSION_TTL"
	sessionTTLFlagUsage = "Lifetime of an unsubmitted information request, e.g. 15m. Alternatively, this can be " +
		"set with the following environment variable: " + sessionTTLEnvKey

	sessionCapacityFlagName  = "session-capacity"
	sessionCapacityEnvKey    = "VCIONBOARD_SESSION_CAPACITY"
	sessionCapacityFlagUsage = "Maximum number of open information requests. Alternatively, this can be set " +
		"with the following environment variable: " + sessionCapacityEnvKey

	requestTimeoutFlagName  = "request-timeout"
	requestTimeoutEnvKey    = "VCIONBOARD_REQUEST_TIMEOUT"
	requestTimeoutFlagUsage = "Timeout of calls to the issuance agent, e.g. 10s. Alternatively, this can be set " +
		"with the following environment variable: " + requestTimeoutEnvKey
)

func addConfigFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringP(configFlagName, "c", "", configFlagUsage)
	flags.String(agentBaseURLFlagName, "", agentBaseURLFlagUsage)
	flags.String(credentialIssuerFlagName, "", credentialIssuerFlagUsage)
	flags.String(credentialTypeFlagName, "", credentialTypeFlagUsage)
	flags.String(offerPathFlagName, "", offerPathFlagUsage)
	flags.String(formFlagName, "", formFlagUsage)
	flags.String(listenFlagName, "", listenFlagUsage)
	flags.String(languageFlagName, "", languageFlagUsage)
	flags.String(sessionTTLFlagName, "", sessionTTLFlagUsage)
	flags.String(sessionCapacityFlagName, "", sessionCapacityFlagUsage)
	flags.String(requestTimeoutFlagName, "", requestTimeoutFlagUsage)
}

// loadConfig layers defaults, the config file, environment variables and
// flags, later sources winning, and applies the resulting log level.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if path := cmdutil.GetUserSetOptionalVarFromString(cmd, configFlagName, configEnvKey); path != "" {
		fileCfg, err := config.LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		cfg.Merge(fileCfg)
	}

	sessionTTL, err := cmdutil.GetUserSetOptionalDuration(cmd, sessionTTLFlagName, sessionTTLEnvKey)
	if err != nil {
		return nil, err
	}

	requestTimeout, err := cmdutil.GetUserSetOptionalDuration(cmd, requestTimeoutFlagName, requestTimeoutEnvKey)
	if err != nil {
		return nil, err
	}

	sessionCapacity, err := cmdutil.GetUserSetOptionalInt(cmd, sessionCapacityFlagName, sessionCapacityEnvKey)
	if err != nil {
		return nil, err
	}

	cfg.Merge(&config.Config{
		AgentBaseURL:        cmdutil.GetUserSetOptionalVarFromString(cmd, agentBaseURLFlagName, agentBaseURLEnvKey),
		CredentialIssuer:    cmdutil.GetUserSetOptionalVarFromString(cmd, credentialIssuerFlagName, credentialIssuerEnvKey),
		IssueCredentialType: cmdutil.GetUserSetOptionalVarFromString(cmd, credentialTypeFlagName, credentialTypeEnvKey),
		OfferPath:           cmdutil.GetUserSetOptionalVarFromString(cmd, offerPathFlagName, offerPathEnvKey),
		FormFile:            cmdutil.GetUserSetOptionalVarFromString(cmd, formFlagName, formEnvKey),
		Listen:              cmdutil.GetUserSetOptionalVarFromString(cmd, listenFlagName, listenEnvKey),
		Language:            cmdutil.GetUserSetOptionalVarFromString(cmd, languageFlagName, languageEnvKey),
		LogLevel:            cmdutil.GetUserSetOptionalVarFromString(cmd, cmdutil.LogLevelFlagName, cmdutil.LogLevelEnvKey),
		SessionTTL:          sessionTTL,
		SessionCapacity:     sessionCapacity,
		RequestTimeout:      requestTimeout,
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cmdutil.SetDefaultLogLevel(logger, cfg.LogLevel)

	return cfg, nil
}

// loadSchema returns the configured form, nil for the fallback fields.
func loadSchema(cfg *config.Config) (*form.Schema, error) {
	if cfg.FormFile == "" {
		logger.Info("no form configured, using the fallback fields")
		return nil, nil
	}

	schema, err := form.LoadFile(cfg.FormFile, form.LoadOptions{Language: cfg.Language})
	if err != nil {
		return nil, fmt.Errorf("failed to load form: %w", err)
	}

	logger.Info("form loaded", logfields.WithFormFile(cfg.FormFile), logfields.WithClaimKeys(schema.Keys()))

	return schema, nil
}
