package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	defaultToolTimeoutSeconds  = 25
	defaultSmokeTimeoutSeconds = 3
	defaultConcurrency         = 4
	defaultRateLimit           = 8
)

// CLIConfig captures runtime configuration shared across commands.
type CLIConfig struct {
	Defaults DefaultValues
	Review   ReviewRuntimeConfig
}

// DefaultValues represent reviewer-level defaults, typically derived from env/config.
type DefaultValues struct {
	TimeoutSecs      int
	TelemetryEnabled bool
	Reviewer         string
	Python           string
}

// ReviewRuntimeConfig consolidates flag-driven settings for the review command.
type ReviewRuntimeConfig struct {
	Concurrency      int
	RateLimit        int
	TimeoutSecs      int
	Python           string
	Language         string
	Smoke            bool
	WarningsAsErrors bool
	SmokeTimeoutSecs int
	Advise           bool
	Save             bool
	Format           string
	TelemetryEnabled bool
	ProgressEnabled  bool
	Advisor          AdvisorRuntimeConfig
}

// AdvisorRuntimeConfig groups hosted-model settings. The API key never has
// a flag; it comes from the environment or the config file only.
type AdvisorRuntimeConfig struct {
	Model       string
	BaseURL     string
	Temperature float32
}

type defaultOverrides struct {
	TimeoutSecs      *int
	TelemetryEnabled *bool
	Reviewer         string
	ReviewerOverride bool
	Python           string
	AdvisorModel     string
	AdvisorBaseURL   string
	AdvisorTemp      *float32
}

var cliConfig = newCLIConfig()

func newCLIConfig() *CLIConfig {
	rev := detectReviewerFromEnv()
	return &CLIConfig{
		Defaults: DefaultValues{
			TimeoutSecs:      defaultToolTimeoutSeconds,
			TelemetryEnabled: false,
			Reviewer:         rev,
			Python:           "python3",
		},
		Review: ReviewRuntimeConfig{
			Concurrency:      defaultConcurrency,
			RateLimit:        defaultRateLimit,
			TimeoutSecs:      defaultToolTimeoutSeconds,
			Python:           "python3",
			Language:         "auto",
			SmokeTimeoutSecs: defaultSmokeTimeoutSeconds,
			Format:           "table",
			TelemetryEnabled: false,
			ProgressEnabled:  true,
		},
	}
}

func detectReviewerFromEnv() string {
	if env := os.Getenv("USER"); env != "" {
		return env
	}
	if env := os.Getenv("LOGNAME"); env != "" {
		return env
	}
	return ""
}

func loadDefaultOverrides() defaultOverrides {
	overrides := defaultOverrides{}

	if viper.IsSet("defaults.timeout_secs") {
		val := viper.GetInt("defaults.timeout_secs")
		overrides.TimeoutSecs = &val
	}

	if viper.IsSet("defaults.telemetry") {
		val := viper.GetBool("defaults.telemetry")
		overrides.TelemetryEnabled = &val
	}

	if viper.IsSet("defaults.reviewer") {
		overrides.Reviewer = viper.GetString("defaults.reviewer")
		overrides.ReviewerOverride = true
	}

	if viper.IsSet("defaults.python") {
		overrides.Python = viper.GetString("defaults.python")
	}

	if viper.IsSet("advisor.model") {
		overrides.AdvisorModel = viper.GetString("advisor.model")
	}

	if viper.IsSet("advisor.base_url") {
		overrides.AdvisorBaseURL = viper.GetString("advisor.base_url")
	}

	if viper.IsSet("advisor.temperature") {
		val := float32(viper.GetFloat64("advisor.temperature"))
		overrides.AdvisorTemp = &val
	}

	return overrides
}

// advisorAPIKey resolves the hosted-model key: env first, then config file.
// An empty return disables the advisor.
func advisorAPIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("advisor.api_key")
}

// applyConfigDefaults merges config file defaults into the runtime config when the user
// did not explicitly override the corresponding flag.
func applyConfigDefaults(cmd *cobra.Command) {
	overrides := loadDefaultOverrides()

	if overrides.ReviewerOverride && overrides.Reviewer != "" {
		cliConfig.Defaults.Reviewer = overrides.Reviewer
		setStringFlagIfUnset(cmd.Flags(), "reviewer", overrides.Reviewer)
	}

	if overrides.TimeoutSecs != nil {
		applyIntDefault(reviewCmd.Flags(), "timeout", *overrides.TimeoutSecs, func(v int) {
			cliConfig.Defaults.TimeoutSecs = v
			cliConfig.Review.TimeoutSecs = v
		})
	}

	if overrides.TelemetryEnabled != nil {
		applyBoolDefault(reviewCmd.Flags(), "telemetry", *overrides.TelemetryEnabled, func(v bool) {
			cliConfig.Defaults.TelemetryEnabled = v
			cliConfig.Review.TelemetryEnabled = v
		})
	}

	if overrides.Python != "" {
		applyStringDefault(reviewCmd.Flags(), "python", overrides.Python, func(v string) {
			cliConfig.Defaults.Python = v
			cliConfig.Review.Python = v
		})
	}

	if overrides.AdvisorModel != "" {
		cliConfig.Review.Advisor.Model = overrides.AdvisorModel
	}
	if overrides.AdvisorBaseURL != "" {
		cliConfig.Review.Advisor.BaseURL = overrides.AdvisorBaseURL
	}
	if overrides.AdvisorTemp != nil {
		cliConfig.Review.Advisor.Temperature = *overrides.AdvisorTemp
	}
}

func applyIntDefault(flags *pflag.FlagSet, name string, value int, setter func(int)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

func applyBoolDefault(flags *pflag.FlagSet, name string, value bool, setter func(bool)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

func applyStringDefault(flags *pflag.FlagSet, name, value string, setter func(string)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

func setStringFlagIfUnset(flags *pflag.FlagSet, name, value string) {
	if flags == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag == nil || flag.Changed {
		return
	}
	_ = flag.Value.Set(value)
}
