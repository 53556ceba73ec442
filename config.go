package hivetrace

import (
	"net/http"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/hivetrace/hivetrace-go/stacktrace"
)

// APIKeyEnvVar is the environment variable consulted when no API key is set
// explicitly.
const APIKeyEnvVar = "HIVETRACE_API_KEY"

// Name of the per-project settings file (hivetrace.yaml, hivetrace.json, ...)
// searched in the working directory as the lowest-precedence key source.
const settingsFileName = "hivetrace"

// Configuration holds process-wide settings for a Notifier. The zero value
// works as long as an API key is available from the environment or the
// settings file.
type Configuration struct {
	// APIKey identifies the project on the Hivetrace dashboard. When empty,
	// the key is resolved from APIKeyEnvVar and then from the settings file.
	APIKey string

	// Endpoint defaults to DefaultEndpoint.
	Endpoint string

	// ProjectPackage is the import-path prefix of the application's own
	// code; frames under it are flagged as in-project. Empty disables the
	// flag for every frame.
	ProjectPackage string

	// ReleaseStage names the deployment environment, e.g. "production".
	ReleaseStage string

	// AppVersion overrides the memoized source-control revision.
	AppVersion string

	// Hostname overrides the probed device hostname.
	Hostname string

	// SourceLocator annotates frames with source snippets. Defaults to
	// stacktrace.FileLocator; use stacktrace.NopLocator to disable.
	SourceLocator stacktrace.SourceLocator

	// Logger receives the notifier's own diagnostics, such as shielded
	// transport failures in the request middleware. Defaults to a nop
	// logger.
	Logger *zap.SugaredLogger

	// HTTPClient overrides the transport's underlying client.
	HTTPClient *http.Client

	// Limiter, when set, drops reports exceeding the allowed rate instead
	// of sending them.
	Limiter *rate.Limiter

	// SuppressResponse discards the ingestion response for every report.
	SuppressResponse bool
}

// resolveAPIKey applies the layered key sources, highest precedence first:
// any non-empty explicit value, then the environment, then the settings
// file. An empty key is never treated as valid; exhaustion of all sources
// is a ConfigurationError.
func resolveAPIKey(explicit ...string) (string, error) {
	for _, key := range explicit {
		if key != "" {
			return key, nil
		}
	}

	v := viper.New()
	v.SetEnvPrefix("hivetrace")
	_ = v.BindEnv("api_key") // HIVETRACE_API_KEY
	v.SetConfigName(settingsFileName)
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // a missing settings file is fine

	if key := v.GetString("api_key"); key != "" {
		return key, nil
	}
	return "", NewConfigurationError(
		"no API key configured: set Configuration.APIKey, the %s environment variable, or api_key in %s.yaml",
		APIKeyEnvVar, settingsFileName)
}
