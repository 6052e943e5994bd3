package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/userhub-io/userhub-client/internal/constants"
	"github.com/userhub-io/userhub-client/pkg/uhclient"
	"github.com/userhub-io/userhub-client/pkg/userhub"
)

// CreateClient builds a UserHub client from the effective CLI configuration.
func CreateClient() (userhub.Client, error) {
	endpoint := viper.GetString("api")
	if endpoint == "" {
		return nil, constants.ErrAPIEndpointRequired
	}

	config := &userhub.Config{
		BaseURL:     endpoint,
		AccessToken: viper.GetString("token"),
		Debug:       viper.GetBool("verbose"),
		Retry: userhub.RetryPolicy{
			Attempts: constants.DefaultRetryAttempts,
			Delay:    constants.DefaultRetryDelay,
		},
	}

	client, err := uhclient.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// envelopeError converts a failed envelope into a CLI error. Validation
// failures list the offending fields; remote failures carry the server's
// code and message.
func envelopeError(code userhub.ErrorCode, message string) error {
	return fmt.Errorf("%w: [%s] %s", constants.ErrRequestFailed, code, message)
}

// unwrapEnvelope returns the envelope's data on success or the normalized
// error on failure.
func unwrapEnvelope[T any](envelope *userhub.Envelope[T]) (*T, error) {
	if !envelope.Success {
		return nil, envelopeError(envelope.Code, envelope.Error)
	}

	return envelope.Data, nil
}

// StandardJSONRenderer outputs data as indented JSON.
func StandardJSONRenderer[T any](data T) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}

	return nil
}

// StandardYAMLRenderer outputs data as YAML.
func StandardYAMLRenderer[T any](data T) error {
	encoder := yaml.NewEncoder(os.Stdout)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}

	return nil
}

// renderStructured renders data as JSON or YAML depending on the active
// output format, returning false when the format is table so the caller can
// render its own table.
func renderStructured[T any](data T) (bool, error) {
	switch viper.GetString("output") {
	case constants.FormatJSON:
		return true, StandardJSONRenderer(data)
	case constants.FormatYAML:
		return true, StandardYAMLRenderer(data)
	default:
		return false, nil
	}
}

// formatActive renders the active flag the way the status column expects it.
func formatActive(active bool) string {
	if active {
		return constants.StatusActive
	}

	return constants.StatusInactive
}

// parseDateArg accepts either a bare date or a full RFC3339 timestamp.
func parseDateArg(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}

	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s", constants.ErrInvalidDate, value)
	}

	return t, nil
}

// splitIDs parses a comma-separated ID list, dropping empty entries.
func splitIDs(value string) []string {
	parts := strings.Split(value, ",")
	ids := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}

	return ids
}
