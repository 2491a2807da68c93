package gcp

import (
	"os"
	"strings"

	"google.golang.org/api/option"
)

// ClientOptionsFromEnv builds client options for GCP clients. With no explicit
// credentials file the client falls back to application default credentials.
func ClientOptionsFromEnv() []option.ClientOption {
	opts := []option.ClientOption{}
	if path := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")); path != "" {
		opts = append(opts, option.WithCredentialsFile(path))
	}
	return opts
}
