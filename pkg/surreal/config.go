package surreal

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const (
	// HeaderNamespace carries the namespace on every request.
	HeaderNamespace = "NS"
	// HeaderDatabase carries the database on every request.
	HeaderDatabase = "DB"

	contentTypeJSON = "application/json"
)

// Config holds the connection settings of a Client.
type Config struct {
	URL       string `json:"url"`
	Namespace string `json:"namespace"`
	Database  string `json:"database"`
	Username  string `json:"username"`
	Password  string `json:"-"`
}

// NormalizeURL trims the base URL and ensures it ends with exactly one "/".
func NormalizeURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/") + "/"
}

func (c Config) sanitized() Config {
	c.URL = NormalizeURL(c.URL)
	c.Namespace = strings.TrimSpace(c.Namespace)
	c.Database = strings.TrimSpace(c.Database)
	return c
}

func (c Config) validate() error {
	if strings.Trim(strings.TrimSpace(c.URL), "/") == "" {
		return errors.New("surreal: url is required")
	}
	parsed, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("surreal: invalid url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("surreal: url %q must include scheme and host", c.URL)
	}
	return nil
}

// headers builds the fixed request headers.
func (c Config) headers() map[string]string {
	return map[string]string{
		HeaderNamespace: c.Namespace,
		HeaderDatabase:  c.Database,
		"Content-Type":  contentTypeJSON,
		"Accept":        contentTypeJSON,
	}
}
