package store

import (
	"fmt"
	"net/url"
	"strings"
)

// WithSSLMode sets sslmode on a Postgres connection string. URL style
// ("postgres://...") and keyword/value style ("host=... dbname=...") are
// both accepted. An empty mode leaves the string untouched.
func WithSSLMode(connString, mode string) (string, error) {
	mode = strings.TrimSpace(mode)
	if mode == "" {
		return connString, nil
	}

	if strings.HasPrefix(connString, "postgres://") || strings.HasPrefix(connString, "postgresql://") {
		u, err := url.Parse(connString)
		if err != nil {
			return "", fmt.Errorf("parse database url: %w", err)
		}
		q := u.Query()
		q.Set("sslmode", mode)
		u.RawQuery = q.Encode()
		return u.String(), nil
	}

	fields := strings.Fields(connString)
	kept := fields[:0]
	for _, f := range fields {
		if !strings.HasPrefix(f, "sslmode=") {
			kept = append(kept, f)
		}
	}
	kept = append(kept, "sslmode="+mode)
	return strings.Join(kept, " "), nil
}
