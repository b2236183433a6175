package config

import (
	"net/url"

	"github.com/mcpdock/mcpdock/internal/errors"
)

// Validation errors for configuration fields.
var (
	// ErrVersionTooLow indicates the version field is below the minimum.
	ErrVersionTooLow = errors.New("version must be >= 1")

	// ErrInvalidCatalogURL indicates the catalog URL is malformed.
	ErrInvalidCatalogURL = errors.New("catalog url must be a valid http(s) URL")

	// ErrInvalidRetention indicates a non-positive backup retention count.
	ErrInvalidRetention = errors.New("backups retention must be >= 1")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version < 1 {
		errs = append(errs, ErrVersionTooLow)
	}

	if cfg.Catalog.URL != "" {
		u, err := url.Parse(cfg.Catalog.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, ErrInvalidCatalogURL)
		}
	}

	if cfg.Backups.Retention < 1 {
		errs = append(errs, ErrInvalidRetention)
	}

	return errs
}
