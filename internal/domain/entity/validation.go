package entity

import (
	"fmt"
	"net/url"
)

// maxURLLength defines the maximum allowed length for image references.
const maxURLLength = 2048

// ValidateImageURL validates the format of an external image reference.
// It checks that the reference is a well-formed absolute URL using an
// HTTP or HTTPS scheme with a host. A malformed reference aborts media
// acquisition for the entity; it never fails the entity itself.
func ValidateImageURL(rawURL string) error {
	if rawURL == "" {
		return &ValidationError{Field: "image", Message: "image reference is required"}
	}

	if len(rawURL) > maxURLLength {
		return &ValidationError{
			Field:   "image",
			Message: fmt.Sprintf("reference must not exceed %d characters", maxURLLength),
		}
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse URL: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return &ValidationError{Field: "image", Message: "reference must use http or https scheme"}
	}

	if parsedURL.Host == "" {
		return &ValidationError{Field: "image", Message: "reference must have a valid host"}
	}

	return nil
}
