package respond

import (
	"regexp"
)

var (
	// Database password inside a DSN
	dbPasswordPattern = regexp.MustCompile(`://([^:]+):([^@]+)@`)

	// Secret-bearing query parameters (token, key, secret)
	secretParamPattern = regexp.MustCompile(`(?i)\b(token|key|secret)=[^&\s]+`)
)

// SanitizeError returns the error message with credentials masked.
// Error strings routinely embed DSNs and fetched URLs, so they cannot
// be logged verbatim.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = dbPasswordPattern.ReplaceAllString(msg, "://$1:****@")
	msg = secretParamPattern.ReplaceAllString(msg, "$1=****")

	return msg
}
