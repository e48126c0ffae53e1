package media

import (
	"net/url"
	"strings"
)

// RewriteShareLink converts a Google Drive share link into its direct
// download form. Share links serve an HTML viewer page, not the file
// itself, so downloading them verbatim stores the wrong bytes.
//
// Recognized forms:
//
//	https://drive.google.com/file/d/<id>/view?usp=sharing
//	https://drive.google.com/open?id=<id>
//
// Anything else, including non-Drive URLs, is returned unchanged.
func RewriteShareLink(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	if parsed.Host != "drive.google.com" {
		return rawURL
	}

	var fileID string
	switch {
	case strings.HasPrefix(parsed.Path, "/file/d/"):
		rest := strings.TrimPrefix(parsed.Path, "/file/d/")
		if idx := strings.IndexByte(rest, '/'); idx >= 0 {
			rest = rest[:idx]
		}
		fileID = rest
	case parsed.Path == "/open":
		fileID = parsed.Query().Get("id")
	}

	if fileID == "" {
		return rawURL
	}

	direct := url.URL{
		Scheme:   "https",
		Host:     "drive.google.com",
		Path:     "/uc",
		RawQuery: url.Values{"export": {"download"}, "id": {fileID}}.Encode(),
	}
	return direct.String()
}
