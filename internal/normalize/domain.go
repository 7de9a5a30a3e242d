// Package normalize implements the pure, I/O-free canonicalization rules
// shared by the extraction pipeline, the dataset builder, and the matcher:
// domain, phone, and facebook-handle normalization.
package normalize

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

const wwwPrefix = "www."

// Domain canonicalizes a URL or bare host into a lowercase domain with no
// scheme, no "www." prefix, no port, and no leading/trailing dots or
// whitespace. When the host parses as a registrable domain under the
// public suffix list, the eTLD+1 form is returned; otherwise the raw host
// is used. Returns "" for empty input.
func Domain(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	withScheme := raw
	if !strings.Contains(raw, "://") {
		withScheme = "http://" + raw
	}

	var host string

	if parsed, err := url.Parse(withScheme); err == nil && parsed.Hostname() != "" {
		host = parsed.Hostname()
	} else {
		// Unparseable as a URL, or parsed with an empty host; fall back to
		// stripping anything that looks like a path or query ourselves.
		host = raw
		if idx := strings.IndexAny(host, "/?#"); idx != -1 {
			host = host[:idx]
		}
	}

	host = cleanHost(host)
	if host == "" {
		return ""
	}

	if registered, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil && registered != "" {
		return registered
	}

	return host
}

func cleanHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	host = strings.Trim(host, ".")
	host = strings.TrimPrefix(host, wwwPrefix)
	host = strings.Trim(host, ".")

	return host
}
