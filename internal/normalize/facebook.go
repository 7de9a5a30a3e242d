package normalize

import (
	"regexp"
	"strings"
)

var (
	fbProfileRe = regexp.MustCompile(`^(?:facebook\.com)/profile\.php\?id=([0-9]+)`)
	fbHandleRe  = regexp.MustCompile(`^(?:facebook\.com|fb\.com)/([A-Za-z0-9._\-]+)`)
)

// Facebook lowercases the URL, strips the scheme and a leading "www.", and
// extracts the page handle from facebook.com/<handle>, fb.com/<handle>, or
// facebook.com/profile.php?id=<digits>. If no pattern matches, the
// stripped (scheme/www-less, lowercased) URL is returned unchanged.
func Facebook(raw string) string {
	if raw == "" {
		return ""
	}

	stripped := strings.ToLower(strings.TrimSpace(raw))
	stripped = stripScheme(stripped)
	stripped = strings.TrimPrefix(stripped, wwwPrefix)

	if m := fbProfileRe.FindStringSubmatch(stripped); m != nil {
		return strings.ToLower(m[1])
	}

	if m := fbHandleRe.FindStringSubmatch(stripped); m != nil {
		return strings.ToLower(strings.TrimSuffix(m[1], "/"))
	}

	return stripped
}

func stripScheme(s string) string {
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")

	return s
}
