package extract

import "regexp"

var (
	facebookRe  = regexp.MustCompile(`facebook\.com/[A-Za-z0-9._\-]+`)
	twitterRe   = regexp.MustCompile(`twitter\.com/[A-Za-z0-9_]+`)
	instagramRe = regexp.MustCompile(`instagram\.com/[A-Za-z0-9._\-]+`)
	linkedinRe  = regexp.MustCompile(`linkedin\.com/(?:company|in)/[A-Za-z0-9._\-]+`)
	youtubeRe   = regexp.MustCompile(`youtube\.com/(?:user|channel)/[A-Za-z0-9._\-]+`)
)

// Social holds the deduplicated per-platform links found in one page.
type Social struct {
	Facebook  []string
	Twitter   []string
	Instagram []string
	Linkedin  []string
	Youtube   []string
}

// SocialLinks runs all five platform regexes against raw HTML and
// deduplicates matches per platform, preserving order of first appearance.
func SocialLinks(html string) Social {
	return Social{
		Facebook:  dedupFindAll(facebookRe, html),
		Twitter:   dedupFindAll(twitterRe, html),
		Instagram: dedupFindAll(instagramRe, html),
		Linkedin:  dedupFindAll(linkedinRe, html),
		Youtube:   dedupFindAll(youtubeRe, html),
	}
}

func dedupFindAll(re *regexp.Regexp, html string) []string {
	if html == "" {
		return nil
	}

	var (
		out  []string
		seen = make(map[string]struct{})
	)

	for _, match := range re.FindAllString(html, -1) {
		if _, ok := seen[match]; ok {
			continue
		}

		seen[match] = struct{}{}

		out = append(out, match)
	}

	return out
}
