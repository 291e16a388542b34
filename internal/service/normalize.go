package service

import (
	"net/url"
	"strings"
)

// normalizeURL rewrites a user-supplied URL to an absolute form, preferring
// HTTPS when no scheme was given.
//
//	"example.com"          → "https://example.com"
//	"http://example.com"   → "http://example.com"   (explicit scheme kept)
//	""                     → ""                      (empty stays empty)
//
// Values that still don't parse after the rewrite are returned trimmed but
// otherwise untouched — the profile form is forgiving, not strict.
func normalizeURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if !strings.Contains(s, "://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return strings.TrimSpace(raw)
	}

	return u.String()
}

// normalizeSkills trims each tag and drops empties, preserving order. The
// comma-splitting of a single delimited string happens at JSON decode time
// (model.StringList); by the time input reaches the service it is a slice.
func normalizeSkills(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, tag := range raw {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		out = append(out, tag)
	}
	return out
}
