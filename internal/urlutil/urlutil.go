package urlutil

import (
	"net/url"
	"strings"
)

// MenuSegments are the path guesses probed under each root, in priority
// order: explicit menu pages first, then broader food pages, then
// diet-specific ones.
var MenuSegments = []string{
	"menu",
	"menus",
	"our-menu",
	"food",
	"dining",
	"eat",
	"vegan",
	"plant-based",
}

// Normalize returns a best-effort canonical form of a restaurant website
// string. It never fails: inputs that do not parse as absolute URLs are
// returned scheme-prefixed as-is.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
			return raw
		}
		return "https://" + raw
	}
	return strings.TrimSuffix(u.String(), "/")
}

// CandidateURLs expands a restaurant website into an ordered, deduplicated
// list of pages likely to hold a menu: each root first (highest confidence),
// then the root joined with each menu path segment.
func CandidateURLs(site string) []string {
	full := Normalize(site)

	var roots []string
	if u, err := url.Parse(full); err == nil && u.Scheme != "" && u.Host != "" {
		roots = append(roots, u.Scheme+"://"+u.Host)
	}
	roots = append(roots, full)

	seen := make(map[string]struct{})
	var out []string
	add := func(u string) {
		if u == "" {
			return
		}
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}

	for _, root := range roots {
		add(root)
		for _, seg := range MenuSegments {
			add(root + "/" + seg)
		}
	}
	return out
}

// NormalizeHost lowercases a host and strips a leading www.
func NormalizeHost(host string) string {
	host = strings.ToLower(host)
	host = strings.TrimPrefix(host, "www.")
	return host
}

// HostKey extracts the normalized host of a URL, or "default" when the URL
// does not parse.
func HostKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "default"
	}
	return NormalizeHost(u.Hostname())
}

// StripScheme removes an http:// or https:// prefix, the form the
// text-extraction relay expects targets in.
func StripScheme(rawURL string) string {
	rawURL = strings.TrimPrefix(rawURL, "https://")
	rawURL = strings.TrimPrefix(rawURL, "http://")
	return rawURL
}
