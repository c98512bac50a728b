// Package urlnorm canonicalizes venue-supplied website URLs and produces
// fetchable variants for the content-extraction chain.
package urlnorm

import (
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrInvalidURL indicates the input cannot be parsed as a URL. Callers
// treat this as "no usable website", not a fatal error.
var ErrInvalidURL = eris.New("urlnorm: invalid url")

// Normalize trims the input, prepends https:// when no scheme is present,
// and returns the canonical absolute URL string.
func Normalize(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ErrInvalidURL
	}
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" || !strings.Contains(u.Host, ".") {
		return "", ErrInvalidURL
	}
	u.Host = strings.ToLower(u.Host)
	return u.String(), nil
}

// Variants returns up to 4 candidate URLs by toggling http/https and a
// leading www. on the hostname, de-duplicated, the original scheme/host
// first. Returns nil when the input does not normalize.
func Variants(raw string) []string {
	canonical, err := Normalize(raw)
	if err != nil {
		return nil
	}
	u, err := url.Parse(canonical)
	if err != nil {
		return nil
	}

	schemes := []string{u.Scheme}
	if u.Scheme == "https" {
		schemes = append(schemes, "http")
	} else {
		schemes = append(schemes, "https")
	}

	hosts := []string{u.Host}
	if stripped, ok := strings.CutPrefix(u.Host, "www."); ok {
		hosts = append(hosts, stripped)
	} else {
		hosts = append(hosts, "www."+u.Host)
	}

	seen := make(map[string]bool, 4)
	variants := make([]string, 0, 4)
	for _, h := range hosts {
		for _, s := range schemes {
			v := *u
			v.Scheme = s
			v.Host = h
			str := v.String()
			if !seen[str] {
				seen[str] = true
				variants = append(variants, str)
			}
		}
	}
	return variants
}

// Host returns the lowercased hostname of a raw URL, or "" when the input
// does not normalize. Used as the cache key for scrape results.
func Host(raw string) string {
	canonical, err := Normalize(raw)
	if err != nil {
		return ""
	}
	u, err := url.Parse(canonical)
	if err != nil {
		return ""
	}
	return u.Host
}
