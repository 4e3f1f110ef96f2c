package instance

import (
	"fmt"
	"net/url"
	"strings"
)

// Location describes where the front end itself is served from. It stands in
// for the hosting page's own address when no instance URL is configured.
type Location struct {
	Scheme   string
	Hostname string
	Port     string
}

// ParseLocation builds a Location from an absolute URL such as
// "http://localhost:8080".
func ParseLocation(raw string) (Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, fmt.Errorf("parse location: %w", err)
	}
	if u.Scheme == "" || u.Hostname() == "" {
		return Location{}, fmt.Errorf("parse location %q: scheme and host required", raw)
	}
	return Location{
		Scheme:   u.Scheme,
		Hostname: u.Hostname(),
		Port:     u.Port(),
	}, nil
}

// DefaultOrigin returns scheme://host[:port] for loc.
func DefaultOrigin(loc Location) string {
	scheme := strings.TrimSuffix(loc.Scheme, ":")
	origin := scheme + "://" + loc.Hostname
	if loc.Port != "" {
		origin += ":" + loc.Port
	}
	return origin
}

// Resolve joins rel onto base. Absolute addresses (anything starting with
// "http") are returned unchanged. An empty base falls back to the origin of
// loc. Exactly one slash is dropped at the join point when both sides carry
// one.
func Resolve(base string, loc Location, rel string) string {
	if strings.HasPrefix(rel, "http") {
		return rel
	}
	if base == "" {
		base = DefaultOrigin(loc)
	}
	if strings.HasSuffix(base, "/") && strings.HasPrefix(rel, "/") {
		rel = rel[1:]
	}
	return base + rel
}

// NormalizeURL appends a trailing slash to a non-empty address that lacks
// one.
func NormalizeURL(raw string) string {
	if raw != "" && !strings.HasSuffix(raw, "/") {
		return raw + "/"
	}
	return raw
}
