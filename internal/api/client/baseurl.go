package client

import (
	"net"
	"strings"
)

const (
	// DefaultLocalOrigin serves development hosts.
	DefaultLocalOrigin = "http://localhost:8081"
	// DefaultProductionOrigin serves every other host.
	DefaultProductionOrigin = "https://furniture-store-api.onrender.com"
)

// Environment carries the inputs of base URL resolution.
type Environment struct {
	// Override replaces resolution entirely when non-blank (API_BASE_URL).
	Override string
	// Host is the hostname the admin UI is served from. Empty means no host
	// context is available, as in a build step or a plain CLI.
	Host string

	LocalOrigin      string
	ProductionOrigin string
}

// ResolveBaseURL picks the origin all relative paths are joined to. It never
// panics and never returns a value ending in "/".
func ResolveBaseURL(env Environment) (base string) {
	production := origin(env.ProductionOrigin, DefaultProductionOrigin)
	defer func() {
		if recover() != nil {
			base = production
		}
	}()

	if override := strings.TrimSpace(env.Override); override != "" {
		return strings.TrimRight(override, "/")
	}

	if strings.TrimSpace(env.Host) == "" {
		return production
	}
	if isLocalHost(env.Host) {
		return origin(env.LocalOrigin, DefaultLocalOrigin)
	}
	return production
}

func origin(value, fallback string) string {
	v := strings.TrimRight(strings.TrimSpace(value), "/")
	if v == "" {
		return strings.TrimRight(fallback, "/")
	}
	return v
}

func isLocalHost(host string) bool {
	h := strings.ToLower(strings.TrimSpace(host))
	if name, _, err := net.SplitHostPort(h); err == nil {
		h = name
	}
	return h == "localhost" || h == "127.0.0.1" || strings.HasSuffix(h, ".local")
}
