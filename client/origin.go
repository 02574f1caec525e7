package client

import (
	"fmt"
	"net/url"
	"strings"

	"go-away-stress/utils"
)

const containsPrefix = "contains:"

// OriginMatcher decides whether a message origin is trusted. Entries are
// exact origins ("https://script.google.com"), wildcard hosts
// ("https://*.googleusercontent.com"), substrings ("contains:google.com")
// or "*" to trust everything.
type OriginMatcher struct {
	any      bool
	exact    map[string]struct{}
	wildcard []wildcardOrigin
	contains []string
}

type wildcardOrigin struct {
	scheme string
	suffix string // ".googleusercontent.com"
}

// NewOriginMatcher parses an allow-list
func NewOriginMatcher(entries []string) (*OriginMatcher, error) {
	m := &OriginMatcher{exact: make(map[string]struct{})}

	for _, raw := range entries {
		entry := strings.ToLower(strings.TrimSpace(raw))
		switch {
		case entry == "":
			continue
		case entry == "*":
			m.any = true
		case strings.HasPrefix(entry, containsPrefix):
			sub := strings.TrimPrefix(entry, containsPrefix)
			if sub == "" {
				return nil, fmt.Errorf("empty substring in trusted origin %q", raw)
			}
			m.contains = append(m.contains, sub)
		case strings.Contains(entry, "://*."):
			scheme, host, _ := strings.Cut(entry, "://")
			if scheme != "http" && scheme != "https" {
				return nil, fmt.Errorf("trusted origin %q: %w", raw, utils.ErrInvalidScheme)
			}
			m.wildcard = append(m.wildcard, wildcardOrigin{scheme: scheme, suffix: strings.TrimPrefix(host, "*")})
		default:
			origin, err := utils.Origin(entry)
			if err != nil {
				return nil, fmt.Errorf("trusted origin %q: %w", raw, err)
			}
			m.exact[origin] = struct{}{}
		}
	}

	if !m.any && len(m.exact) == 0 && len(m.wildcard) == 0 && len(m.contains) == 0 {
		return nil, ErrNoTrustedOrigins
	}
	return m, nil
}

// Allow reports whether origin is on the allow-list
func (m *OriginMatcher) Allow(origin string) bool {
	if m.any {
		return true
	}
	u, err := url.Parse(strings.ToLower(origin))
	if err != nil || u.Host == "" {
		return false
	}
	origin = utils.OriginOf(u)

	if _, ok := m.exact[origin]; ok {
		return true
	}
	for _, sub := range m.contains {
		if strings.Contains(origin, sub) {
			return true
		}
	}

	host := u.Hostname()
	for _, w := range m.wildcard {
		if u.Scheme == w.scheme && strings.HasSuffix(host, w.suffix) && len(host) > len(w.suffix) {
			return true
		}
	}
	return false
}
