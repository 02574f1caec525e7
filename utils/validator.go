package utils

import (
	"net/url"
	"strings"
)

// ValidateURL checks that rawURL is an absolute http(s) URL with a host
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return ErrEmptyURL
	}

	parsedURL, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return ErrInvalidURL
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return ErrInvalidScheme
	}

	if parsedURL.Host == "" {
		return ErrEmptyHost
	}

	return nil
}

var defaultPorts = map[string]string{"http": "80", "https": "443"}

// Origin returns the scheme://host[:port] part of rawURL, serialized the way
// browsers do.
func Origin(rawURL string) (string, error) {
	if err := ValidateURL(rawURL); err != nil {
		return "", err
	}
	u, _ := url.Parse(rawURL)
	return OriginOf(u), nil
}

// OriginOf lower-cases scheme and host and drops the scheme's default port
func OriginOf(u *url.URL) string {
	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if port := u.Port(); port != "" && port != defaultPorts[scheme] {
		host += ":" + port
	}
	return scheme + "://" + host
}
