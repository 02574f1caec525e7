package utils

import (
	"reflect"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr error
	}{
		{
			name:    "Valid HTTP URL",
			url:     "http://127.0.0.1:8080/exec",
			wantErr: nil,
		},
		{
			name:    "Valid HTTPS URL",
			url:     "https://script.google.com/macros/s/abc/exec",
			wantErr: nil,
		},
		{
			name:    "Empty URL",
			url:     "",
			wantErr: ErrEmptyURL,
		},
		{
			name:    "Invalid URL format",
			url:     "not a url",
			wantErr: ErrInvalidURL,
		},
		{
			name:    "Invalid scheme - FTP",
			url:     "ftp://example.com",
			wantErr: ErrInvalidScheme,
		},
		{
			name:    "Invalid scheme - JavaScript",
			url:     "javascript:alert('xss')",
			wantErr: ErrInvalidScheme,
		},
		{
			name:    "Missing host",
			url:     "http:///exec",
			wantErr: ErrEmptyHost,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if err != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, want %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestOrigin(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://script.google.com/macros/s/abc/exec", "https://script.google.com"},
		{"HTTP://Example.COM:8080/path?q=1", "http://example.com:8080"},
		{"https://script.google.com:443/exec", "https://script.google.com"},
		{"http://localhost:80/bridge", "http://localhost"},
		{"http://localhost:443/bridge", "http://localhost:443"},
		{"http://[::1]:8080/", "http://[::1]:8080"},
		{"https://[::1]:443/", "https://[::1]"},
	}

	for _, tt := range tests {
		got, err := Origin(tt.url)
		if err != nil {
			t.Fatalf("Origin(%q) error = %v", tt.url, err)
		}
		if got != tt.want {
			t.Errorf("Origin(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}

	if _, err := Origin("::bad"); err == nil {
		t.Error("Origin should reject an invalid URL")
	}
}

func TestCleanList(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"Nil input", nil, []string{}},
		{"Trims and drops empties", []string{" A ", "", "  ", "B"}, []string{"A", "B"}},
		{"Keeps first occurrence order", []string{"B", "A", "B", " A"}, []string{"B", "A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanList(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CleanList(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
