package urlutil

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://example.com/", "https://example.com"},
		{"https://example.com/menu/", "https://example.com/menu"},
		{"http://example.com", "http://example.com"},
		{"example.com", "https://example.com"},
		{"  example.com/menu  ", "https://example.com/menu"},
		{"https://", "https://"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCandidateURLsOrderAndDedup(t *testing.T) {
	got := CandidateURLs("https://example.com/")
	want := []string{
		"https://example.com",
		"https://example.com/menu",
		"https://example.com/menus",
		"https://example.com/our-menu",
		"https://example.com/food",
		"https://example.com/dining",
		"https://example.com/eat",
		"https://example.com/vegan",
		"https://example.com/plant-based",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("CandidateURLs = %v, want %v", got, want)
	}
}

func TestCandidateURLsDeepLink(t *testing.T) {
	got := CandidateURLs("https://example.com/locations/soho")

	if got[0] != "https://example.com" {
		t.Fatalf("first candidate = %q, want origin", got[0])
	}
	if got[1] != "https://example.com/menu" {
		t.Fatalf("second candidate = %q, want origin menu probe", got[1])
	}

	seen := make(map[string]struct{})
	for _, u := range got {
		if _, dup := seen[u]; dup {
			t.Fatalf("duplicate candidate %q", u)
		}
		seen[u] = struct{}{}
	}
	if _, ok := seen["https://example.com/locations/soho/menu"]; !ok {
		t.Fatalf("missing full-URL menu probe in %v", got)
	}
}

func TestHostKey(t *testing.T) {
	if got := HostKey("https://WWW.Example.com/menu"); got != "example.com" {
		t.Errorf("HostKey = %q, want example.com", got)
	}
	if got := HostKey("::bad::"); got != "default" {
		t.Errorf("HostKey on malformed input = %q, want default", got)
	}
}

func TestStripScheme(t *testing.T) {
	if got := StripScheme("https://example.com/menu"); got != "example.com/menu" {
		t.Errorf("StripScheme = %q", got)
	}
	if got := StripScheme("example.com"); got != "example.com" {
		t.Errorf("StripScheme without scheme = %q", got)
	}
}
