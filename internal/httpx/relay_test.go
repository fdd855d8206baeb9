package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRelayURL(t *testing.T) {
	c := NewRelayClient("r.jina.ai", "")
	if got := c.relayURL("https://example.com/menu"); got != "https://r.jina.ai/example.com/menu" {
		t.Errorf("relayURL = %q", got)
	}

	c = NewRelayClient("https://relay.local/", "")
	if got := c.relayURL("http://example.com"); got != "https://relay.local/example.com" {
		t.Errorf("relayURL with trailing slash base = %q", got)
	}
}

func TestRelayFetchText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("Vegan Bowl $10.00\n"))
	}))
	defer srv.Close()

	// Relay and target share the test server so no external traffic happens.
	c := NewRelayClient(srv.URL, "test-bot")
	text, err := c.FetchText(context.Background(), srv.URL+"/some/page")
	if err != nil {
		t.Fatalf("FetchText: %v", err)
	}
	if !strings.Contains(text, "Vegan Bowl") {
		t.Errorf("text = %q", text)
	}
}

func TestRelayFetchTextStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewRelayClient(srv.URL, "test-bot")
	_, err := c.FetchText(context.Background(), srv.URL+"/menu")
	if err == nil {
		t.Fatal("expected error for 502 relay response")
	}
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("error %v is not a *FetchError", err)
	}
	if fe.Status != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", fe.Status)
	}
}

func TestRenderText(t *testing.T) {
	page := `<html><head><style>body{}</style><script>x()</script></head>
<body><h2>MAINS</h2><ul><li>Vegan Burger <span>$9.00</span></li>
<li>Lentil Soup $6.00</li></ul><p>All items made in house.</p></body></html>`

	text, err := RenderText([]byte(page))
	if err != nil {
		t.Fatalf("RenderText: %v", err)
	}

	lines := strings.Split(text, "\n")
	want := []string{"MAINS", "Vegan Burger $9.00", "Lentil Soup $6.00", "All items made in house."}
	if len(lines) != len(want) {
		t.Fatalf("lines = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
	if strings.Contains(text, "x()") {
		t.Error("script content leaked into rendered text")
	}
}
