package search

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ppiankov/factcheck/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := model.DefaultConfig().Search
	cfg.BaseURL = server.URL
	client, err := NewClient(server.Client(), "serp-key", cfg, nil)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

func TestNewClient_RequiresKey(t *testing.T) {
	if _, err := NewClient(nil, " ", model.SearchConfig{}, nil); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestSearch_RequestParameters(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search.json" {
			t.Errorf("expected path /search.json, got %s", r.URL.Path)
		}
		q := r.URL.Query()
		want := map[string]string{
			"q":             "sky colour",
			"api_key":       "serp-key",
			"engine":        "google",
			"google_domain": "google.com",
			"gl":            "us",
			"hl":            "en",
			"num":           "5",
		}
		for k, v := range want {
			if got := q.Get(k); got != v {
				t.Errorf("param %s = %q, want %q", k, got, v)
			}
		}
		_, _ = w.Write([]byte(`{"organic_results": []}`))
	})

	got, err := client.Search(context.Background(), "  sky colour ")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if got != NoResult {
		t.Errorf("expected %q, got %q", NoResult, got)
	}
}

func TestSearch_AnswerBoxPreferred(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"answer_box": {"answer": "Blue", "link": "https://www.nasa.gov/sky"},
			"organic_results": [{"title": "Ignored", "link": "https://x.com", "snippet": "ignored"}]
		}`))
	})

	got, err := client.Search(context.Background(), "what colour is the sky")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if got != "Blue (https://www.nasa.gov/sky)" {
		t.Errorf("unexpected observation: %q", got)
	}
}

func TestSearch_OrganicResultsTagged(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"knowledge_graph": {"description": "The sky appears <b>blue</b> due to Rayleigh scattering."},
			"organic_results": [
				{"title": "Why is the sky blue?", "link": "https://spaceplace.nasa.gov/blue-sky/", "snippet": "Sunlight is scattered..."},
				{"title": "Sky myths", "link": "https://blog.example.com/sky", "snippet": "Some say &quot;green&quot;"}
			]
		}`))
	})

	got, err := client.Search(context.Background(), "sky green")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	lines := strings.Split(got, "\n")
	want := []string{
		"The sky appears blue due to Rayleigh scattering.",
		"[primary] Why is the sky blue?: Sunlight is scattered... (https://spaceplace.nasa.gov/blue-sky/)",
		`[tertiary] Sky myths: Some say "green" (https://blog.example.com/sky)`,
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("observation mismatch (-want +got):\n%s", diff)
	}
}

func TestSearch_RespectsNumResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"organic_results": [
			{"title": "a", "link": "https://a.gov", "snippet": "1"},
			{"title": "b", "link": "https://b.org", "snippet": "2"},
			{"title": "c", "link": "https://c.com", "snippet": "3"}
		]}`))
	})
	client.config.NumResults = 2

	obs, err := client.Search(context.Background(), "q")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	want := []string{
		"[primary] a: 1 (https://a.gov)",
		"[secondary] b: 2 (https://b.org)",
	}
	if diff := cmp.Diff(want, strings.Split(obs, "\n")); diff != "" {
		t.Errorf("observation mismatch (-want +got):\n%s", diff)
	}
}

func TestSearch_InvalidKey(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": "Invalid API key. Your API key should be here: https://serpapi.com/manage-api-key"}`))
	})

	_, err := client.Search(context.Background(), "q")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", apiErr.StatusCode)
	}
	if !strings.HasPrefix(apiErr.Message, "Invalid API key") {
		t.Errorf("unexpected message: %s", apiErr.Message)
	}
}

func TestSearch_NoResultsErrorIsNotFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": "Google hasn't returned any results for this query."}`))
	})

	got, err := client.Search(context.Background(), "zzzz")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != NoResult {
		t.Errorf("expected %q, got %q", NoResult, got)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should not be called for an empty query")
	})

	if _, err := client.Search(context.Background(), "   "); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("expected ErrEmptyQuery, got %v", err)
	}
}

func TestSearch_MalformedJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{malformed`))
	})

	if _, err := client.Search(context.Background(), "q"); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestCleanSnippet(t *testing.T) {
	tests := map[string]string{
		"plain   text\n here":               "plain text here",
		"<b>bold</b> and <em>em</em>":       "bold and em",
		"Tom &amp; Jerry":                   "Tom & Jerry",
		"line<br/>break":                    "line break",
		"":                                  "",
	}
	for in, want := range tests {
		if got := CleanSnippet(in); got != want {
			t.Errorf("CleanSnippet(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSearch_TransportErrorHidesKey(t *testing.T) {
	cfg := model.DefaultConfig().Search
	cfg.BaseURL = "http://127.0.0.1:1"
	client, err := NewClient(http.DefaultClient, "SECRETSERPKEY", cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	_, err = client.Search(context.Background(), "sky colour")
	if err == nil {
		t.Fatal("expected a connection error")
	}
	if strings.Contains(err.Error(), "SECRETSERPKEY") {
		t.Fatalf("error exposes the API key: %v", err)
	}
	if !strings.Contains(err.Error(), "api_key=REDACTED") {
		t.Errorf("expected the redacted URL in %q", err)
	}
	var netErr net.Error
	if !errors.As(err, &netErr) {
		t.Errorf("expected a net.Error in the chain, got %T", err)
	}
}

func TestRedactURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://serpapi.com/search.json?api_key=abc&q=sky", "https://serpapi.com/search.json?api_key=REDACTED&q=sky"},
		{"https://serpapi.com/search.json?q=sky", "https://serpapi.com/search.json?q=sky"},
	}
	for _, tt := range tests {
		if got := redactURL(tt.in); got != tt.want {
			t.Errorf("redactURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
