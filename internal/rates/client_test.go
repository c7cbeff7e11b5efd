package rates

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewClientRequiresKey(t *testing.T) {
	if c := NewClient("https://example.com", ""); c != nil {
		t.Error("empty key must disable the client")
	}
	if c := NewClient("https://example.com", "   "); c != nil {
		t.Error("blank key must disable the client")
	}
	if c := NewClient("https://example.com/", "k"); c == nil {
		t.Error("valid key must produce a client")
	}
}

func TestFetchLatest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/test-key/latest/USD" {
			t.Errorf("unexpected path %q", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":"success","conversion_rates":{"USD":1,"EUR":0.92}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	table, err := c.FetchLatest(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(table) != 2 || table["EUR"] != 0.92 {
		t.Errorf("unexpected table: %v", table)
	}
}

func TestFetchLatestProviderFailure(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"error result", `{"result":"error","error-type":"invalid-key"}`},
		{"empty rates", `{"result":"success","conversion_rates":{}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL, "k")
			if _, err := c.FetchLatest(context.Background()); !errors.Is(err, ErrProviderFailure) {
				t.Errorf("got %v, want ErrProviderFailure", err)
			}
		})
	}
}

func TestFetchLatestHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k")
	if _, err := c.FetchLatest(context.Background()); err == nil {
		t.Error("expected error on 500 response")
	}
}

func TestFetchLatestMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k")
	if _, err := c.FetchLatest(context.Background()); err == nil {
		t.Error("expected parse error")
	}
}
