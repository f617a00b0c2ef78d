package engine

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/use-agent/pricecheck/models"
)

func TestHTTPEngine_FetchSendsBrowserHeaders(t *testing.T) {
	var gotUA, gotAccept, gotCustom string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		gotCustom = r.Header.Get("X-Custom")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><head><title> Shop </title></head><body>ok</body></html>"))
	}))
	defer srv.Close()

	e := NewHTTPEngine(HTTPOptions{})
	res, err := e.Fetch(context.Background(), &FetchRequest{
		URL:     srv.URL,
		Headers: map[string]string{"X-Custom": "1"},
		Timeout: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if gotUA != chromeUA {
		t.Errorf("User-Agent = %q, want default Chrome UA", gotUA)
	}
	if !strings.Contains(gotAccept, "text/html") {
		t.Errorf("Accept = %q, want browser-like accept header", gotAccept)
	}
	if gotCustom != "1" {
		t.Errorf("custom header not forwarded, got %q", gotCustom)
	}
	if res.Title != "Shop" {
		t.Errorf("Title = %q, want Shop", res.Title)
	}
	if res.EngineName != "http" || res.StatusCode != http.StatusOK {
		t.Errorf("unexpected result metadata: %+v", res)
	}
}

func TestHTTPEngine_FetchErrors(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		timeout  time.Duration
		wantCode string
	}{
		{
			name: "upstream 503",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "busy", http.StatusServiceUnavailable)
			},
			timeout:  2 * time.Second,
			wantCode: models.ErrCodeUpstreamStatus,
		},
		{
			name: "json instead of html",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{}`))
			},
			timeout:  2 * time.Second,
			wantCode: models.ErrCodeFetch,
		},
		{
			name: "slow upstream",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			},
			timeout:  50 * time.Millisecond,
			wantCode: models.ErrCodeTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewHTTPEngine(HTTPOptions{}).Fetch(context.Background(), &FetchRequest{
				URL:     srv.URL,
				Timeout: tt.timeout,
			})
			var se *models.ScrapeError
			if !errors.As(err, &se) {
				t.Fatalf("expected *ScrapeError, got %v", err)
			}
			if se.Code != tt.wantCode {
				t.Errorf("code = %s, want %s (err: %v)", se.Code, tt.wantCode, err)
			}
		})
	}
}

func TestHTTPEngine_UnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := NewHTTPEngine(HTTPOptions{}).Fetch(context.Background(), &FetchRequest{URL: addr, Timeout: time.Second})
	var se *models.ScrapeError
	if !errors.As(err, &se) || !models.IsFetchFailure(se.Code) {
		t.Fatalf("expected fetch-tier error, got %v", err)
	}
}

func TestUserAgent(t *testing.T) {
	if got := UserAgent(false); got != chromeUA {
		t.Errorf("UserAgent(false) = %q, want default", got)
	}
	for i := 0; i < 20; i++ {
		ua := UserAgent(true)
		found := false
		for _, candidate := range desktopUAs {
			if ua == candidate {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("UserAgent(true) returned %q outside the rotation pool", ua)
		}
	}
}

func TestIsHTMLContentType(t *testing.T) {
	tests := []struct {
		ct   string
		want bool
	}{
		{"text/html; charset=utf-8", true},
		{"application/xhtml+xml", true},
		{"TEXT/HTML", true},
		{"application/json", false},
		{"image/png", false},
	}
	for _, tt := range tests {
		if got := isHTMLContentType(tt.ct); got != tt.want {
			t.Errorf("isHTMLContentType(%q) = %v, want %v", tt.ct, got, tt.want)
		}
	}
}
