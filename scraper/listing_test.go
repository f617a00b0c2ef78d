package scraper

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/use-agent/pricecheck/models"
)

func readFixture(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	return string(b)
}

func newTestBing(t *testing.T) *BingSource {
	t.Helper()
	src, err := NewBingSource("", "")
	if err != nil {
		t.Fatalf("NewBingSource: %v", err)
	}
	return src
}

func TestBingExtract_SkipsCardsWithoutPrice(t *testing.T) {
	listings, err := newTestBing(t).Extract(readFixture(t, "bing_three_cards.html"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("got %d listings, want 2: %+v", len(listings), listings)
	}

	want := []models.Listing{
		{
			Title:        "Mouse Pro Wireless",
			Price:        "$12.50",
			SourceURL:    "https://shop.example.com/p/mouse-pro?ref=bing",
			ThumbnailURL: "https://img.example.com/mouse-pro.jpg",
			Platform:     "bing",
		},
		{
			Title:        "Cheap Mouse",
			Price:        "¥8",
			SourceURL:    "https://www.bing.com/shop/redirect?u=cheap-mouse",
			ThumbnailURL: "https://img.example.com/cheap.jpg",
			Platform:     "bing",
		},
	}
	for i := range want {
		if listings[i] != want[i] {
			t.Errorf("listing %d = %+v, want %+v", i, listings[i], want[i])
		}
	}
}

func TestBingExtract_FallbackSelectors(t *testing.T) {
	listings, err := newTestBing(t).Extract(readFixture(t, "bing_fallback_layout.html"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("got %d listings, want 1: %+v", len(listings), listings)
	}
	l := listings[0]
	if l.Title != "Gaming Keyboard" || l.Price != "$1,299.99" {
		t.Errorf("unexpected listing %+v", l)
	}
	if l.SourceURL != "https://shop.example.com/kb" {
		t.Errorf("SourceURL = %q", l.SourceURL)
	}
	if l.ThumbnailURL != "" {
		t.Errorf("ThumbnailURL = %q, want empty", l.ThumbnailURL)
	}
}

func TestBingExtract_NoCardsIsEmptyNotError(t *testing.T) {
	listings, err := newTestBing(t).Extract(readFixture(t, "bing_empty.html"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if listings == nil || len(listings) != 0 {
		t.Errorf("want empty non-nil slice, got %#v", listings)
	}
}

func TestBingSearchURL(t *testing.T) {
	src, err := NewBingSource("https://www.bing.com/shop?FORM=SHOPTB", "en-US")
	if err != nil {
		t.Fatalf("NewBingSource: %v", err)
	}
	got := src.SearchURL("usb c hub & dock")
	for _, part := range []string{"https://www.bing.com/shop?", "q=usb+c+hub+%26+dock", "mkt=en-US", "FORM=SHOPTB"} {
		if !strings.Contains(got, part) {
			t.Errorf("SearchURL = %q, missing %q", got, part)
		}
	}
}

func TestNewBingSource_RejectsBadEndpoint(t *testing.T) {
	for _, endpoint := range []string{"ftp://bing.com/shop", "://bad"} {
		if _, err := NewBingSource(endpoint, ""); err == nil {
			t.Errorf("NewBingSource(%q) should fail", endpoint)
		}
	}
}

func TestCompileSelectors_Invalid(t *testing.T) {
	if _, err := CompileSelectors(SelectorSpec{Card: []string{"li[["}}); err == nil {
		t.Error("expected error for invalid selector")
	}
}

func TestResolveURL(t *testing.T) {
	src := newTestBing(t)
	tests := []struct {
		ref  string
		want string
	}{
		{"", ""},
		{"javascript:void(0)", ""},
		{"/a?b=1", "https://www.bing.com/a?b=1"},
		{"//cdn.example.com/x.png", "https://cdn.example.com/x.png"},
		{"https://other.example.com/", "https://other.example.com/"},
	}
	for _, tt := range tests {
		if got := resolveURL(src.base, tt.ref); got != tt.want {
			t.Errorf("resolveURL(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}
