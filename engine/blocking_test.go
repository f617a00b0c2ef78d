package engine

import (
	"testing"

	"github.com/go-rod/rod/lib/proto"
)

func TestIsTrackerHost(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		{"doubleclick.net", true},
		{"stats.g.doubleclick.net", true},
		{"WWW.GOOGLE-ANALYTICS.COM", true},
		{"www.bing.com", false},
		{"bat.bing.com", true},
		{"example.com", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isTrackerHost(tt.host); got != tt.want {
			t.Errorf("isTrackerHost(%q) = %v, want %v", tt.host, got, tt.want)
		}
	}
}

func TestBlockPolicy(t *testing.T) {
	p := newBlockPolicy([]string{"Image", "Font", "Bogus"}, true)

	if p.empty() {
		t.Fatal("policy should not be empty")
	}
	if !p.blocks(proto.NetworkResourceTypeImage, "https://shop.example.com/a.png") {
		t.Error("images should be blocked")
	}
	if p.blocks(proto.NetworkResourceTypeDocument, "https://shop.example.com/item") {
		t.Error("documents must never be blocked")
	}
	if !p.blocks(proto.NetworkResourceTypeScript, "https://www.googletagmanager.com/gtm.js") {
		t.Error("tracker scripts should be blocked")
	}

	if !newBlockPolicy(nil, false).empty() {
		t.Error("policy without types or trackers should be empty")
	}
}
