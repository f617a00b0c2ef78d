package scraper

import (
	"testing"

	"github.com/use-agent/pricecheck/models"
)

func TestDedupe(t *testing.T) {
	listings := []models.Listing{
		{Title: "Logitech M185 Wireless Mouse Grey", Price: "$12.99", SourceURL: "a"},
		{Title: "logitech m185 wireless mouse grey", Price: "12.99", SourceURL: "b"},
		{Title: "Logitech M185 Wireless Mouse Grey", Price: "$14.99", SourceURL: "c"},
		{Title: "Standing Desk Frame", Price: "$12.99", SourceURL: "d"},
	}

	got := Dedupe(listings)

	want := []string{"a", "c", "d"}
	if len(got) != len(want) {
		t.Fatalf("got %d listings, want %d: %+v", len(got), len(want), got)
	}
	for i, l := range got {
		if l.SourceURL != want[i] {
			t.Errorf("listing %d = %q, want %q", i, l.SourceURL, want[i])
		}
	}
}

func TestTitleFingerprint(t *testing.T) {
	if titleFingerprint("") != 0 {
		t.Error("empty title should fingerprint to 0")
	}
	if titleFingerprint("Red  Mug") != titleFingerprint("red mug") {
		t.Error("fingerprint should ignore case and spacing")
	}
}
