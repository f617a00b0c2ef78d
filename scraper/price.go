package scraper

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/use-agent/pricecheck/models"
)

// leadingFloat matches the longest numeric prefix a lenient float parser
// accepts once everything but digits and dots has been stripped.
var leadingFloat = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)`)

// NormalizePrice turns display price text into a number for ordering.
//
// Every character that is not a digit or '.' is removed, then the longest
// leading float is parsed. Text without a parsable prefix yields 0, so
// "N/A" and "" sort before any priced listing. Thousands separators vanish
// with the strip ("$1,299.99" -> 1299.99), while ranges concatenate
// ("$10 - $20" -> 1020).
func NormalizePrice(s string) float64 {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}

	m := leadingFloat.FindString(b.String())
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}

// ComparePrices orders two price strings ascending by their normalized value.
func ComparePrices(a, b string) int {
	return cmp.Compare(NormalizePrice(a), NormalizePrice(b))
}

// SortByPrice sorts listings in place, ascending by normalized price.
// Listings with equal prices keep their relative order.
func SortByPrice(listings []models.Listing) {
	type keyed struct {
		price   float64
		listing models.Listing
	}
	tmp := make([]keyed, len(listings))
	for i, l := range listings {
		tmp[i] = keyed{price: NormalizePrice(l.Price), listing: l}
	}
	slices.SortStableFunc(tmp, func(a, b keyed) int {
		return cmp.Compare(a.price, b.price)
	})
	for i := range tmp {
		listings[i] = tmp[i].listing
	}
}
