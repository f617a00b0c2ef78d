package scraper

import (
	"hash/fnv"
	"math/bits"
	"strings"

	"github.com/use-agent/pricecheck/models"
)

// dedupeDistance is the largest title fingerprint distance still treated
// as the same product.
const dedupeDistance = 3

// titleFingerprint computes a 64-bit SimHash over the lower-cased words of
// title. Each word hash votes per bit; positive columns set the bit.
func titleFingerprint(title string) uint64 {
	words := strings.Fields(strings.ToLower(title))
	if len(words) == 0 {
		return 0
	}

	var vector [64]int
	for _, word := range words {
		h := fnv.New64a()
		h.Write([]byte(word))
		hash := h.Sum64()

		for i := 0; i < 64; i++ {
			if hash&(1<<uint(i)) != 0 {
				vector[i]++
			} else {
				vector[i]--
			}
		}
	}

	var fp uint64
	for i := 0; i < 64; i++ {
		if vector[i] > 0 {
			fp |= 1 << uint(i)
		}
	}
	return fp
}

// Dedupe drops listings whose title is near-identical to an earlier listing
// with the same normalized price. The first occurrence is kept and order is
// preserved.
func Dedupe(listings []models.Listing) []models.Listing {
	type seen struct {
		fp    uint64
		price float64
	}
	kept := make([]seen, 0, len(listings))
	out := make([]models.Listing, 0, len(listings))

outer:
	for _, l := range listings {
		cur := seen{fp: titleFingerprint(l.Title), price: NormalizePrice(l.Price)}
		for _, k := range kept {
			if k.price == cur.price && bits.OnesCount64(k.fp^cur.fp) <= dedupeDistance {
				continue outer
			}
		}
		kept = append(kept, cur)
		out = append(out, l)
	}
	return out
}
