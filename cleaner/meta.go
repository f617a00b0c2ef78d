package cleaner

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// metaContent returns the first non-empty content of a <meta> tag whose
// property or name equals one of keys, tried in order.
func metaContent(doc *goquery.Document, keys ...string) string {
	for _, key := range keys {
		var val string
		doc.Find(`meta[property="` + key + `"], meta[name="` + key + `"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			c, _ := s.Attr("content")
			val = strings.TrimSpace(c)
			return val == ""
		})
		if val != "" {
			return val
		}
	}
	return ""
}

// metaContentAll returns every non-empty content for key, in document order.
func metaContentAll(doc *goquery.Document, key string) []string {
	var out []string
	doc.Find(`meta[property="` + key + `"], meta[name="` + key + `"]`).Each(func(_ int, s *goquery.Selection) {
		if c, _ := s.Attr("content"); strings.TrimSpace(c) != "" {
			out = append(out, strings.TrimSpace(c))
		}
	})
	return out
}

// metaPrice reads Open Graph / product price meta tags.
func metaPrice(doc *goquery.Document) string {
	amount := metaContent(doc, "product:price:amount", "og:price:amount")
	currency := metaContent(doc, "product:price:currency", "og:price:currency")
	return formatPrice(amount, currency)
}

// microdataScope returns the schema.org Product item scope, or an empty
// selection when the page has none.
func microdataScope(doc *goquery.Document) *goquery.Selection {
	return doc.Find(`[itemscope][itemtype*="schema.org/Product"]`).First()
}

// itemprop returns the content attribute or text of the first element with
// the given itemprop inside scope.
func itemprop(scope *goquery.Selection, prop string) string {
	s := scope.Find(`[itemprop="` + prop + `"]`).First()
	if s.Length() == 0 {
		return ""
	}
	if c, ok := s.Attr("content"); ok && strings.TrimSpace(c) != "" {
		return strings.TrimSpace(c)
	}
	return collapseSpace(s.Text())
}

// microdataPrice joins itemprop price and priceCurrency.
func microdataPrice(scope *goquery.Selection) string {
	amount := itemprop(scope, "price")
	if amount == "" {
		return ""
	}
	// Visible price text usually carries its own symbol already.
	if digitsOnly(amount) != amount {
		return amount
	}
	return formatPrice(amount, itemprop(scope, "priceCurrency"))
}

// Selectors for pages without structured data, most specific first.
var (
	titleAnchors = []string{"#productTitle", "h1"}
	priceAnchors = []string{"#priceblock_ourprice", ".a-price .a-offscreen", ".price"}
)

// firstText returns the collapsed text of the first non-empty match.
func firstText(doc *goquery.Document, selectors []string) string {
	for _, sel := range selectors {
		var text string
		doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text = collapseSpace(s.Text())
			return text == ""
		})
		if text != "" {
			return text
		}
	}
	return ""
}

// digitsOnly keeps only digits and dots.
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
