package cleaner

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// structuredProduct holds the fields read from a schema.org Product.
type structuredProduct struct {
	Name        string
	Description string
	Price       string
	Images      []string
}

// productFromJSONLD returns the first schema.org Product found in the
// page's JSON-LD blocks. Blocks that fail to decode are skipped.
func productFromJSONLD(doc *goquery.Document) (structuredProduct, bool) {
	var (
		out   structuredProduct
		found bool
	)
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var raw any
		if err := json.Unmarshal([]byte(strings.TrimSpace(s.Text())), &raw); err != nil {
			return true
		}
		m, ok := findProduct(raw)
		if !ok {
			return true
		}
		out = structuredProduct{
			Name:        jsonString(m["name"]),
			Description: jsonString(m["description"]),
			Price:       offerPrice(m["offers"]),
			Images:      jsonImages(m["image"]),
		}
		found = true
		return false
	})
	return out, found
}

// findProduct walks arrays and @graph containers looking for a node whose
// @type is (or includes) Product.
func findProduct(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if m, ok := findProduct(item); ok {
				return m, true
			}
		}
	case map[string]any:
		if hasType(t["@type"], "Product") {
			return t, true
		}
		if g, ok := t["@graph"]; ok {
			return findProduct(g)
		}
	}
	return nil, false
}

func hasType(v any, want string) bool {
	switch t := v.(type) {
	case string:
		return strings.EqualFold(t, want)
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && strings.EqualFold(s, want) {
				return true
			}
		}
	}
	return false
}

// offerPrice reads price (or lowPrice for AggregateOffer) from an offers
// object or the first priced entry of an offers array.
func offerPrice(v any) string {
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if p := offerPrice(item); p != "" {
				return p
			}
		}
	case map[string]any:
		amount := jsonString(t["price"])
		if amount == "" {
			amount = jsonString(t["lowPrice"])
		}
		return formatPrice(amount, jsonString(t["priceCurrency"]))
	}
	return ""
}

func jsonImages(v any) []string {
	switch t := v.(type) {
	case string:
		if t = strings.TrimSpace(t); t != "" {
			return []string{t}
		}
	case []any:
		var out []string
		for _, item := range t {
			out = append(out, jsonImages(item)...)
		}
		return out
	case map[string]any:
		return jsonImages(t["url"])
	}
	return nil
}

// jsonString renders a JSON scalar as text. Numbers keep their shortest form.
func jsonString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"CNY": "¥",
	"JPY": "¥",
}

// formatPrice joins an amount and an ISO currency code into display text.
func formatPrice(amount, currency string) string {
	if amount == "" {
		return ""
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if sym, ok := currencySymbols[currency]; ok {
		return sym + amount
	}
	if currency != "" {
		return currency + " " + amount
	}
	return amount
}
