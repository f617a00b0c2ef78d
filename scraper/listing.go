package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/use-agent/pricecheck/models"
)

// SelectorSpec lists CSS selectors per listing field, most specific first.
type SelectorSpec struct {
	Card      []string
	Title     []string
	Price     []string
	Link      []string
	Thumbnail []string
}

// ListingSelectors is a compiled SelectorSpec.
type ListingSelectors struct {
	card      selectorChain
	title     selectorChain
	price     selectorChain
	link      selectorChain
	thumbnail selectorChain
}

// selectorChain is an ordered list of fallbacks.
type selectorChain []cascadia.Selector

// CompileSelectors compiles every selector in spec.
func CompileSelectors(spec SelectorSpec) (ListingSelectors, error) {
	var (
		ls  ListingSelectors
		err error
	)
	if ls.card, err = compileChain(spec.Card); err != nil {
		return ls, err
	}
	if ls.title, err = compileChain(spec.Title); err != nil {
		return ls, err
	}
	if ls.price, err = compileChain(spec.Price); err != nil {
		return ls, err
	}
	if ls.link, err = compileChain(spec.Link); err != nil {
		return ls, err
	}
	if ls.thumbnail, err = compileChain(spec.Thumbnail); err != nil {
		return ls, err
	}
	return ls, nil
}

// MustCompileSelectors is like CompileSelectors but panics on error.
// Use it for package-level selector tables.
func MustCompileSelectors(spec SelectorSpec) ListingSelectors {
	ls, err := CompileSelectors(spec)
	if err != nil {
		panic(err)
	}
	return ls
}

func compileChain(raw []string) (selectorChain, error) {
	chain := make(selectorChain, 0, len(raw))
	for _, s := range raw {
		sel, err := cascadia.Compile(s)
		if err != nil {
			return nil, err
		}
		chain = append(chain, sel)
	}
	return chain, nil
}

// first returns the matches of the first selector in the chain that
// matches anything under s.
func (c selectorChain) first(s *goquery.Selection) *goquery.Selection {
	for _, sel := range c {
		if found := s.FindMatcher(sel); found.Length() > 0 {
			return found
		}
	}
	return s.FindNodes()
}

// ExtractListings finds the repeated result cards in markup and extracts one
// listing per card. Cards without a title or a price are skipped. Relative
// links and thumbnails are resolved against base.
func ExtractListings(markup string, sel ListingSelectors, base *url.URL, platform string) ([]models.Listing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeParse, "failed to parse results page", err)
	}

	listings := []models.Listing{}
	sel.card.first(doc.Selection).Each(func(_ int, card *goquery.Selection) {
		title := collapseSpace(sel.title.first(card).First().Text())
		price := collapseSpace(sel.price.first(card).First().Text())
		if title == "" || price == "" {
			return
		}

		href, _ := sel.link.first(card).First().Attr("href")
		listings = append(listings, models.Listing{
			Title:        title,
			Price:        price,
			SourceURL:    resolveURL(base, href),
			ThumbnailURL: resolveURL(base, thumbnailSrc(sel.thumbnail.first(card).First())),
			Platform:     platform,
		})
	})
	return listings, nil
}

// thumbnailSrc prefers the lazy-load attribute over a data: placeholder.
func thumbnailSrc(img *goquery.Selection) string {
	src, _ := img.Attr("src")
	lazy, _ := img.Attr("data-src")
	lazy = strings.TrimSpace(lazy)
	if lazy != "" && (src == "" || strings.HasPrefix(src, "data:")) {
		return lazy
	}
	if strings.HasPrefix(src, "data:") {
		return ""
	}
	return strings.TrimSpace(src)
}

// resolveURL makes ref absolute against base. Unparsable or non-http(s)
// references resolve to "".
func resolveURL(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
