package cleaner

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/pricecheck/models"
)

// DefaultMaxImages caps ProductDetail.Images when no limit is configured.
const DefaultMaxImages = 10

// Cleaner turns a product page into a ProductDetail.
//
// Each field is taken from the first source that provides it:
//
//	JSON-LD Product -> Open Graph / product meta -> microdata -> DOM anchors -> <title>
//
// The description additionally falls back to the readability excerpt. The
// Markdown converter is created once and reused (goroutine-safe).
type Cleaner struct {
	mdConverter *converter.Converter
	maxImages   int
}

// NewCleaner creates a Cleaner that keeps at most maxImages images
// (DefaultMaxImages when maxImages <= 0).
func NewCleaner(maxImages int) *Cleaner {
	if maxImages <= 0 {
		maxImages = DefaultMaxImages
	}
	return &Cleaner{
		mdConverter: newMarkdownConverter(),
		maxImages:   maxImages,
	}
}

// Product extracts a single product record from rawHTML. pageURL resolves
// relative image links and is echoed as SourceURL. format is
// models.FormatText or models.FormatMarkdown.
//
// A page without any title source is a PARSE_FAILED error; a missing price
// or description is not.
func (c *Cleaner) Product(rawHTML, pageURL, format string) (*models.ProductDetail, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput, "invalid product URL", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeParse, "failed to parse product page", err)
	}

	ld, _ := productFromJSONLD(doc)
	scope := microdataScope(doc)

	title := firstNonEmpty(
		ld.Name,
		metaContent(doc, "og:title", "twitter:title"),
		itemprop(scope, "name"),
		firstText(doc, titleAnchors),
		collapseSpace(doc.Find("title").First().Text()),
	)
	if title == "" {
		return nil, models.NewScrapeError(models.ErrCodeParse, "no product title found", nil)
	}

	price := firstNonEmpty(
		ld.Price,
		metaPrice(doc),
		microdataPrice(scope),
		firstText(doc, priceAnchors),
	)

	description := firstNonEmpty(
		ld.Description,
		metaContent(doc, "og:description", "description", "twitter:description"),
		itemprop(scope, "description"),
	)

	article, articleOK := extractArticle(rawHTML, base)
	if description == "" {
		description = collapseSpace(article.Excerpt)
	}
	if format == models.FormatMarkdown && articleOK {
		md, err := toMarkdown(c.mdConverter, article.Content, pageURL)
		if err != nil {
			slog.Warn("markdown conversion failed, keeping text description", "url", pageURL, "error", err)
		} else if md = strings.TrimSpace(md); md != "" {
			description = md
		}
	}

	images := newImageSet(base, c.maxImages)
	for _, img := range ld.Images {
		images.add(img)
	}
	for _, img := range metaContentAll(doc, "og:image") {
		images.add(img)
	}
	images.addGallery(doc)

	return &models.ProductDetail{
		Title:       title,
		Price:       price,
		Description: description,
		Images:      images.urls,
		SourceURL:   pageURL,
	}, nil
}
