package cleaner

import (
	"log/slog"
	nurl "net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// minContentLength is the minimum TextContent length (in characters) for
// readability output to count as the page's main content.
const minContentLength = 50

// extractArticle runs the Mozilla Readability algorithm on rawHTML.
//
// ok is false when the URL is invalid, readability fails, or the extracted
// text is too short to be the main content. Callers must then fall back to
// the structured fields they already have.
func extractArticle(rawHTML string, pageURL *nurl.URL) (readability.Article, bool) {
	article, err := readability.FromReader(strings.NewReader(rawHTML), pageURL)
	if err != nil {
		slog.Warn("readability: extraction failed", "url", pageURL.String(), "error", err)
		return readability.Article{}, false
	}

	if len(strings.TrimSpace(article.TextContent)) < minContentLength {
		slog.Debug("readability: extracted content too short",
			"url", pageURL.String(), "length", len(article.TextContent),
		)
		return article, false
	}

	return article, true
}
