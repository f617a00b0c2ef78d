package cleaner

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// gallerySelectors locate product photos on pages that expose no structured
// image list.
var gallerySelectors = []string{
	"#landingImage",
	"#altImages img",
	"#imgTagWrapperId img",
	".product-gallery img",
	".gallery img",
	"img.product-image",
	`[itemprop="image"]`,
}

// imageSet collects absolute, de-duplicated image URLs up to a limit.
type imageSet struct {
	base  *url.URL
	limit int
	seen  map[string]struct{}
	urls  []string
}

func newImageSet(base *url.URL, limit int) *imageSet {
	return &imageSet{base: base, limit: limit, seen: make(map[string]struct{}), urls: []string{}}
}

func (s *imageSet) full() bool {
	return s.limit > 0 && len(s.urls) >= s.limit
}

// add resolves ref and appends it unless it is empty, inline data, a
// duplicate, or the set is full.
func (s *imageSet) add(ref string) {
	if s.full() {
		return
	}
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "data:") {
		return
	}
	u, err := url.Parse(ref)
	if err != nil {
		return
	}
	if s.base != nil {
		u = s.base.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return
	}
	abs := u.String()
	if _, ok := s.seen[abs]; ok {
		return
	}
	s.seen[abs] = struct{}{}
	s.urls = append(s.urls, abs)
}

// addGallery walks the gallery selectors in order.
func (s *imageSet) addGallery(doc *goquery.Document) {
	for _, sel := range gallerySelectors {
		doc.Find(sel).EachWithBreak(func(_ int, img *goquery.Selection) bool {
			s.add(imageSrc(img))
			return !s.full()
		})
		if s.full() {
			return
		}
	}
}

// imageSrc picks the best source attribute of an <img> or itemprop node.
// High-resolution and lazy-load attributes win over src.
func imageSrc(img *goquery.Selection) string {
	for _, attr := range []string{"data-old-hires", "data-src", "src", "content", "href"} {
		if v, ok := img.Attr(attr); ok {
			v = strings.TrimSpace(v)
			if v != "" && !strings.HasPrefix(v, "data:") {
				return v
			}
		}
	}
	return ""
}
