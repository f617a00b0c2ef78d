package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/use-agent/pricecheck/cleaner"
	"github.com/use-agent/pricecheck/engine"
	"github.com/use-agent/pricecheck/metrics"
	"github.com/use-agent/pricecheck/models"
)

// Options configures a Scraper.
type Options struct {
	// Engine performs every upstream fetch. Required.
	Engine engine.Engine

	// Sources are the registered search sources, in result order. Required.
	Sources []Source

	// Cleaner extracts product detail records. Default: NewCleaner(0).
	Cleaner *cleaner.Cleaner

	// FetchTimeout bounds each upstream fetch. Default: 10s.
	FetchTimeout time.Duration
}

// Scraper runs searches and product lookups against upstream sources.
// It holds no per-request state and is safe for concurrent use.
type Scraper struct {
	engine  engine.Engine
	sources []Source
	byName  map[string]Source
	cleaner *cleaner.Cleaner
	timeout time.Duration
}

// New validates opts and returns a Scraper.
func New(opts Options) (*Scraper, error) {
	if opts.Engine == nil {
		return nil, errors.New("scraper: engine is required")
	}
	if len(opts.Sources) == 0 {
		return nil, errors.New("scraper: at least one source is required")
	}
	if opts.Cleaner == nil {
		opts.Cleaner = cleaner.NewCleaner(0)
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 10 * time.Second
	}

	byName := make(map[string]Source, len(opts.Sources))
	for _, src := range opts.Sources {
		if _, dup := byName[src.Name()]; dup {
			return nil, fmt.Errorf("scraper: duplicate source %q", src.Name())
		}
		byName[src.Name()] = src
	}

	return &Scraper{
		engine:  opts.Engine,
		sources: opts.Sources,
		byName:  byName,
		cleaner: opts.Cleaner,
		timeout: opts.FetchTimeout,
	}, nil
}

// EngineName reports the fetch engine in use.
func (s *Scraper) EngineName() string { return s.engine.Name() }

// Platforms lists the registered source names in result order.
func (s *Scraper) Platforms() []string {
	names := make([]string, len(s.sources))
	for i, src := range s.sources {
		names[i] = src.Name()
	}
	return names
}

// Search queries the selected platform ("all" for every source) and returns
// the combined listings sorted ascending by normalized price. Sources are
// fetched concurrently but results keep source order before sorting, so
// equal prices stay in source order. Any source failure fails the search.
func (s *Scraper) Search(ctx context.Context, query, platform string, dedupe bool) ([]models.Listing, error) {
	sources, err := s.selectSources(platform)
	if err != nil {
		return nil, err
	}

	perSource := make([][]models.Listing, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			listings, err := s.searchSource(gctx, src, query)
			if err != nil {
				return err
			}
			perSource[i] = listings
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := []models.Listing{}
	for _, listings := range perSource {
		results = append(results, listings...)
	}
	if dedupe {
		results = Dedupe(results)
	}
	SortByPrice(results)

	slog.Info("search completed",
		"query", query, "platform", platform, "count", len(results),
	)
	return results, nil
}

func (s *Scraper) selectSources(platform string) ([]Source, error) {
	if platform == models.PlatformAll {
		return s.sources, nil
	}
	src, ok := s.byName[platform]
	if !ok {
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput,
			fmt.Sprintf("unknown platform %q", platform), nil)
	}
	return []Source{src}, nil
}

func (s *Scraper) searchSource(ctx context.Context, src Source, query string) ([]models.Listing, error) {
	res, err := s.fetch(ctx, src.SearchURL(query))
	if err != nil {
		return nil, err
	}
	listings, err := src.Extract(res.HTML)
	if err != nil {
		return nil, err
	}
	metrics.RecordListings(src.Name(), len(listings))
	slog.Debug("source extracted", "platform", src.Name(), "listings", len(listings))
	return listings, nil
}

// ProductDetail fetches rawURL and extracts one product record. format is
// models.FormatText or models.FormatMarkdown.
func (s *Scraper) ProductDetail(ctx context.Context, rawURL, format string) (*models.ProductDetail, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput, "product URL must be an absolute http(s) URL", err)
	}

	res, err := s.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	detail, err := s.cleaner.Product(res.HTML, rawURL, format)
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// fetch runs one upstream request through the engine and records its
// duration and outcome.
func (s *Scraper) fetch(ctx context.Context, target string) (*engine.FetchResult, error) {
	start := time.Now()
	res, err := s.engine.Fetch(ctx, &engine.FetchRequest{URL: target, Timeout: s.timeout})

	outcome := "ok"
	if err != nil {
		outcome = models.ErrCodeFetch
		var se *models.ScrapeError
		if errors.As(err, &se) {
			outcome = se.Code
		}
	}
	metrics.RecordFetch(s.engine.Name(), outcome, time.Since(start))

	if err != nil {
		slog.Warn("upstream fetch failed", "url", target, "engine", s.engine.Name(), "error", err)
		return nil, err
	}
	return res, nil
}
