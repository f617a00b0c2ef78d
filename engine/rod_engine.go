package engine

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/use-agent/pricecheck/config"
	"github.com/use-agent/pricecheck/models"
)

// RodEngine renders pages in a headless Chromium. It is slower than
// HTTPEngine but survives upstream pages that only ship a JS shell.
// It is safe for concurrent use.
type RodEngine struct {
	browser     *rod.Browser
	pagePool    rod.Pool[rod.Page]
	maxPages    int
	rotateUA    bool
	block       blockPolicy
	activePages atomic.Int32
}

// NewRodEngine launches a headless browser and initialises the page pool.
func NewRodEngine(browserCfg config.BrowserConfig, fetchCfg config.FetchConfig) (*RodEngine, error) {
	l := launcher.New().
		Headless(browserCfg.Headless).
		NoSandbox(browserCfg.NoSandbox)

	if browserCfg.BrowserBin != "" {
		l = l.Bin(browserCfg.BrowserBin)
	}
	if fetchCfg.Proxy != "" {
		l = l.Proxy(fetchCfg.Proxy)
	}

	// ── Stealth flags ────────────────────────────────────────────────
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-features"), "AudioServiceOutOfProcess,TranslateUI")
	l.Set(flags.Flag("disable-popup-blocking"))
	l.Set(flags.Flag("disable-renderer-backgrounding"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeBrowserCrash, "failed to launch browser", err)
	}
	slog.Info("browser launched", "controlURL", controlURL)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, models.NewScrapeError(models.ErrCodeBrowserCrash, "failed to connect to browser", err)
	}

	maxPages := browserCfg.MaxPages
	if maxPages < 1 {
		maxPages = 1
	}
	slog.Info("page pool created", "maxPages", maxPages)

	return &RodEngine{
		browser:  browser,
		pagePool: rod.NewPagePool(maxPages),
		maxPages: maxPages,
		rotateUA: fetchCfg.RotateUserAgent,
		block:    newBlockPolicy(browserCfg.BlockedResources, browserCfg.BlockAds),
	}, nil
}

func (e *RodEngine) Name() string { return "rod" }

// Fetch navigates a pooled tab to req.URL and returns the rendered HTML.
//
// Stealth JS and extra headers are installed before navigation; they only
// apply to navigations that start after them. The deferred about:blank uses
// the page without the request context so it still runs after a timeout.
func (e *RodEngine) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	start := time.Now()
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	e.activePages.Add(1)
	defer e.activePages.Add(-1)

	page, err := e.pagePool.Get(func() (*rod.Page, error) {
		return e.browser.Page(proto.TargetCreateTarget{})
	})
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeBrowserCrash, "failed to acquire page from pool", err)
	}
	defer func() {
		if navErr := page.Navigate("about:blank"); navErr != nil {
			slog.Warn("cleanup: failed to navigate to about:blank", "error", navErr)
		}
		e.pagePool.Put(page)
	}()

	if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
		slog.Warn("stealth injection failed, proceeding without stealth", "error", evalErr)
	}

	if router := e.block.install(page); router != nil {
		defer func() { _ = router.Stop() }()
	}

	_ = proto.NetworkSetUserAgentOverride{UserAgent: UserAgent(e.rotateUA)}.Call(page)
	if len(req.Headers) > 0 {
		_ = proto.NetworkSetExtraHTTPHeaders{Headers: toHeadersMap(req.Headers)}.Call(page)
	}

	p := page.Context(ctx)
	if err := p.Navigate(req.URL); err != nil {
		return nil, classify(err, "navigation failed")
	}
	if err := p.WaitDOMStable(300*time.Millisecond, 0.1); err != nil {
		slog.Debug("WaitDOMStable did not converge, proceeding with current DOM", "error", err)
	}

	rawHTML, err := p.HTML()
	if err != nil {
		return nil, classify(err, "failed to read page HTML")
	}

	statusCode := evalInt(p, `() => {
		try {
			const entries = performance.getEntriesByType("navigation");
			if (entries.length > 0) return entries[0].responseStatus || 0;
		} catch(e) {}
		return 0;
	}`)
	if statusCode >= 400 {
		return nil, models.NewScrapeError(models.ErrCodeUpstreamStatus, "upstream returned an error page", nil)
	}

	finalURL := evalString(p, `() => window.location.href`)
	if finalURL == "" {
		finalURL = req.URL
	}

	return &FetchResult{
		HTML:       rawHTML,
		Title:      evalString(p, `() => document.title`),
		StatusCode: statusCode,
		FinalURL:   finalURL,
		EngineName: e.Name(),
		Duration:   time.Since(start),
	}, nil
}

// ActivePages reports how many tabs are currently rendering.
func (e *RodEngine) ActivePages() int {
	return int(e.activePages.Load())
}

// Close drains the page pool and kills the browser process.
func (e *RodEngine) Close() {
	slog.Info("rod engine shutting down: draining page pool")
	e.pagePool.Cleanup(func(p *rod.Page) {
		_ = p.Close()
	})
	if err := e.browser.Close(); err != nil {
		slog.Warn("rod engine: browser close failed", "error", err)
	}
}

func evalString(page *rod.Page, js string) string {
	res, err := page.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

func evalInt(page *rod.Page, js string) int {
	res, err := page.Eval(js)
	if err != nil {
		return 0
	}
	return res.Value.Int()
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}
