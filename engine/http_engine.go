package engine

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	tls "github.com/refraction-networking/utls"
	"golang.org/x/net/html"

	"github.com/use-agent/pricecheck/models"
)

// maxBody caps how much of an upstream response is read.
const maxBody = 10 << 20

// HTTPEngine is the default fetch engine. It uses net/http with a
// Chrome-like TLS fingerprint so public search engines treat it as a browser.
type HTTPEngine struct {
	client   *http.Client
	rotateUA bool
}

// HTTPOptions configures an HTTPEngine.
type HTTPOptions struct {
	// Proxy is an optional http(s) proxy URL.
	Proxy string

	// RotateUserAgent picks a random desktop user agent per request.
	RotateUserAgent bool
}

// chromeH1Spec is a Chrome-like TLS ClientHello with ALPN forced to http/1.1
// only. Computed once at init time and reused for every connection.
var chromeH1Spec tls.ClientHelloSpec

func init() {
	spec, err := tls.UTLSIdToSpec(tls.HelloChrome_Auto)
	if err != nil {
		return
	}
	// Go's http.Transport cannot speak h2 over a utls connection, so the
	// server must never be offered it.
	for i, ext := range spec.Extensions {
		if alpn, ok := ext.(*tls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
			spec.Extensions[i] = alpn
			break
		}
	}
	chromeH1Spec = spec
}

// NewHTTPEngine creates an HTTPEngine with a Chrome-like TLS fingerprint.
func NewHTTPEngine(opts HTTPOptions) *HTTPEngine {
	transport := &http.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			dialer := &net.Dialer{Timeout: 10 * time.Second}
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			host, _, _ := net.SplitHostPort(addr)
			tlsConn := tls.UClient(conn, &tls.Config{ServerName: host}, tls.HelloCustom)
			if err := tlsConn.ApplyPreset(&chromeH1Spec); err != nil {
				conn.Close()
				return nil, fmt.Errorf("http_engine: apply tls spec: %w", err)
			}
			if err := tlsConn.HandshakeContext(ctx); err != nil {
				conn.Close()
				return nil, err
			}
			return tlsConn, nil
		},
		ForceAttemptHTTP2:   false,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
	}
	if opts.Proxy != "" {
		if proxyURL, err := url.Parse(opts.Proxy); err == nil && (proxyURL.Scheme == "http" || proxyURL.Scheme == "https") {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	return &HTTPEngine{
		client: &http.Client{
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		rotateUA: opts.RotateUserAgent,
	}
}

func (e *HTTPEngine) Name() string { return "http" }

func (e *HTTPEngine) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	start := time.Now()
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeFetch, "invalid request URL", err)
	}

	httpReq.Header.Set("User-Agent", UserAgent(e.rotateUA))
	httpReq.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	httpReq.Header.Set("Accept-Language", "en-US,en;q=0.9,zh-CN;q=0.8")
	httpReq.Header.Set("Accept-Encoding", "identity") // no compression for simplicity
	httpReq.Header.Set("Cache-Control", "no-cache")
	httpReq.Header.Set("Upgrade-Insecure-Requests", "1")

	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	for i := range req.Cookies {
		httpReq.AddCookie(&req.Cookies[i])
	}

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, classify(err, "request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, classify(err, "read body failed")
	}

	if resp.StatusCode >= 400 {
		return nil, models.NewScrapeError(models.ErrCodeUpstreamStatus,
			fmt.Sprintf("upstream returned HTTP %d", resp.StatusCode), nil)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !isHTMLContentType(ct) {
		return nil, models.NewScrapeError(models.ErrCodeFetch,
			fmt.Sprintf("unexpected content-type %q", ct), nil)
	}

	bodyStr := string(body)
	return &FetchResult{
		HTML:       bodyStr,
		Title:      extractTitle(bodyStr),
		StatusCode: resp.StatusCode,
		FinalURL:   resp.Request.URL.String(),
		EngineName: e.Name(),
		Duration:   time.Since(start),
	}, nil
}

// CloseIdleConnections releases pooled upstream connections.
func (e *HTTPEngine) CloseIdleConnections() {
	e.client.CloseIdleConnections()
}

// isHTMLContentType returns true if the content-type header looks like HTML.
func isHTMLContentType(ct string) bool {
	ct = strings.ToLower(ct)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml+xml")
}

// extractTitle uses the Go HTML tokenizer to find the first <title> element.
func extractTitle(htmlStr string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(htmlStr))
	inTitle := false
	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			tn, _ := tokenizer.TagName()
			if string(tn) == "title" {
				inTitle = true
			}
		case html.TextToken:
			if inTitle {
				return strings.TrimSpace(string(tokenizer.Text()))
			}
		case html.EndTagToken:
			if inTitle {
				return ""
			}
		}
	}
}
