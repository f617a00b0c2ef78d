package engine

import (
	"net/url"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// resourceTypes maps config names to protocol resource types.
var resourceTypes = map[string]proto.NetworkResourceType{
	"Image":      proto.NetworkResourceTypeImage,
	"Stylesheet": proto.NetworkResourceTypeStylesheet,
	"Font":       proto.NetworkResourceTypeFont,
	"Media":      proto.NetworkResourceTypeMedia,
	"Script":     proto.NetworkResourceTypeScript,
}

// trackerHosts are ad and analytics hosts that shopping pages pull in.
// Subdomains match too.
var trackerHosts = map[string]struct{}{
	"doubleclick.net":       {},
	"googlesyndication.com": {},
	"googleadservices.com":  {},
	"google-analytics.com":  {},
	"googletagmanager.com":  {},
	"googletagservices.com": {},
	"facebook.net":          {},
	"amazon-adsystem.com":   {},
	"adnxs.com":             {},
	"adsrvr.org":            {},
	"criteo.com":            {},
	"criteo.net":            {},
	"taboola.com":           {},
	"outbrain.com":          {},
	"pubmatic.com":          {},
	"rubiconproject.com":    {},
	"scorecardresearch.com": {},
	"hotjar.com":            {},
	"clarity.ms":            {},
	"bat.bing.com":          {},
}

// isTrackerHost reports whether host or any parent domain is a tracker.
func isTrackerHost(host string) bool {
	host = strings.ToLower(host)
	for {
		if _, ok := trackerHosts[host]; ok {
			return true
		}
		idx := strings.IndexByte(host, '.')
		if idx < 0 {
			return false
		}
		host = host[idx+1:]
	}
}

// blockPolicy decides which subresource requests a page may make.
type blockPolicy struct {
	types    map[proto.NetworkResourceType]struct{}
	trackers bool
}

func newBlockPolicy(names []string, blockTrackers bool) blockPolicy {
	p := blockPolicy{types: make(map[proto.NetworkResourceType]struct{}, len(names)), trackers: blockTrackers}
	for _, name := range names {
		if rt, ok := resourceTypes[name]; ok {
			p.types[rt] = struct{}{}
		}
	}
	return p
}

func (p blockPolicy) empty() bool {
	return len(p.types) == 0 && !p.trackers
}

// blocks reports whether a request of type rt to rawURL should fail.
func (p blockPolicy) blocks(rt proto.NetworkResourceType, rawURL string) bool {
	if _, ok := p.types[rt]; ok {
		return true
	}
	if p.trackers {
		if u, err := url.Parse(rawURL); err == nil && isTrackerHost(u.Hostname()) {
			return true
		}
	}
	return false
}

// install intercepts every request on page and fails the blocked ones.
// Returns nil when there is nothing to block; otherwise the caller must
// Stop the returned router.
func (p blockPolicy) install(page *rod.Page) *rod.HijackRouter {
	if p.empty() {
		return nil
	}

	router := page.HijackRequests()
	_ = router.Add("*", "", func(h *rod.Hijack) {
		if p.blocks(h.Request.Type(), h.Request.URL().String()) {
			h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		h.ContinueRequest(&proto.FetchContinueRequest{})
	})

	// Run blocks until Stop.
	go router.Run()

	return router
}
