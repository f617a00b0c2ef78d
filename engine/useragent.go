package engine

import "math/rand/v2"

// chromeUA is the default desktop user agent, matched to the utls Chrome
// ClientHello so header and TLS fingerprints agree.
const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// desktopUAs is the rotation pool. All entries are Chromium-family so they
// stay consistent with the Chrome TLS fingerprint.
var desktopUAs = []string{
	chromeUA,
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36 Edg/130.0.0.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/129.0.0.0 Safari/537.36",
}

// UserAgent returns the default user agent, or a random one from the
// rotation pool when rotate is true.
func UserAgent(rotate bool) string {
	if !rotate {
		return chromeUA
	}
	return desktopUAs[rand.IntN(len(desktopUAs))]
}
