package intel

import (
	"regexp"
	"strings"
)

// Device types.
const (
	DeviceUnknown = "unknown"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
)

const uaUnknown = "unknown"

type uaPattern struct {
	name    string
	pattern *regexp.Regexp
}

// first match wins, so Edge and Opera are reported as chrome: their
// user agents carry Chrome/ token as well.
var browserPatterns = []uaPattern{
	{"chrome", regexp.MustCompile(`Chrome/(\d+)`)},
	{"firefox", regexp.MustCompile(`Firefox/(\d+)`)},
	{"safari", regexp.MustCompile(`Version/(\d+).*Safari`)},
	{"edge", regexp.MustCompile(`Edg/(\d+)`)},
	{"opera", regexp.MustCompile(`OPR/(\d+)`)},
	{"ie", regexp.MustCompile(`MSIE (\d+)|Trident.*rv:(\d+)`)},
}

var osPatterns = []uaPattern{
	{"windows", regexp.MustCompile(`Windows NT ([\d.]+)`)},
	{"macos", regexp.MustCompile(`Mac OS X ([\d_]+)`)},
	{"ios", regexp.MustCompile(`iPhone OS ([\d_]+)|iPad.*OS ([\d_]+)`)},
	{"android", regexp.MustCompile(`Android ([\d.]+)`)},
	{"linux", regexp.MustCompile(`Linux`)},
	{"chromeos", regexp.MustCompile(`CrOS`)},
}

var (
	mobileDeviceRegexp = regexp.MustCompile(`Mobile|iPhone|iPod|Android.*Mobile`)
	// Android without Mobile token. Mobile is checked first.
	tabletDeviceRegexp  = regexp.MustCompile(`iPad|Android|Tablet`)
	desktopDeviceRegexp = regexp.MustCompile(`Windows|Macintosh|Linux`)
)

var botIndicators = []string{"bot", "crawler", "spider", "scraper", "curl", "wget", "python-requests"}

// DeviceInfo is a result of user agent parsing.
type DeviceInfo struct {
	DeviceType     string `json:"device_type"`
	BrowserName    string `json:"browser_name"`
	BrowserVersion string `json:"browser_version"`
	OSName         string `json:"os_name"`
	OSVersion      string `json:"os_version"`
	IsMobile       bool   `json:"is_mobile"`
	IsTablet       bool   `json:"is_tablet"`
	IsDesktop      bool   `json:"is_desktop"`
	IsBot          bool   `json:"is_bot"`
	UserAgent      string `json:"user_agent,omitempty"`
}

// ParseUserAgent detects device type, browser, OS and bots from the
// User-Agent header value. Device type is desktop if nothing matches;
// empty user agent gives unknown for everything.
func ParseUserAgent(userAgent string) DeviceInfo {
	rv := DeviceInfo{
		DeviceType:     DeviceUnknown,
		BrowserName:    uaUnknown,
		BrowserVersion: uaUnknown,
		OSName:         uaUnknown,
		OSVersion:      uaUnknown,
	}

	if userAgent == "" {
		return rv
	}

	rv.UserAgent = userAgent
	rv.IsBot = containsAny(strings.ToLower(userAgent), botIndicators)

	switch {
	case mobileDeviceRegexp.MatchString(userAgent):
		rv.DeviceType = DeviceMobile
		rv.IsMobile = true
	case tabletDeviceRegexp.MatchString(userAgent):
		rv.DeviceType = DeviceTablet
		rv.IsTablet = true
	case desktopDeviceRegexp.MatchString(userAgent):
		rv.DeviceType = DeviceDesktop
		rv.IsDesktop = true
	default:
		rv.DeviceType = DeviceDesktop
	}

	rv.BrowserName, rv.BrowserVersion = matchUserAgent(userAgent, browserPatterns)
	rv.OSName, rv.OSVersion = matchUserAgent(userAgent, osPatterns)

	if rv.OSName == "macos" || rv.OSName == "ios" {
		rv.OSVersion = strings.ReplaceAll(rv.OSVersion, "_", ".")
	}

	return rv
}

func matchUserAgent(userAgent string, patterns []uaPattern) (string, string) {
	for _, v := range patterns {
		groups := v.pattern.FindStringSubmatch(userAgent)
		if groups == nil {
			continue
		}

		for _, version := range groups[1:] {
			if version != "" {
				return v.name, version
			}
		}

		return v.name, uaUnknown
	}

	return uaUnknown, uaUnknown
}
