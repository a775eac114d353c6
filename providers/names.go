package providers

const (
	// Identifier for ip-api.com.
	NameIPAPICom = "ipapi_com"

	// Identifier for ipapi.co.
	NameIPAPICo = "ipapi_co"

	// Identifier for ipinfo.io.
	NameIPInfo = "ipinfo"

	// Identifier for local MaxMind databases (GeoLite2 or GeoIP2).
	NameMMDB = "mmdb"

	// Identifier for built-in table of well-known addresses.
	NameFallback = "fallback"
)
