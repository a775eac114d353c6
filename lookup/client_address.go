package lookup

import (
	"net"
	"net/http"
	"strings"
)

// headers are checked in this order. Proxies append to forwarded
// lists, so only the first entry is taken.
var clientAddressHeaders = []string{
	"CF-Connecting-IP",
	"X-Forwarded-For",
	"X-Real-IP",
	"X-Original-Forwarded-For",
}

func clientAddress(req *http.Request) string {
	for _, name := range clientAddressHeaders {
		value := req.Header.Get(name)

		if idx := strings.IndexByte(value, ','); idx >= 0 {
			value = value[:idx]
		}

		if value = strings.TrimSpace(value); value != "" {
			return value
		}
	}

	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}

	return host
}

func requestAddress(req *http.Request) string {
	if value := strings.TrimSpace(req.URL.Query().Get("ip")); value != "" {
		return value
	}

	return clientAddress(req)
}
