package util

import (
	"net/http"
	"net/url"
	"strings"
)

// NewProxyFunc builds the proxy selection function for outbound URL
// checks. With no explicit proxy configured it falls back to the
// standard environment variables. Hosts matching noProxy (a
// comma-separated list of hosts or domain suffixes, "*" for all)
// connect directly.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	bypass := parseNoProxy(noProxy)

	return func(req *http.Request) (*url.URL, error) {
		if bypassesProxy(bypass, req.URL.Hostname()) {
			return nil, nil
		}
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

func parseNoProxy(noProxy string) []string {
	var entries []string
	for _, entry := range strings.Split(noProxy, ",") {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry != "" {
			entries = append(entries, entry)
		}
	}
	return entries
}

// bypassesProxy reports whether host matches any no-proxy entry,
// either exactly or as a domain suffix (".corp.local" and
// "corp.local" both cover "db.corp.local").
func bypassesProxy(entries []string, host string) bool {
	host = strings.ToLower(host)
	for _, entry := range entries {
		if entry == "*" || host == entry {
			return true
		}
		suffix := strings.TrimPrefix(entry, ".")
		if strings.HasSuffix(host, "."+suffix) {
			return true
		}
	}
	return false
}
