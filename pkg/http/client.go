package http

import (
	"net/http"
	"time"
)

const UserAgentHeader = "User-Agent"

// ProvideHTTPClient returns the client used for downloads and network checks.
// timeout bounds a whole request; zero means no limit, which large model downloads need.
func ProvideHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &Transport{
			headers: map[string]string{
				UserAgentHeader: UserAgent(),
			},
		},
	}
}
