package shell

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/portablesource/portablesource/pkg/util/console"
)

// CheckReachable issues a HEAD request against url and fails if no response arrives within timeout.
// Any HTTP status counts as reachable.
func CheckReachable(ctx context.Context, client *http.Client, url string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return err
	}
	console.Debugf("Checking %s is reachable", url)
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s is not reachable: %w", url, err)
	}
	resp.Body.Close()
	console.Debugf("Got %d from %s", resp.StatusCode, url)
	return nil
}
