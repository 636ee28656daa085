package update

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-version"

	"github.com/portablesource/portablesource/pkg/global"
	"github.com/portablesource/portablesource/pkg/util/console"
)

const EnvNoUpdateCheck = "PORTABLESOURCE_NO_UPDATE_CHECK"

var releasesURL = "https://api.github.com/repos/portablesource/portablesource/releases/latest"

func isUpdateEnabled() bool {
	return os.Getenv(EnvNoUpdateCheck) == ""
}

// DisplayAndCheckForRelease will display an update message if an update is available and will check for a new update in the background
// The result of that check will then be displayed the next time the user runs portablesource
// Returns errors which the caller is assumed to ignore so as not to break the client
func DisplayAndCheckForRelease() error {
	if !isUpdateEnabled() {
		return fmt.Errorf("update check disabled")
	}

	p, err := statePath()
	if err != nil {
		return err
	}
	s, err := loadState(p)
	if err != nil {
		return err
	}

	if s.Version != global.Version {
		console.Debugf("Resetting update message because portablesource has been upgraded")
		return writeState(p, &state{Message: "", LastChecked: time.Now(), Version: global.Version})
	}

	if time.Since(s.LastChecked) > time.Hour {
		startCheckingForRelease(p)
	}
	if s.Message != "" {
		console.Info(s.Message)
		console.Info("")
	}
	return nil
}

func startCheckingForRelease(p string) {
	go func() {
		console.Debugf("Checking for updates...")
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		switch msg, err := checkForRelease(ctx, http.DefaultClient, releasesURL, global.Version); {
		case err == nil:
			if err := writeState(p, &state{Message: msg, LastChecked: time.Now(), Version: global.Version}); err != nil {
				console.Debugf("Failed to write state: %s", err)
			}
			console.Debugf("result of update check: %v", msg)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			break
		default:
			console.Debugf("failed querying for new release: %v", err)
		}
	}()
}

type releaseResponse struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// checkForRelease returns an upgrade message when the latest release is newer than current,
// and "" otherwise.
func checkForRelease(ctx context.Context, client *http.Client, url string, current string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Add("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	var release releaseResponse
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", err
	}

	latest, err := version.NewVersion(strings.TrimPrefix(release.TagName, "v"))
	if err != nil {
		return "", fmt.Errorf("invalid release tag %q: %w", release.TagName, err)
	}
	installed, err := version.NewVersion(strings.TrimPrefix(current, "v"))
	if err != nil {
		return "", err
	}
	if !latest.GreaterThan(installed) {
		return "", nil
	}
	return fmt.Sprintf("portablesource %s is available (you have %s): %s", latest, installed, release.HTMLURL), nil
}
