// Package updater replaces the running binary with the latest GitHub release.
package updater

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/guiyumin/animelink/internal/core/version"
)

const (
	repoOwner = "guiyumin"
	repoName  = "animelink"
)

// Check reports the latest release and whether it is newer than the running binary
type Check struct {
	Current   string
	Latest    string
	Available bool
	release   *selfupdate.Release
}

func newUpdater() (*selfupdate.Updater, error) {
	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return nil, err
	}
	return selfupdate.NewUpdater(selfupdate.Config{
		Source: source,
	})
}

// CurrentVersion returns the running version without its "v" prefix
func CurrentVersion() string {
	return strings.TrimPrefix(version.Version, "v")
}

// CheckUpdate looks up the latest release
func CheckUpdate(ctx context.Context) (*Check, error) {
	updater, err := newUpdater()
	if err != nil {
		return nil, err
	}

	latest, found, err := updater.DetectLatest(ctx, selfupdate.NewRepositorySlug(repoOwner, repoName))
	if err != nil {
		return nil, fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("no releases found for %s/%s (%s)", repoOwner, repoName, PlatformAssetName())
	}

	current := CurrentVersion()
	return &Check{
		Current:   current,
		Latest:    latest.Version(),
		Available: !latest.LessOrEqual(current),
		release:   latest,
	}, nil
}

// Update installs the release found by CheckUpdate over the running executable.
// It is a no-op when no newer release is available.
func Update(ctx context.Context, c *Check) error {
	if c == nil || !c.Available {
		return nil
	}

	updater, err := newUpdater()
	if err != nil {
		return err
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	if err := updater.UpdateTo(ctx, c.release, exe); err != nil {
		return fmt.Errorf("failed to update: %w", err)
	}
	return nil
}

// PlatformAssetName returns the expected asset name for the current platform
func PlatformAssetName() string {
	return fmt.Sprintf("%s_%s_%s", repoName, runtime.GOOS, runtime.GOARCH)
}
