package remote

import (
	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/liftoff/internal/download"
	"github.com/smykla-skalski/liftoff/internal/github"
	"github.com/smykla-skalski/liftoff/pkg/config"
)

// NewFetcher selects a Fetcher for cfg.Format. newClient is only called
// for the github format.
//
//nolint:ireturn // the concrete source depends on configuration
func NewFetcher(
	cfg *config.RemoteConfig,
	d *download.Downloader,
	newClient func() (github.Client, error),
) (Fetcher, error) {
	switch format := cfg.GetFormat(); format {
	case config.VersionFormatGitHub:
		client, err := newClient()
		if err != nil {
			return nil, errors.Wrap(err, "creating GitHub client")
		}

		return NewGitHubFetcher(client, cfg.GetGitHubRepo())
	case config.VersionFormatAuto, config.VersionFormatText, config.VersionFormatJSON:
		return NewHTTPFetcher(d, cfg.GetVersionURL(), format), nil
	default:
		return nil, errors.Newf("unsupported version format %q", format)
	}
}
