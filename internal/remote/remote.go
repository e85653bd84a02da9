// Package remote fetches the published version of the payload and compares
// it with the installed one.
package remote

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/liftoff/internal/download"
	"github.com/smykla-skalski/liftoff/pkg/config"
)

// ErrEmptyVersion is returned when the remote source yields no version.
var ErrEmptyVersion = errors.New("remote version is empty")

//go:generate mockgen -source=remote.go -destination=remote_mock.go -package=remote

// Fetcher fetches the currently published payload version.
type Fetcher interface {
	FetchVersion(ctx context.Context) (string, error)
}

// HTTPFetcher reads a version marker from a URL.
type HTTPFetcher struct {
	downloader *download.Downloader
	url        string
	format     config.VersionFormat
}

// NewHTTPFetcher creates an HTTPFetcher. format is one of auto, text or json.
func NewHTTPFetcher(d *download.Downloader, url string, format config.VersionFormat) *HTTPFetcher {
	return &HTTPFetcher{downloader: d, url: url, format: format}
}

// FetchVersion downloads and parses the version marker.
func (f *HTTPFetcher) FetchVersion(ctx context.Context) (string, error) {
	body, err := f.downloader.DownloadToString(ctx, f.url)
	if err != nil {
		return "", errors.Wrap(err, "fetching remote version")
	}

	return ParseVersion(body, f.format)
}

type versionDocument struct {
	Version string `json:"version"`
	Status  string `json:"status"`
}

// ParseVersion extracts the version from a marker body.
//
// text uses the first non-blank line. json reads "version", falling back to
// "status". auto picks json when the body starts with '{'.
func ParseVersion(body string, format config.VersionFormat) (string, error) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(body, "\ufeff"))

	if format == config.VersionFormatAuto || format == "" {
		format = config.VersionFormatText
		if strings.HasPrefix(trimmed, "{") {
			format = config.VersionFormatJSON
		}
	}

	var version string

	switch format {
	case config.VersionFormatJSON:
		var doc versionDocument
		if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
			return "", errors.Wrap(err, "parsing version document")
		}

		version = doc.Version
		if version == "" {
			version = doc.Status
		}
	case config.VersionFormatText:
		for line := range strings.Lines(trimmed) {
			if line = strings.TrimSpace(line); line != "" {
				version = line

				break
			}
		}
	default:
		return "", errors.Newf("unsupported version format %q", format)
	}

	version = strings.TrimSpace(version)
	if version == "" {
		return "", ErrEmptyVersion
	}

	return version, nil
}
