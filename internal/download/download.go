// Package download fetches remote resources over HTTP.
package download

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

const (
	// MaxStringSize caps DownloadToString bodies.
	MaxStringSize = 1 << 20

	partSuffix = ".part"
	dirMode    = 0o755
)

// ErrTooLarge is returned when a string body exceeds MaxStringSize.
var ErrTooLarge = errors.New("response body too large")

// ProgressFunc is called during download with bytes received and total bytes.
// Total is -1 when the server doesn't send Content-Length.
type ProgressFunc func(received, total int64)

// Downloader performs HTTP GET downloads.
type Downloader struct {
	client    *http.Client
	userAgent string
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithClient sets the HTTP client.
func WithClient(client *http.Client) Option {
	return func(d *Downloader) {
		if client != nil {
			d.client = client
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(d *Downloader) {
		d.userAgent = ua
	}
}

// NewDownloader creates a new Downloader.
func NewDownloader(opts ...Option) *Downloader {
	d := &Downloader{client: http.DefaultClient}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// DownloadToFile downloads url to destPath. The body is written to
// "<destPath>.part" first and renamed once complete, so destPath never holds a
// partial download.
func (d *Downloader) DownloadToFile(
	ctx context.Context,
	url, destPath string,
	progress ProgressFunc,
) error {
	resp, err := d.get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close on response body

	if err := os.MkdirAll(filepath.Dir(destPath), dirMode); err != nil {
		return errors.Wrap(err, "creating destination directory")
	}

	part := destPath + partSuffix

	//nolint:gosec // G304: destination lives inside the configured cache dir
	out, err := os.Create(part)
	if err != nil {
		return errors.Wrap(err, "creating destination file")
	}

	var reader io.Reader = resp.Body

	if progress != nil {
		reader = &progressReader{
			reader:   resp.Body,
			total:    resp.ContentLength,
			callback: progress,
		}
	}

	if _, copyErr := io.Copy(out, reader); copyErr != nil {
		_ = out.Close()
		_ = os.Remove(part)

		return errors.Wrap(copyErr, "writing download to file")
	}

	if err := out.Close(); err != nil {
		_ = os.Remove(part)

		return errors.Wrap(err, "closing destination file")
	}

	if err := os.Rename(part, destPath); err != nil {
		_ = os.Remove(part)

		return errors.Wrap(err, "moving download into place")
	}

	return nil
}

// DownloadToString downloads url and returns the body as a string.
// Bodies larger than MaxStringSize fail with ErrTooLarge.
func (d *Downloader) DownloadToString(ctx context.Context, url string) (string, error) {
	resp, err := d.get(ctx, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close on response body

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxStringSize+1))
	if err != nil {
		return "", errors.Wrap(err, "reading response body")
	}

	if len(data) > MaxStringSize {
		return "", errors.Wrapf(ErrTooLarge, "%s exceeds %d bytes", url, MaxStringSize)
	}

	return string(data), nil
}

//nolint:gosec // G107: URL comes from configuration
func (d *Downloader) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}

	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "requesting %s", url)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()

		return nil, errors.Newf("download failed: HTTP %d", resp.StatusCode)
	}

	return resp, nil
}

// progressReader wraps an io.Reader and reports progress.
type progressReader struct {
	reader   io.Reader
	total    int64
	received int64
	callback ProgressFunc
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.received += int64(n)

	if n > 0 {
		r.callback(r.received, r.total)
	}

	return n, err
}
