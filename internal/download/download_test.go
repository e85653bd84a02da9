package download_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/liftoff/internal/download"
)

var _ = Describe("Downloader", func() {
	serve := func(h http.HandlerFunc) *httptest.Server {
		server := httptest.NewServer(h)
		DeferCleanup(server.Close)

		return server
	}

	Describe("DownloadToFile", func() {
		It("writes the body and leaves no part file", func() {
			server := serve(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("zip bytes"))
			})

			dest := filepath.Join(GinkgoT().TempDir(), "cache", "Build.zip")
			d := download.NewDownloader(download.WithClient(server.Client()))

			Expect(d.DownloadToFile(context.Background(), server.URL, dest, nil)).To(Succeed())

			data, err := os.ReadFile(dest)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("zip bytes"))
			Expect(dest + ".part").NotTo(BeAnExistingFile())
		})

		It("reports progress against Content-Length", func() {
			body := strings.Repeat("x", 4096)
			server := serve(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Length", "4096")
				_, _ = w.Write([]byte(body))
			})

			var last, total atomic.Int64

			d := download.NewDownloader(download.WithClient(server.Client()))
			err := d.DownloadToFile(
				context.Background(),
				server.URL,
				filepath.Join(GinkgoT().TempDir(), "out"),
				func(received, t int64) {
					last.Store(received)
					total.Store(t)
				},
			)

			Expect(err).NotTo(HaveOccurred())
			Expect(last.Load()).To(Equal(int64(4096)))
			Expect(total.Load()).To(Equal(int64(4096)))
		})

		It("fails on non-200 responses without creating the file", func() {
			server := serve(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			})

			dest := filepath.Join(GinkgoT().TempDir(), "out")
			d := download.NewDownloader(download.WithClient(server.Client()))

			err := d.DownloadToFile(context.Background(), server.URL, dest, nil)
			Expect(err).To(MatchError(ContainSubstring("HTTP 404")))
			Expect(dest).NotTo(BeAnExistingFile())
		})

		It("honours context cancellation", func() {
			server := serve(func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(5 * time.Second):
				}
			})

			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			d := download.NewDownloader(download.WithClient(server.Client()))
			err := d.DownloadToFile(ctx, server.URL, filepath.Join(GinkgoT().TempDir(), "out"), nil)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("DownloadToString", func() {
		It("returns the body and sends the user agent", func() {
			var ua atomic.Value

			server := serve(func(w http.ResponseWriter, r *http.Request) {
				ua.Store(r.UserAgent())
				_, _ = w.Write([]byte("1.4.0\n"))
			})

			d := download.NewDownloader(
				download.WithClient(server.Client()),
				download.WithUserAgent("liftoff/test"),
			)

			body, err := d.DownloadToString(context.Background(), server.URL)
			Expect(err).NotTo(HaveOccurred())
			Expect(body).To(Equal("1.4.0\n"))
			Expect(ua.Load()).To(Equal("liftoff/test"))
		})

		It("rejects oversized bodies", func() {
			server := serve(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(strings.Repeat("a", download.MaxStringSize+1)))
			})

			d := download.NewDownloader(download.WithClient(server.Client()))

			_, err := d.DownloadToString(context.Background(), server.URL)
			Expect(err).To(MatchError(download.ErrTooLarge))
		})
	})
})
