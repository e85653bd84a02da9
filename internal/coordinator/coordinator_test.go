package coordinator_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/smykla-skalski/liftoff/internal/coordinator"
	"github.com/smykla-skalski/liftoff/internal/remote"
	"github.com/smykla-skalski/liftoff/internal/settings"
	"github.com/smykla-skalski/liftoff/internal/state"
	"github.com/smykla-skalski/liftoff/pkg/config"
)

var _ = Describe("Coordinator", func() {
	var (
		f   *fixture
		ctx context.Context
	)

	BeforeEach(func() {
		f = newFixture()
		ctx = context.Background()
	})

	Describe("New", func() {
		It("requires its collaborators", func() {
			_, err := coordinator.New(f.cfg, coordinator.Deps{})
			Expect(err).To(HaveOccurred())
		})

		It("starts with the configured default language", func() {
			Expect(f.coordinator().Language()).To(Equal(config.DefaultLanguage))
		})

		It("restores the persisted language", func() {
			_, err := f.settings.Update(func(s *settings.Settings) { s.Language = "en-US" })
			Expect(err).NotTo(HaveOccurred())

			Expect(f.coordinator().Language()).To(Equal("en-US"))
		})

		It("ignores a persisted language that is no longer available", func() {
			_, err := f.settings.Update(func(s *settings.Settings) { s.Language = "de-DE" })
			Expect(err).NotTo(HaveOccurred())

			Expect(f.coordinator().Language()).To(Equal(config.DefaultLanguage))
		})
	})

	Describe("RefreshStatus", func() {
		It("creates a missing cache dir and asks for the application", func() {
			f.remoteVersion("1.0.0")

			report := f.coordinator().RefreshStatus(ctx)

			Expect(report.Status).To(Equal(coordinator.StatusDownloadingApp))
			Expect(report.Layout).To(Equal(coordinator.LayoutMissing))
			Expect(f.cacheDir).To(BeADirectory())
		})

		It("asks for an update when the remote version differs and the cache is empty", func() {
			f.remoteVersion("2.0.0")
			f.installedVersion("1.0.0")
			Expect(os.MkdirAll(f.cacheDir, 0o755)).To(Succeed())

			c := f.coordinator()
			report := c.RefreshStatus(ctx)

			Expect(report.Status).To(Equal(coordinator.StatusDownloadingUpdate))
			Expect(report.Verdict).To(Equal(remote.VerdictDiffers))
			Expect(c.Status()).To(Equal(coordinator.StatusDownloadingUpdate))
		})

		It("asks for the application when nothing was installed and the cache is empty", func() {
			f.remoteVersion("2.0.0")
			Expect(os.MkdirAll(f.cacheDir, 0o755)).To(Succeed())

			Expect(f.coordinator().RefreshStatus(ctx).Status).To(Equal(coordinator.StatusDownloadingApp))
		})

		It("is Ready when the installed payload matches the remote version", func() {
			f.remoteVersion("v1.2")
			f.installedVersion("1.2.0")
			payload := f.writePayload()

			report := f.coordinator().RefreshStatus(ctx)

			Expect(report.Status).To(Equal(coordinator.StatusReady))
			Expect(report.PayloadDir).To(Equal(payload))
			Expect(report.Executable).To(Equal(filepath.Join(payload, exeName)))
			Expect(report.Problems).To(BeEmpty())
		})

		It("removes a stray archive next to the installed payload", func() {
			f.remoteVersion("1.0.0")
			f.installedVersion("1.0.0")
			f.writePayload()
			f.markInstalled("1.0.0")
			archive := f.writeArchive(buildZip())

			report := f.coordinator().RefreshStatus(ctx)

			Expect(report.Status).To(Equal(coordinator.StatusReady))
			Expect(archive).NotTo(BeAnExistingFile())
		})

		It("keeps a pending archive when the payload was not recorded as installed", func() {
			f.remoteVersion("1.0.0")
			f.installedVersion("1.0.0")
			f.writePayload()
			archive := f.writeArchive(buildZip())

			report := f.coordinator().RefreshStatus(ctx)

			Expect(report.Layout).To(Equal(coordinator.LayoutArchiveValid))
			Expect(report.Status).To(Equal(coordinator.StatusDownloadingApp))
			Expect(archive).To(BeAnExistingFile())
		})

		DescribeTable("fails and clears the cache for a corrupt archive whatever the verdict",
			func(remoteVersion string, fetchErr error) {
				f.fetcher.EXPECT().FetchVersion(gomock.Any()).Return(remoteVersion, fetchErr)
				f.installedVersion("1.0.0")
				f.writePayload()
				f.markInstalled("1.0.0")
				f.writeArchive([]byte("definitely not a zip"))

				report := f.coordinator().RefreshStatus(ctx)

				Expect(report.Status).To(Equal(coordinator.StatusFailed))
				Expect(report.Layout).To(Equal(coordinator.LayoutArchiveInvalid))

				entries, err := os.ReadDir(f.cacheDir)
				Expect(err).NotTo(HaveOccurred())
				Expect(entries).To(BeEmpty())

				rec, err := f.records.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(rec.Phase).To(Equal(state.PhaseNone))
			},
			Entry("matches", "1.0.0", nil),
			Entry("differs", "2.0.0", nil),
			Entry("unknown", "", errors.New("network down")),
		)

		It("falls back to DownloadingApp when the fetch fails", func() {
			f.fetcher.EXPECT().FetchVersion(gomock.Any()).Return("", errors.New("no route to host"))
			f.installedVersion("1.0.0")
			f.writePayload()

			report := f.coordinator().RefreshStatus(ctx)

			Expect(report.Status).To(Equal(coordinator.StatusDownloadingApp))
			Expect(report.Verdict).To(Equal(remote.VerdictUnknown))
			Expect(report.Problems).To(HaveLen(1))
		})

		It("is Ready offline when allowed and a version is installed", func() {
			f.cfg.Launch.AllowOffline = ptr(true)
			f.fetcher.EXPECT().FetchVersion(gomock.Any()).Return("", errors.New("offline"))
			f.installedVersion("1.0.0")
			f.writePayload()

			Expect(f.coordinator().RefreshStatus(ctx).Status).To(Equal(coordinator.StatusReady))
		})

		It("returns within the timeout when the fetch hangs", func() {
			release := make(chan struct{})
			DeferCleanup(func() { close(release) })

			f.fetcher.EXPECT().FetchVersion(gomock.Any()).DoAndReturn(func(context.Context) (string, error) {
				<-release

				return "9.9.9", nil
			})
			f.installedVersion("1.0.0")
			f.writePayload()

			c := f.coordinator()

			start := time.Now()
			report := c.RefreshStatus(ctx)

			Expect(time.Since(start)).To(BeNumerically("<", time.Second))
			Expect(report.Status).To(Equal(coordinator.StatusDownloadingApp))

			var timedOut bool
			for _, p := range report.Problems {
				timedOut = timedOut || errors.Is(p, coordinator.ErrFetchTimeout)
			}

			Expect(timedOut).To(BeTrue())
		})

		It("cancels the request context at the timeout", func() {
			f.fetcher.EXPECT().FetchVersion(gomock.Any()).DoAndReturn(func(ctx context.Context) (string, error) {
				<-ctx.Done()

				return "", ctx.Err()
			})

			report := f.coordinator().RefreshStatus(ctx)

			Expect(report.Status).To(Equal(coordinator.StatusDownloadingApp))
			Expect(report.Problems).NotTo(BeEmpty())
		})

		It("shares one in-flight fetch between concurrent refreshes", func() {
			f.cfg.Remote.Timeout = config.Duration(5 * time.Second)

			var calls atomic.Int32

			release := make(chan struct{})

			f.fetcher.EXPECT().FetchVersion(gomock.Any()).DoAndReturn(func(context.Context) (string, error) {
				calls.Add(1)
				<-release

				return "1.0.0", nil
			}).MinTimes(1)

			c := f.coordinator()

			var wg sync.WaitGroup

			reports := make([]*coordinator.Report, 3)

			for i := range reports {
				wg.Go(func() { reports[i] = c.RefreshStatus(ctx) })
			}

			Eventually(calls.Load).Should(BeEquivalentTo(1))
			time.Sleep(50 * time.Millisecond)
			close(release)
			wg.Wait()

			Expect(calls.Load()).To(BeEquivalentTo(1))

			for _, r := range reports {
				Expect(r.RemoteVersion).To(Equal("1.0.0"))
			}
		})
	})

	Describe("Clean", func() {
		It("removes the cache contents, the record and the installed version", func() {
			f.remoteVersion("1.0.0")
			f.installedVersion("1.0.0")
			f.writePayload()
			f.markInstalled("1.0.0")

			c := f.coordinator()
			Expect(c.RefreshStatus(ctx).Status).To(Equal(coordinator.StatusReady))

			Expect(c.Clean(ctx)).To(Succeed())
			Expect(c.Status()).To(Equal(coordinator.StatusDownloadingApp))

			entries, err := os.ReadDir(f.cacheDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(BeEmpty())

			st, err := f.settings.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(st.InstalledVersion).To(BeEmpty())
			Expect(f.records.Path()).NotTo(BeAnExistingFile())
		})
	})

	Describe("SetLanguage", func() {
		It("matches, persists and refreshes", func() {
			f.fetcher.EXPECT().FetchVersion(gomock.Any()).Return("1.0.0", nil).Times(1)

			c := f.coordinator()

			report, err := c.SetLanguage(ctx, "en")
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Language).To(Equal("en-US"))
			Expect(c.Language()).To(Equal("en-US"))

			st, err := f.settings.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(st.Language).To(Equal("en-US"))
		})

		DescribeTable("rejects languages outside the available list",
			func(tag string) {
				_, err := f.coordinator().SetLanguage(ctx, tag)
				Expect(errors.Is(err, coordinator.ErrUnsupportedLanguage)).To(BeTrue())
				Expect(errors.FlattenHints(err)).To(ContainSubstring("ru-RU, en-US"))
			},
			Entry("other language", "de-DE"),
			Entry("malformed tag", "not a tag!"),
		)
	})
})
