package coordinator_test

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/liftoff/internal/cache"
	"github.com/smykla-skalski/liftoff/internal/coordinator"
	"github.com/smykla-skalski/liftoff/internal/remote"
	"github.com/smykla-skalski/liftoff/internal/state"
)

var _ = Describe("Decide", func() {
	installed := coordinator.DecideInput{EverInstalled: true}
	fresh := coordinator.DecideInput{}
	offline := coordinator.DecideInput{EverInstalled: true, AllowOffline: true}

	DescribeTable("status per layout and verdict",
		func(layout coordinator.Layout, verdict remote.Verdict, in coordinator.DecideInput, want coordinator.Status) {
			Expect(coordinator.Decide(layout, verdict, in)).To(Equal(want))
		},
		Entry("missing, matches", coordinator.LayoutMissing, remote.VerdictMatches, installed, coordinator.StatusDownloadingApp),
		Entry("missing, differs", coordinator.LayoutMissing, remote.VerdictDiffers, installed, coordinator.StatusDownloadingApp),
		Entry("missing, unknown", coordinator.LayoutMissing, remote.VerdictUnknown, installed, coordinator.StatusDownloadingApp),

		Entry("empty, matches", coordinator.LayoutEmpty, remote.VerdictMatches, installed, coordinator.StatusDownloadingApp),
		Entry("empty, differs", coordinator.LayoutEmpty, remote.VerdictDiffers, installed, coordinator.StatusDownloadingUpdate),
		Entry("empty, differs, never installed", coordinator.LayoutEmpty, remote.VerdictDiffers, fresh, coordinator.StatusDownloadingApp),
		Entry("empty, unknown", coordinator.LayoutEmpty, remote.VerdictUnknown, installed, coordinator.StatusDownloadingApp),

		Entry("archive valid, matches", coordinator.LayoutArchiveValid, remote.VerdictMatches, installed, coordinator.StatusDownloadingApp),
		Entry("archive valid, differs", coordinator.LayoutArchiveValid, remote.VerdictDiffers, installed, coordinator.StatusDownloadingUpdate),
		Entry("archive valid, differs, never installed", coordinator.LayoutArchiveValid, remote.VerdictDiffers, fresh, coordinator.StatusDownloadingApp),
		Entry("archive valid, unknown", coordinator.LayoutArchiveValid, remote.VerdictUnknown, installed, coordinator.StatusDownloadingApp),

		Entry("archive invalid, matches", coordinator.LayoutArchiveInvalid, remote.VerdictMatches, installed, coordinator.StatusFailed),
		Entry("archive invalid, differs", coordinator.LayoutArchiveInvalid, remote.VerdictDiffers, installed, coordinator.StatusFailed),
		Entry("archive invalid, unknown", coordinator.LayoutArchiveInvalid, remote.VerdictUnknown, offline, coordinator.StatusFailed),

		Entry("payload, matches", coordinator.LayoutPayload, remote.VerdictMatches, installed, coordinator.StatusReady),
		Entry("payload, differs", coordinator.LayoutPayload, remote.VerdictDiffers, installed, coordinator.StatusDownloadingUpdate),
		Entry("payload, unknown", coordinator.LayoutPayload, remote.VerdictUnknown, installed, coordinator.StatusDownloadingApp),
		Entry("payload, unknown, offline allowed", coordinator.LayoutPayload, remote.VerdictUnknown, offline, coordinator.StatusReady),
		Entry("payload, unknown, offline allowed, never installed",
			coordinator.LayoutPayload, remote.VerdictUnknown, coordinator.DecideInput{AllowOffline: true}, coordinator.StatusDownloadingApp),
	)
})

var _ = Describe("Classify", func() {
	const dir = "/tmp/TrueSkillsApp"

	payload := filepath.Join(dir, "Build-master")
	exe := filepath.Join(payload, "TrueSkills.exe")

	installedRecord := &state.Record{Phase: state.PhaseInstalled, Payload: "Build-master"}

	DescribeTable("layouts",
		func(snap *cache.Snapshot, rec *state.Record, want coordinator.Layout, wantStray bool) {
			layout, stray := coordinator.Classify(snap, rec)
			Expect(layout).To(Equal(want))
			Expect(stray).To(Equal(wantStray))
		},
		Entry("missing dir", &cache.Snapshot{Dir: dir}, nil, coordinator.LayoutMissing, false),
		Entry("empty dir", &cache.Snapshot{Dir: dir, Exists: true, Empty: true}, nil, coordinator.LayoutEmpty, false),
		Entry("valid archive only",
			&cache.Snapshot{Dir: dir, Exists: true, Archive: cache.ArchiveValid},
			nil, coordinator.LayoutArchiveValid, false),
		Entry("invalid archive next to a payload",
			&cache.Snapshot{Dir: dir, Exists: true, Archive: cache.ArchiveInvalid, PayloadDir: payload, Executable: exe},
			installedRecord, coordinator.LayoutArchiveInvalid, false),
		Entry("payload only",
			&cache.Snapshot{Dir: dir, Exists: true, PayloadDir: payload, Executable: exe},
			nil, coordinator.LayoutPayload, false),
		Entry("payload without executable",
			&cache.Snapshot{Dir: dir, Exists: true, PayloadDir: payload},
			nil, coordinator.LayoutEmpty, false),
		Entry("valid archive next to an installed payload is stray",
			&cache.Snapshot{Dir: dir, Exists: true, Archive: cache.ArchiveValid, PayloadDir: payload, Executable: exe},
			installedRecord, coordinator.LayoutPayload, true),
		Entry("valid archive next to an unrecorded payload is pending",
			&cache.Snapshot{Dir: dir, Exists: true, Archive: cache.ArchiveValid, PayloadDir: payload, Executable: exe},
			&state.Record{Phase: state.PhaseDownloading, Payload: "Build-master"}, coordinator.LayoutArchiveValid, false),
	)
})

var _ = Describe("Status", func() {
	It("names and labels every status", func() {
		Expect(coordinator.StatusReady.String()).To(Equal("Ready"))
		Expect(coordinator.StatusFailed.String()).To(Equal("Failed"))
		Expect(coordinator.StatusDownloadingApp.String()).To(Equal("DownloadingApp"))
		Expect(coordinator.StatusDownloadingUpdate.String()).To(Equal("DownloadingUpdate"))
		Expect(coordinator.Status(42).String()).To(Equal("Unknown"))

		Expect(coordinator.StatusReady.Text()).To(Equal("Launch"))
		Expect(coordinator.StatusReady.IsReady()).To(BeTrue())
		Expect(coordinator.StatusFailed.IsReady()).To(BeFalse())
	})
})
