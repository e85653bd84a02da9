package config_test

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/liftoff/pkg/config"
)

var _ = Describe("Config", func() {
	Describe("getters on nil sections", func() {
		var cfg *config.Config

		It("returns defaults for every section", func() {
			Expect(cfg.GetRemote().GetVersionURL()).To(Equal(config.DefaultVersionURL))
			Expect(cfg.GetRemote().GetArchiveURL()).To(Equal(config.DefaultArchiveURL))
			Expect(cfg.GetRemote().GetFormat()).To(Equal(config.VersionFormatAuto))
			Expect(cfg.GetRemote().GetTimeout()).To(Equal(2 * time.Second))
			Expect(cfg.GetCache().GetDir()).To(Equal(filepath.Join(os.TempDir(), "TrueSkillsApp")))
			Expect(cfg.GetCache().GetArchiveName()).To(Equal("Build.zip"))
			Expect(cfg.GetLaunch().GetExecutable()).To(Equal("*/TrueSkills.exe"))
			Expect(cfg.GetLaunch().IsExitAfterLaunch()).To(BeTrue())
			Expect(cfg.GetLaunch().IsAllowOffline()).To(BeFalse())
			Expect(cfg.GetPrerequisite().IsEnabled()).To(BeFalse())
			Expect(cfg.GetLanguage().GetDefault()).To(Equal("ru-RU"))
			Expect(cfg.GetLanguage().GetAvailable()).To(ConsistOf("ru-RU", "en-US"))
			Expect(cfg.GetSupportURL()).To(Equal(config.DefaultSupportURL))
			Expect(cfg.GetLog().GetMaxSizeMB()).To(Equal(config.DefaultLogMaxSizeMB))
		})
	})

	Describe("LaunchConfig optional files", func() {
		It("uses defaults when empty", func() {
			l := &config.LaunchConfig{}
			Expect(l.GetArgsFile()).To(Equal("Args.txt"))
			Expect(l.GetVersionFile()).To(Equal("Version.txt"))
		})

		It("disables files with a dash", func() {
			l := &config.LaunchConfig{ArgsFile: "-", VersionFile: "-"}
			Expect(l.GetArgsFile()).To(BeEmpty())
			Expect(l.GetVersionFile()).To(BeEmpty())
		})

		It("keeps custom names", func() {
			l := &config.LaunchConfig{ArgsFile: "launch.args"}
			Expect(l.GetArgsFile()).To(Equal("launch.args"))
		})
	})

	Describe("PrerequisiteConfig", func() {
		It("requires both url and file", func() {
			Expect((&config.PrerequisiteConfig{URL: "https://x"}).IsEnabled()).To(BeFalse())
			Expect((&config.PrerequisiteConfig{URL: "https://x", File: "setup.exe"}).IsEnabled()).To(BeTrue())
		})
	})
})

var _ = Describe("Duration", func() {
	It("parses Go durations", func() {
		var d config.Duration
		Expect(d.UnmarshalText([]byte("1500ms"))).To(Succeed())
		Expect(d.ToDuration()).To(Equal(1500 * time.Millisecond))
	})

	It("rejects negative durations", func() {
		var d config.Duration
		err := d.UnmarshalText([]byte("-1s"))
		Expect(errors.Is(err, config.ErrNegativeDuration)).To(BeTrue())
	})

	It("rejects garbage", func() {
		var d config.Duration
		Expect(d.UnmarshalText([]byte("soon"))).NotTo(Succeed())
	})

	It("marshals back to text", func() {
		text, err := config.Duration(2 * time.Second).MarshalText()
		Expect(err).NotTo(HaveOccurred())
		Expect(string(text)).To(Equal("2s"))
	})
})
