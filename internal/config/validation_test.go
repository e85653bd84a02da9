package config_test

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/liftoff/internal/config"
	pkgConfig "github.com/smykla-skalski/liftoff/pkg/config"
)

var _ = Describe("Validator", func() {
	var (
		validator *config.Validator
		cfg       *pkgConfig.Config
	)

	BeforeEach(func() {
		validator = config.NewValidator()
		cfg = config.DefaultConfig()
	})

	It("accepts the defaults", func() {
		Expect(validator.Validate(cfg)).To(Succeed())
	})

	It("rejects a nil config", func() {
		Expect(errors.Is(validator.Validate(nil), config.ErrInvalidConfig)).To(BeTrue())
	})

	DescribeTable("rejects invalid values",
		func(mutate func(*pkgConfig.Config), want string) {
			mutate(cfg)

			err := validator.Validate(cfg)
			Expect(errors.Is(err, config.ErrInvalidConfig)).To(BeTrue())
			Expect(fmt.Sprintf("%+v", err)).To(ContainSubstring(want))
		},
		Entry("unknown format",
			func(c *pkgConfig.Config) { c.Remote.Format = "xml" },
			`format "xml"`),
		Entry("timeout above the bound",
			func(c *pkgConfig.Config) { c.Remote.Timeout = pkgConfig.Duration(time.Minute) },
			"timeout 1m0s"),
		Entry("non-http archive url",
			func(c *pkgConfig.Config) { c.Remote.ArchiveURL = "ftp://example.com/b.zip" },
			"archive_url"),
		Entry("github repo without owner",
			func(c *pkgConfig.Config) {
				c.Remote.Format = pkgConfig.VersionFormatGitHub
				c.Remote.GitHubRepo = "Build"
			},
			"owner/repo"),
		Entry("archive name outside the pattern",
			func(c *pkgConfig.Config) { c.Cache.ArchiveName = "Build.tar" },
			"does not match archive_pattern"),
		Entry("unterminated quote in command",
			func(c *pkgConfig.Config) { c.Launch.Command = `"$EXECUTABLE` },
			"command"),
		Entry("prerequisite without file",
			func(c *pkgConfig.Config) { c.Prerequisite.URL = "https://example.com/setup.exe" },
			"url and file must be set together"),
		Entry("default language not available",
			func(c *pkgConfig.Config) { c.Language.Default = "de-DE" },
			`default "de-DE"`),
		Entry("negative log rotation",
			func(c *pkgConfig.Config) { c.Log.MaxBackups = -1 },
			"non-negative"),
	)

	It("accepts the github format without a version url", func() {
		cfg.Remote.Format = pkgConfig.VersionFormatGitHub
		cfg.Remote.VersionURL = "not a url"

		Expect(validator.Validate(cfg)).To(Succeed())
	})
})
