package config_test

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/liftoff/internal/config"
	pkgConfig "github.com/smykla-skalski/liftoff/pkg/config"
)

var _ = Describe("KoanfLoader", func() {
	var (
		tmpDir     string
		globalPath string
	)

	writeTOML := func(path, content string, mode os.FileMode) {
		Expect(os.MkdirAll(filepath.Dir(path), 0o700)).To(Succeed())
		Expect(os.WriteFile(path, []byte(content), mode)).To(Succeed())
		Expect(os.Chmod(path, mode)).To(Succeed())
	}

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		globalPath = filepath.Join(tmpDir, "config", "liftoff", "config.toml")
	})

	It("loads defaults when no file exists", func() {
		cfg, err := config.NewKoanfLoader(config.WithGlobalConfigPath(globalPath)).Load(nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(cfg.GetRemote().GetVersionURL()).To(Equal(pkgConfig.DefaultVersionURL))
		Expect(cfg.GetRemote().GetTimeout()).To(Equal(2 * time.Second))
		Expect(cfg.GetRemote().GetDownloadTimeout()).To(Equal(30 * time.Minute))
		Expect(cfg.GetCache().GetDir()).To(Equal(pkgConfig.DefaultCacheDir()))
		Expect(cfg.GetLaunch().IsExitAfterLaunch()).To(BeTrue())
		Expect(cfg.GetLanguage().GetAvailable()).To(Equal([]string{"ru-RU", "en-US"}))
	})

	It("applies global file, explicit file, env and flags in order", func() {
		writeTOML(globalPath, `
[remote]
timeout = "5s"
format = "text"

[cache]
dir = "/from/global"

[language]
default = "en-US"
`, 0o600)

		explicit := filepath.Join(tmpDir, "override.toml")
		writeTOML(explicit, `
[cache]
dir = "/from/explicit"

[launch]
exit_after_launch = false
`, 0o600)

		GinkgoT().Setenv("LIFTOFF_REMOTE__TIMEOUT", "3s")
		GinkgoT().Setenv("LIFTOFF_LANGUAGE__AVAILABLE", "en-US,de-DE")

		loader := config.NewKoanfLoader(
			config.WithGlobalConfigPath(globalPath),
			config.WithConfigFile(explicit),
		)

		cfg, err := loader.Load(map[string]any{"allow-offline": true, "unknown": "x"})
		Expect(err).NotTo(HaveOccurred())

		Expect(cfg.GetRemote().GetFormat()).To(Equal(pkgConfig.VersionFormatText))
		Expect(cfg.GetRemote().GetTimeout()).To(Equal(3 * time.Second))
		Expect(cfg.GetCache().GetDir()).To(Equal("/from/explicit"))
		Expect(cfg.GetLaunch().IsExitAfterLaunch()).To(BeFalse())
		Expect(cfg.GetLaunch().IsAllowOffline()).To(BeTrue())
		Expect(cfg.GetLanguage().GetDefault()).To(Equal("en-US"))
		Expect(cfg.GetLanguage().GetAvailable()).To(Equal([]string{"en-US", "de-DE"}))
	})

	It("lets CLI flags override env vars", func() {
		GinkgoT().Setenv("LIFTOFF_CACHE__DIR", "/from/env")

		cfg, err := config.NewKoanfLoader(config.WithGlobalConfigPath(globalPath)).
			Load(map[string]any{"cache-dir": "/from/flag"})
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.GetCache().GetDir()).To(Equal("/from/flag"))
	})

	It("expands ~ in the cache dir", func() {
		home, err := os.UserHomeDir()
		Expect(err).NotTo(HaveOccurred())

		cfg, err := config.NewKoanfLoader(config.WithGlobalConfigPath(globalPath)).
			Load(map[string]any{"cache-dir": "~/liftoff-cache"})
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.GetCache().GetDir()).To(Equal(filepath.Join(home, "liftoff-cache")))
	})

	It("rejects world-writable config files", func() {
		writeTOML(globalPath, "[remote]\n", 0o666)

		_, err := config.NewKoanfLoader(config.WithGlobalConfigPath(globalPath)).Load(nil)
		Expect(errors.Is(err, config.ErrInvalidPermissions)).To(BeTrue())
	})

	It("fails when the explicit config file is missing", func() {
		loader := config.NewKoanfLoader(
			config.WithGlobalConfigPath(globalPath),
			config.WithConfigFile(filepath.Join(tmpDir, "missing.toml")),
		)

		_, err := loader.Load(nil)
		Expect(errors.Is(err, config.ErrConfigNotFound)).To(BeTrue())
	})

	It("rejects invalid values with a hint", func() {
		GinkgoT().Setenv("LIFTOFF_REMOTE__TIMEOUT", "1m")

		_, err := config.NewKoanfLoader(config.WithGlobalConfigPath(globalPath)).Load(nil)
		Expect(errors.Is(err, config.ErrInvalidConfig)).To(BeTrue())
		Expect(errors.FlattenHints(err)).To(ContainSubstring("liftoff config path"))
	})

	It("rejects unparsable durations", func() {
		GinkgoT().Setenv("LIFTOFF_REMOTE__DOWNLOAD_TIMEOUT", "soon")

		_, err := config.NewKoanfLoader(config.WithGlobalConfigPath(globalPath)).Load(nil)
		Expect(err).To(MatchError(ContainSubstring("failed to unmarshal config")))
	})
})
