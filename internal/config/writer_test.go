package config_test

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/liftoff/internal/config"
)

var _ = Describe("Writer", func() {
	var path string

	BeforeEach(func() {
		path = filepath.Join(GinkgoT().TempDir(), "liftoff", "config.toml")
	})

	It("writes a config that loads back", func() {
		cfg := config.DefaultConfig()
		cfg.Cache.Dir = "/srv/liftoff"

		Expect(config.NewWriter(false).WriteFile(path, cfg)).To(Succeed())

		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(HavePrefix("#:schema "))

		info, err := os.Stat(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Mode().Perm()).To(Equal(os.FileMode(config.ConfigFileMode)))

		loaded, err := config.NewKoanfLoader(config.WithGlobalConfigPath(path)).Load(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.GetCache().GetDir()).To(Equal("/srv/liftoff"))
		Expect(loaded.GetRemote().GetTimeout()).To(Equal(cfg.GetRemote().GetTimeout()))
	})

	It("refuses to overwrite without force", func() {
		Expect(config.NewWriter(false).WriteFile(path, config.DefaultConfig())).To(Succeed())

		err := config.NewWriter(false).WriteFile(path, config.DefaultConfig())
		Expect(errors.Is(err, config.ErrConfigExists)).To(BeTrue())

		Expect(config.NewWriter(true).WriteFile(path, config.DefaultConfig())).To(Succeed())
	})
})
