package coordinator_test

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/smykla-skalski/liftoff/internal/coordinator"
	"github.com/smykla-skalski/liftoff/internal/exec"
)

var _ = Describe("Launch", func() {
	var (
		f       *fixture
		ctx     context.Context
		payload string
		exe     string
	)

	BeforeEach(func() {
		f = newFixture()
		ctx = context.Background()

		f.remoteVersion("1.0.0")
		f.installedVersion("1.0.0")
		payload = f.writePayload()
		exe = filepath.Join(payload, exeName)
	})

	It("refuses to launch when not Ready", func() {
		f.installedVersion("0.9.0")

		c := f.coordinator()
		c.RefreshStatus(ctx)

		_, err := c.Launch(ctx)
		Expect(errors.Is(err, coordinator.ErrNotReady)).To(BeTrue())
		Expect(errors.FlattenHints(err)).To(ContainSubstring("liftoff install"))
	})

	It("spawns the executable with the language in the payload dir", func() {
		var got exec.Process

		f.spawner.EXPECT().Spawn(gomock.Any()).DoAndReturn(func(p exec.Process) (int, error) {
			got = p

			return 4242, nil
		})

		c := f.coordinator()
		Expect(c.RefreshStatus(ctx).Status).To(Equal(coordinator.StatusReady))

		res, err := c.Launch(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.PID).To(Equal(4242))
		Expect(res.ExitLauncher).To(BeTrue())
		Expect(res.PayloadDir).To(Equal(payload))
		Expect(res.Warnings).To(BeEmpty())

		Expect(got.Argv).To(Equal([]string{exe, "ru-RU"}))
		Expect(got.Dir).To(Equal(payload))
	})

	It("writes the args file with the language and launcher dir", func() {
		f.spawner.EXPECT().Spawn(gomock.Any()).Return(1, nil)

		c := f.coordinator()
		c.RefreshStatus(ctx)

		_, err := c.SetLanguage(ctx, "en-US")
		Expect(err).NotTo(HaveOccurred())

		_, err = c.Launch(ctx)
		Expect(err).NotTo(HaveOccurred())

		data, err := os.ReadFile(filepath.Join(payload, "Args.txt"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("en-US&" + launcherDir))
	})

	It("skips the args file when disabled", func() {
		f.cfg.Launch.ArgsFile = "-"
		f.spawner.EXPECT().Spawn(gomock.Any()).Return(1, nil)

		c := f.coordinator()
		c.RefreshStatus(ctx)

		_, err := c.Launch(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(filepath.Join(payload, "Args.txt")).NotTo(BeAnExistingFile())
	})

	It("falls back to DownloadingApp when the executable disappeared", func() {
		c := f.coordinator()
		Expect(c.RefreshStatus(ctx).Status).To(Equal(coordinator.StatusReady))

		Expect(os.Remove(exe)).To(Succeed())

		_, err := c.Launch(ctx)
		Expect(errors.Is(err, coordinator.ErrExecutableNotFound)).To(BeTrue())
		Expect(c.Status()).To(Equal(coordinator.StatusDownloadingApp))
	})

	It("wraps spawn failures", func() {
		f.spawner.EXPECT().Spawn(gomock.Any()).Return(0, errors.New("permission denied"))

		c := f.coordinator()
		c.RefreshStatus(ctx)

		_, err := c.Launch(ctx)
		Expect(err).To(MatchError(ContainSubstring("permission denied")))
	})

	Describe("LaunchOrInstall", func() {
		It("launches when Ready", func() {
			f.spawner.EXPECT().Spawn(gomock.Any()).Return(7, nil)

			c := f.coordinator()
			c.RefreshStatus(ctx)

			out, err := c.LaunchOrInstall(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Action).To(Equal(coordinator.ActionLaunched))
			Expect(out.Launch.PID).To(Equal(7))
			Expect(out.Install).To(BeNil())
		})

		It("installs when not Ready", func() {
			f.installedVersion("0.9.0")

			c := f.coordinator()
			Expect(c.RefreshStatus(ctx).Status).To(Equal(coordinator.StatusDownloadingUpdate))

			out, err := c.LaunchOrInstall(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Action).To(Equal(coordinator.ActionInstalling))

			res := awaitInstall(out.Install)
			Expect(res.Status).To(Equal(coordinator.StatusReady))
			Expect(res.Version).To(Equal("1.0.0"))
		})
	})

	Describe("BuildArgv", func() {
		DescribeTable("expands the launch command",
			func(command string, want func(exe, payload string) []string) {
				f.cfg.Launch.Command = command

				argv, err := f.coordinator().BuildArgv(exe, payload, "ru-RU")
				Expect(err).NotTo(HaveOccurred())
				Expect(argv).To(Equal(want(exe, payload)))
			},
			Entry("default", "",
				func(exe, _ string) []string { return []string{exe, "ru-RU"} }),
			Entry("runtime host",
				`dotnet "$EXECUTABLE" --lang=$LANGUAGE`,
				func(exe, _ string) []string { return []string{"dotnet", exe, "--lang=ru-RU"} }),
			Entry("launcher and payload dirs",
				`"$PAYLOAD_DIR/run" "$LAUNCHER_DIR"`,
				func(_, payload string) []string { return []string{payload + "/run", launcherDir} }),
		)

		It("rejects an unterminated quote", func() {
			f.cfg.Launch.Command = `"$EXECUTABLE`

			_, err := f.coordinator().BuildArgv(exe, payload, "ru-RU")
			Expect(err).To(MatchError(ContainSubstring("parsing launch command")))
		})
	})
})
