package doctor_test

import (
	"bytes"
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/liftoff/internal/doctor"
	"github.com/smykla-skalski/liftoff/internal/prompt"
	"github.com/smykla-skalski/liftoff/pkg/logger"
)

var _ = Describe("Runner", func() {
	var (
		registry *doctor.Registry
		reporter *recordingReporter
		out      *bytes.Buffer
		fixer    *stubFixer
		broken   bool
	)

	newRunner := func(input string) *doctor.Runner {
		return doctor.NewRunner(
			registry,
			reporter,
			prompt.NewPrompter(strings.NewReader(input), out),
			logger.NewNoOpLogger(),
			out,
		)
	}

	BeforeEach(func() {
		registry = doctor.NewRegistry()
		reporter = &recordingReporter{}
		out = &bytes.Buffer{}
		broken = true

		fixer = &stubFixer{id: "repair", onFix: func() { broken = false }}
		registry.RegisterFixer(fixer)

		registry.RegisterChecker(&stubChecker{name: "ok", category: doctor.CategoryConfig})
		registry.RegisterChecker(&stubChecker{
			name:     "cache",
			category: doctor.CategoryCache,
			result: func() doctor.CheckResult {
				if broken {
					return doctor.FailError("cache", "corrupt").WithFixID("repair")
				}

				return doctor.Pass("cache", "fine")
			},
		})
	})

	It("suggests fixes and fails without --fix", func() {
		err := newRunner("").Run(context.Background(), doctor.RunOptions{})

		Expect(errors.Is(err, doctor.ErrChecksFailed)).To(BeTrue())
		Expect(fixer.calls).To(BeZero())
		Expect(out.String()).To(ContainSubstring("Suggested fixes:"))
		Expect(out.String()).To(ContainSubstring("liftoff doctor --fix"))
		Expect(reporter.batches).To(HaveLen(1))
	})

	It("applies fixes and re-runs the checks", func() {
		err := newRunner("").Run(context.Background(), doctor.RunOptions{AutoFix: true})

		Expect(err).NotTo(HaveOccurred())
		Expect(fixer.calls).To(Equal(1))
		Expect(out.String()).To(ContainSubstring("Fixed: Fix repair"))
		Expect(reporter.batches).To(HaveLen(2))
		Expect(reporter.batches[1][1].IsPassed()).To(BeTrue())
	})

	It("asks before fixing in interactive mode", func() {
		err := newRunner("n\n").Run(context.Background(), doctor.RunOptions{Interactive: true})

		Expect(errors.Is(err, doctor.ErrChecksFailed)).To(BeTrue())
		Expect(fixer.calls).To(BeZero())
	})

	It("fixes after confirmation", func() {
		err := newRunner("y\n").Run(context.Background(), doctor.RunOptions{Interactive: true})

		Expect(err).NotTo(HaveOccurred())
		Expect(fixer.calls).To(Equal(1))
	})

	It("runs a shared fixer once", func() {
		registry.RegisterChecker(&stubChecker{
			name:     "record",
			category: doctor.CategoryCache,
			result: func() doctor.CheckResult {
				return doctor.FailWarning("record", "stale").WithFixID("repair")
			},
		})

		Expect(newRunner("").Run(context.Background(), doctor.RunOptions{AutoFix: true})).To(Succeed())
		Expect(fixer.calls).To(Equal(1))
	})

	It("returns the fixer error", func() {
		fixer.err = errors.New("disk full")

		err := newRunner("").Run(context.Background(), doctor.RunOptions{AutoFix: true})
		Expect(err).To(MatchError(ContainSubstring("disk full")))
	})

	It("passes with warnings only", func() {
		broken = false
		registry.RegisterChecker(&stubChecker{
			name:     "remote",
			category: doctor.CategoryRemote,
			result: func() doctor.CheckResult {
				return doctor.FailWarning("remote", "offline")
			},
		})

		Expect(newRunner("").Run(context.Background(), doctor.RunOptions{})).To(Succeed())
	})

	It("limits checks to the requested categories", func() {
		err := newRunner("").Run(context.Background(), doctor.RunOptions{
			Categories: []doctor.Category{doctor.CategoryConfig},
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(reporter.batches[0]).To(HaveLen(1))
	})
})
