package tui_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/liftoff/internal/tui"
)

// Test binaries run with stdin and stdout redirected, so IsTerminal is false.
var _ = Describe("UI selection", func() {
	It("does not see a terminal under go test", func() {
		Expect(tui.IsTerminal()).To(BeFalse())
	})

	It("falls back to line prompts without a terminal", func() {
		Expect(tui.New()).To(BeAssignableToTypeOf(&tui.FallbackUI{}))
		Expect(tui.New().IsInteractive()).To(BeFalse())
	})

	It("honors --no-tui", func() {
		Expect(tui.NewWithFallback(true)).To(BeAssignableToTypeOf(&tui.FallbackUI{}))
	})

	It("reports the huh forms as interactive", func() {
		Expect(tui.NewHuhUI().IsInteractive()).To(BeTrue())
	})
})
