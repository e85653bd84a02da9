package tui_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/liftoff/internal/prompt"
	"github.com/smykla-skalski/liftoff/internal/tui"
)

var _ = Describe("FallbackUI", func() {
	options := tui.LanguageOptions([]string{"ru-RU", "en-US"})

	newUI := func(input string) (*tui.FallbackUI, *bytes.Buffer) {
		out := &bytes.Buffer{}
		p := prompt.NewPrompter(strings.NewReader(input), out)

		return tui.NewFallbackUIWithPrompter(p, out), out
	}

	It("selects a language by number", func() {
		ui, out := newUI("2\n")

		tag, err := ui.SelectLanguage("ru-RU", options)
		Expect(err).NotTo(HaveOccurred())
		Expect(tag).To(Equal("en-US"))
		Expect(out.String()).To(ContainSubstring("* 1) ru-RU"))
	})

	It("keeps the current language on empty input", func() {
		ui, _ := newUI("\n")

		tag, err := ui.SelectLanguage("en-US", options)
		Expect(err).NotTo(HaveOccurred())
		Expect(tag).To(Equal("en-US"))
	})

	It("selects a language by tag", func() {
		ui, _ := newUI("ru-ru\n")

		tag, err := ui.SelectLanguage("en-US", options)
		Expect(err).NotTo(HaveOccurred())
		Expect(tag).To(Equal("ru-RU"))
	})

	It("confirms with the description printed", func() {
		ui, out := newUI("y\n")

		ok, err := ui.Confirm("Remove the cache?", "Everything under /tmp/x is deleted.", false)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(out.String()).To(ContainSubstring("Everything under /tmp/x is deleted."))
	})
})

var _ = Describe("LanguageOptions", func() {
	It("labels known tags with their own name", func() {
		opts := tui.LanguageOptions([]string{"ru-RU", "en-US"})

		Expect(opts).To(HaveLen(2))
		Expect(opts[0].Tag).To(Equal("ru-RU"))
		Expect(opts[0].Label).To(HaveSuffix("(ru-RU)"))
		Expect(opts[0].Label).NotTo(Equal("ru-RU"))
	})

	It("labels malformed tags with the tag", func() {
		opts := tui.LanguageOptions([]string{"not a tag"})

		Expect(opts[0].Label).To(Equal("not a tag"))
	})
})
