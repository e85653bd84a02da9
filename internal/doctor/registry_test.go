package doctor_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/smykla-skalski/liftoff/internal/doctor"
)

var _ = Describe("Registry", func() {
	var registry *doctor.Registry

	BeforeEach(func() {
		registry = doctor.NewRegistry()
		registry.RegisterChecker(&stubChecker{name: "cfg", category: doctor.CategoryConfig})
		registry.RegisterChecker(&stubChecker{name: "build", category: doctor.CategoryCache})
		registry.RegisterChecker(&stubChecker{name: "record", category: doctor.CategoryCache})
		registry.RegisterChecker(&stubChecker{name: "remote", category: doctor.CategoryRemote})
	})

	Describe("CheckersForCategories", func() {
		It("returns all checkers when categories is empty", func() {
			Expect(registry.CheckersForCategories(nil)).To(HaveLen(4))
		})

		It("filters by category", func() {
			checkers := registry.CheckersForCategories([]doctor.Category{doctor.CategoryCache})
			Expect(checkers).To(HaveLen(2))

			for _, c := range checkers {
				Expect(c.Category()).To(Equal(doctor.CategoryCache))
			}
		})

		It("returns nothing for an unknown category", func() {
			Expect(registry.CheckersForCategories([]doctor.Category{"nonexistent"})).To(BeEmpty())
		})

		It("does not modify the registered checkers", func() {
			registry.CheckersForCategories([]doctor.Category{doctor.CategoryRemote})
			Expect(registry.Checkers()).To(HaveLen(4))
		})
	})

	Describe("Run", func() {
		It("keeps registration order and sets the category", func() {
			slow := &stubChecker{
				name:     "slow",
				category: doctor.CategoryPaths,
				result: func() doctor.CheckResult {
					time.Sleep(20 * time.Millisecond)

					return doctor.FailWarning("slow", "late")
				},
			}

			r := doctor.NewRegistry()
			r.RegisterChecker(slow)
			r.RegisterChecker(&stubChecker{name: "fast", category: doctor.CategoryConfig})

			results := r.Run(context.Background(), nil)
			Expect(results).To(HaveLen(2))
			Expect(results[0].Name).To(Equal("slow"))
			Expect(results[0].Category).To(Equal(doctor.CategoryPaths))
			Expect(results[1].Name).To(Equal("fast"))
		})
	})

	Describe("Fixer", func() {
		It("looks fixers up by ID", func() {
			registry.RegisterFixer(&stubFixer{id: "a"})

			f, ok := registry.Fixer("a")
			Expect(ok).To(BeTrue())
			Expect(f.ID()).To(Equal("a"))

			_, ok = registry.Fixer("b")
			Expect(ok).To(BeFalse())
			Expect(registry.FixerCount()).To(Equal(1))
		})
	})
})

var _ = Describe("ParseCategories", func() {
	It("accepts known names in any case", func() {
		cats, err := doctor.ParseCategories([]string{"Cache", " remote "})
		Expect(err).NotTo(HaveOccurred())
		Expect(cats).To(Equal([]doctor.Category{doctor.CategoryCache, doctor.CategoryRemote}))
	})

	It("rejects unknown names", func() {
		_, err := doctor.ParseCategories([]string{"hooks"})
		Expect(err).To(MatchError(ContainSubstring("unknown category")))
	})
})
