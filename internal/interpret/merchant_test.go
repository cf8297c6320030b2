package interpret

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("extractMerchant", func() {
	var (
		lines  []string
		result string
	)

	JustBeforeEach(func() {
		result = extractMerchant(lines)
	})

	When("the first line is a plausible name", func() {
		BeforeEach(func() {
			lines = []string{"CVS Pharmacy", "123 Main St"}
		})

		It("should return it", func() {
			Expect(result).To(Equal("CVS Pharmacy"))
		})
	})

	When("the name carries surrounding whitespace", func() {
		BeforeEach(func() {
			lines = []string{"   Target Store   "}
		})

		It("should return it trimmed", func() {
			Expect(result).To(Equal("Target Store"))
		})
	})

	When("leading lines are too short or too long", func() {
		BeforeEach(func() {
			lines = []string{"ab", strings.Repeat("x", 60), "Shell Station"}
		})

		It("should skip to the first qualifying line", func() {
			Expect(result).To(Equal("Shell Station"))
		})
	})

	When("no qualifying line appears in the first five", func() {
		BeforeEach(func() {
			lines = []string{"a", "b", "c", "d", "e", "Actual Merchant"}
		})

		It("should return the sentinel", func() {
			Expect(result).To(Equal(UnknownMerchant))
		})
	})

	When("the line sequence is empty", func() {
		BeforeEach(func() {
			lines = nil
		})

		It("should return the sentinel", func() {
			Expect(result).To(Equal(UnknownMerchant))
		})
	})
})
