package interpret

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("extractDate", func() {
	var (
		now    time.Time
		text   string
		lines  []string
		result time.Time
	)

	BeforeEach(func() {
		now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		text = ""
		lines = nil
	})

	JustBeforeEach(func() {
		result = extractDate(text, lines, &fixedTimeSource{now: now})
	})

	When("a line holds a slash date", func() {
		BeforeEach(func() {
			lines = []string{"Walmart", "01/15/2024"}
		})

		It("should parse it", func() {
			Expect(result).To(Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)))
		})
	})

	When("a line holds a dash date with a two-digit year", func() {
		BeforeEach(func() {
			lines = []string{"12-31-24"}
		})

		It("should parse it with the standard century pivot", func() {
			Expect(result).To(Equal(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)))
		})
	})

	When("a line holds an ISO-style date", func() {
		BeforeEach(func() {
			lines = []string{"2024-01-15"}
		})

		It("should parse it via the year-first pattern", func() {
			Expect(result).To(Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)))
		})
	})

	When("a line holds an abbreviated month date", func() {
		BeforeEach(func() {
			lines = []string{"Jan 15, 2024"}
		})

		It("should parse it", func() {
			Expect(result).To(Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)))
		})
	})

	When("the month abbreviation is upper-cased by OCR", func() {
		BeforeEach(func() {
			lines = []string{"JAN 15, 2024"}
		})

		It("should still parse it", func() {
			Expect(result).To(Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)))
		})
	})

	When("the date carries a time suffix", func() {
		BeforeEach(func() {
			lines = []string{"Dec 25, 2023 at 3:45 PM"}
		})

		It("should return the calendar date", func() {
			Expect(result).To(Equal(time.Date(2023, 12, 25, 0, 0, 0, 0, time.UTC)))
		})
	})

	When("a matched string is not a real calendar date", func() {
		BeforeEach(func() {
			lines = []string{"13/45/2024", "02/01/2024"}
		})

		It("should skip it and keep scanning", func() {
			Expect(result).To(Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
		})
	})

	When("only the full text holds a date", func() {
		BeforeEach(func() {
			lines = []string{"Walmart", "TOTAL 5.00"}
			text = "Walmart\nTOTAL 5.00\nprinted 03/04/2024"
		})

		It("should fall back to the text scan", func() {
			Expect(result).To(Equal(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)))
		})
	})

	When("nothing matches anywhere", func() {
		BeforeEach(func() {
			lines = []string{"Walmart"}
			text = "Walmart"
		})

		It("should default to now", func() {
			Expect(result).To(Equal(now))
		})
	})
})
