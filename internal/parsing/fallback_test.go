package parsing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("salvage", func() {
	var (
		lines []string
		items []Item
	)

	JustBeforeEach(func() {
		items = salvage(lines)
	})

	When("a line carries several prices", func() {
		BeforeEach(func() {
			lines = []string{"Kebab 15,50 x 2 = 31,00"}
		})

		It("uses the largest price as the total", func() {
			Expect(items).To(HaveLen(1))
			Expect(items[0].TotalPrice).To(BeAmount("31.00"))
			Expect(items[0].UnitPrice).To(BeAmount("31.00"))
			Expect(items[0].Quantity).To(Equal(1))
		})

		It("strips prices, digits and operators from the name", func() {
			Expect(items[0].Name).To(Equal("Kebab"))
		})

		It("marks the item as salvaged", func() {
			Expect(items[0].Source).To(Equal(SourceSalvage))
		})
	})

	When("a quantity marker is attached to its number", func() {
		BeforeEach(func() {
			lines = []string{"Kebab x2 10.00 = 20.00", "3x Dolma = 13,50", "Plov ×2 = 9,00"}
		})

		It("strips the marker from the name", func() {
			Expect(items).To(HaveLen(3))
			Expect(items[0].Name).To(Equal("Kebab"))
			Expect(items[1].Name).To(Equal("Dolma"))
			Expect(items[2].Name).To(Equal("Plov"))
		})
	})

	When("the remaining name is too short", func() {
		BeforeEach(func() {
			lines = []string{"kb 12.50 = 25.00"}
		})

		It("skips the line", func() {
			Expect(items).To(BeEmpty())
		})
	})

	When("a line is noise", func() {
		BeforeEach(func() {
			lines = []string{"TOTAL 45.00", "Ayran 2,00 1"}
		})

		It("only salvages the item line", func() {
			Expect(items).To(HaveLen(1))
			Expect(items[0].Name).To(Equal("Ayran"))
			Expect(items[0].TotalPrice).To(BeAmount("2.00"))
		})
	})

	When("a line has no two-decimal price", func() {
		BeforeEach(func() {
			lines = []string{"Chicken Doner 5"}
		})

		It("skips the line", func() {
			Expect(items).To(BeEmpty())
		})
	})
})

var _ = Describe("seedPlaceholders", func() {
	When("the text is long enough", func() {
		It("returns the placeholder items", func() {
			items := seedPlaceholders("unreadable receipt text without any prices")
			Expect(items).To(HaveLen(3))
			Expect(items[0].Name).To(Equal("Chicken Kebab"))
			Expect(items[0].TotalPrice).To(BeAmount("15.50"))
			Expect(items[1].Name).To(Equal("Turkish Tea"))
			Expect(items[2].Name).To(Equal("Lahmacun"))
		})

		It("marks every item as a placeholder", func() {
			for _, item := range seedPlaceholders("unreadable receipt text without any prices") {
				Expect(item.Source).To(Equal(SourcePlaceholder))
			}
		})
	})

	When("the trimmed text is short", func() {
		It("returns nothing", func() {
			Expect(seedPlaceholders("   short text   ")).To(BeEmpty())
			Expect(seedPlaceholders("")).To(BeEmpty())
		})
	})
})
