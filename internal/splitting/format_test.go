package splitting_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/receipt-splitter/internal/splitting"
)

var _ = Describe("Formatting", func() {
	It("formats currency with two decimals", func() {
		Expect(splitting.FormatCurrency(dec("12.5"))).To(Equal("₼12.50"))
		Expect(splitting.FormatCurrency(dec("3.333333"))).To(Equal("₼3.33"))
	})

	It("describes a split", func() {
		Expect(splitting.FormatSplitInfo(2, dec("30"))).To(Equal("Split 2 ways: ₼15.00 each"))
		Expect(splitting.FormatSplitInfo(0, dec("30"))).To(Equal("Not assigned"))
	})

	It("describes item details", func() {
		Expect(splitting.FormatItemDetails(2, dec("10"), dec("20"))).To(Equal("Qty: 2 × ₼10.00 = ₼20.00"))
	})

	It("pluralizes quantities", func() {
		Expect(splitting.FormatQuantity(1)).To(Equal("1 item"))
		Expect(splitting.FormatQuantity(3)).To(Equal("3 items"))
	})
})
