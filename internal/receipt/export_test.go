package receipt

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/zombor/receipt-splitter/internal/splitting"
)

var _ = Describe("totalsCSV", func() {
	It("writes a header and one row per participant", func() {
		data, err := totalsCSV([]splitting.PersonTotal{
			{
				Name:   "Aysel",
				Amount: decimal.RequireFromString("10").Div(decimal.NewFromInt(3)),
				Shares: []splitting.Share{{ItemName: "Plov"}, {ItemName: "Çay, limonlu"}},
			},
			{Name: "Murad", Amount: decimal.Zero},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("name,amount,items\n" +
			"Aysel,3.33,\"Plov; Çay, limonlu\"\n" +
			"Murad,0.00,\n"))
	})

	It("writes only the header without participants", func() {
		data, err := totalsCSV(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("name,amount,items\n"))
	})
})
