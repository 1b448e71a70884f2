package settlement_test

import (
	"time"

	"github.com/frahmantamala/courier-payroll/internal/settlement"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("FortnightOf", func() {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	DescribeTable("half-month bounds",
		func(now time.Time, start, end time.Time) {
			s, e := settlement.FortnightOf(now)
			Expect(s).To(Equal(start))
			Expect(e).To(Equal(end))
		},
		Entry("first day", day(2024, 1, 1), day(2024, 1, 1), day(2024, 1, 15)),
		Entry("fifteenth", time.Date(2024, 1, 15, 23, 59, 0, 0, time.UTC), day(2024, 1, 1), day(2024, 1, 15)),
		Entry("sixteenth", day(2024, 1, 16), day(2024, 1, 16), day(2024, 1, 31)),
		Entry("leap february", day(2024, 2, 20), day(2024, 2, 16), day(2024, 2, 29)),
		Entry("thirty day month", day(2024, 4, 30), day(2024, 4, 16), day(2024, 4, 30)),
		Entry("december", day(2024, 12, 31), day(2024, 12, 16), day(2024, 12, 31)),
		Entry("non-UTC input", time.Date(2024, 3, 15, 22, 0, 0, 0, time.FixedZone("COT", -5*3600)), day(2024, 3, 16), day(2024, 3, 31)),
	)
})
