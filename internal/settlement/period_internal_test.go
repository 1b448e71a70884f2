package settlement

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("localDay", func() {
	It("should use the office calendar day rather than the UTC one", func() {
		bogota := time.FixedZone("COT", -5*3600)
		// 02:00 UTC on the 16th is still the 15th in Bogota
		instant := time.Date(2024, 3, 16, 2, 0, 0, 0, time.UTC)

		Expect(localDay(instant, bogota)).To(Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)))
		Expect(localDay(instant, time.UTC)).To(Equal(time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)))
	})
})
