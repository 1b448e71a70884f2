package ledger_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/frahmantamala/courier-payroll/internal"
	"github.com/frahmantamala/courier-payroll/internal/ledger"
	"github.com/frahmantamala/courier-payroll/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"
)

type stubService struct {
	report *ledger.Report
	err    error
}

func (s *stubService) Build(_ context.Context, from, to time.Time) (*ledger.Report, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.report.From, s.report.To = from, to
	return s.report, nil
}

var _ = Describe("Ledger Handler", func() {
	var (
		router *chi.Mux
		stub   *stubService
	)

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		stub = &stubService{report: ledger.Aggregate(day(1), day(15), []ledger.Transaction{
			tx(3, "80000", ledger.TypeIncome, ledger.SourceClientServices, "acme"),
			tx(4, "30000", ledger.TypeExpense, ledger.SourceExpense, "rent"),
		})}
		handler := ledger.NewHandler(transport.NewBaseHandler(slogger), stub)

		router = chi.NewRouter()
		router.Get("/ledger", handler.GetLedger)
		router.Get("/ledger/export.xlsx", handler.ExportLedger)
	})

	It("should return the report as JSON", func() {
		req := httptest.NewRequest(http.MethodGet, "/ledger?from=2024-01-01&to=2024-01-15", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		var body map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body["from"]).To(Equal("2024-01-01"))
		Expect(body["transactions"]).To(HaveLen(2))
		Expect(body).To(HaveKey("finalBalance"))
	})

	It("should require both ends of the range", func() {
		req := httptest.NewRequest(http.MethodGet, "/ledger?from=2024-01-01", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("should reject an inverted range", func() {
		req := httptest.NewRequest(http.MethodGet, "/ledger?from=2024-01-20&to=2024-01-01", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("should map a report timeout to 504", func() {
		stub.err = internal.ErrReportTimeout
		req := httptest.NewRequest(http.MethodGet, "/ledger?from=2024-01-01&to=2024-01-15", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusGatewayTimeout))
	})

	It("should stream the xlsx export", func() {
		req := httptest.NewRequest(http.MethodGet, "/ledger/export.xlsx?from=2024-01-01&to=2024-01-15", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("Content-Type")).To(ContainSubstring("spreadsheetml"))
		Expect(rec.Header().Get("Content-Disposition")).To(ContainSubstring("ledger-2024-01-01-2024-01-15.xlsx"))

		f, err := excelize.OpenReader(rec.Body)
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()
		rows, err := f.GetRows("Ledger")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(4))
	})
})
